package wizard

import (
	"fmt"

	"github.com/tidepool-org/prescription-wizard/notify"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/steps"
)

const newPrescriptionTitle = "Create New Prescription"

type StepView struct {
	ID       steps.StepID      `json:"id"`
	Label    string            `json:"label"`
	SubSteps []steps.SubStepID `json:"subSteps"`
	Complete bool              `json:"complete"`
}

type Navigation struct {
	Path    string            `json:"path,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Back    bool              `json:"back"`
	Next    bool              `json:"next"`
	Submit  bool              `json:"submit"`
	Disable bool              `json:"disabled"`

	// DisableComplete is set on the last step while any step of the wizard is invalid
	DisableComplete bool `json:"disableComplete"`
}

// View is the rendering state of a session
type View struct {
	SessionId         string             `json:"sessionId"`
	Title             string             `json:"title"`
	Editable          bool               `json:"editable"`
	CurrentPosition   Position           `json:"currentPosition"`
	Steps             []StepView         `json:"steps"`
	ActiveStepIsValid bool               `json:"activeStepIsValid"`
	SubmissionState   SubmissionState    `json:"submissionState"`
	Editing           bool               `json:"editing"`
	ReturnTo          *Position          `json:"returnTo,omitempty"`
	Focus             string             `json:"focus,omitempty"`
	Navigation        Navigation         `json:"navigation"`
	Errors            map[string]string  `json:"errors,omitempty"`
	Toasts            []notify.Toast     `json:"toasts,omitempty"`
	RevisionHash      string             `json:"revisionHash,omitempty"`
	Values            prescription.Draft `json:"values"`
}

func (s *Session) View() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attrs, err := s.draft.Attributes()
	if err != nil {
		return View{}, err
	}

	current := s.position.Current()
	view := View{
		SessionId:       s.id,
		Title:           s.title(),
		Editable:        s.editable,
		CurrentPosition: current,
		SubmissionState: s.machine.SubmissionState(),
		Editing:         s.position.Editing(),
		ReturnTo:        s.position.ReturnTo(),
		Focus:           s.position.Focus(),
		RevisionHash:    s.revisionHash,
		Toasts:          append([]notify.Toast(nil), s.toasts...),
		Values:          s.draft.Clone(),
	}

	for _, step := range s.registry.Steps() {
		sv := StepView{
			ID:       step.ID,
			Label:    step.Label,
			Complete: IsStepComplete(step.Fields(), s.schema, attrs),
		}
		for _, sub := range step.SubSteps {
			sv.SubSteps = append(sv.SubSteps, sub.ID)
		}
		view.Steps = append(view.Steps, sv)
	}

	if errs := s.schema.Validate(attrs, s.registry.Fields(current)); len(errs) > 0 {
		view.Errors = make(map[string]string, len(errs))
		for path, e := range errs {
			view.Errors[path] = e.Error()
		}
	} else {
		view.ActiveStepIsValid = true
	}

	view.Navigation = s.navigation(current, view.SubmissionState, attrs)
	return view, nil
}

func (s *Session) navigation(current Position, state SubmissionState, attrs prescription.Attributes) Navigation {
	nav := Navigation{
		Query:   map[string]string{},
		Back:    current != (Position{}) && !s.position.Editing(),
		Disable: state == SubmissionPending || state == SubmissionFailed,
	}
	if s.position.IsLastStep() {
		nav.DisableComplete = !IsStepComplete(CompletionFields(s.registry), s.schema, attrs)
	}
	if r, ok := s.router.(*MemoryRouter); ok {
		nav.Path = r.Path()
	}
	if value, ok := s.router.QueryParam(StepQueryParam); ok {
		nav.Query[StepQueryParam] = value
	}

	_, hasNext := s.registry.Next(current)
	nav.Next = hasNext && !s.position.Editing()
	nav.Submit = s.editable && !s.position.Editing()
	return nav
}

func (s *Session) title() string {
	if s.newFlow && s.draft.Id == "" {
		return newPrescriptionTitle
	}
	return fmt.Sprintf("Prescription: %s", s.draft.FullName())
}
