package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/draftstore"
	"github.com/tidepool-org/prescription-wizard/notify"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/schema"
	"github.com/tidepool-org/prescription-wizard/steps"
)

const DefaultCooldown = time.Second

var (
	ErrNotEditable    = errors.New("prescription is not editable")
	ErrStepIncomplete = errors.New("step is incomplete")
)

// ValidationError carries the field level errors of an incomplete step
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrStepIncomplete, e.Errors.Error())
}

func (e *ValidationError) Unwrap() error {
	return ErrStepIncomplete
}

type Options struct {
	SessionId    string
	UserId       string
	ClinicId     string
	Token        string
	IsPrescriber bool
	// Prescription is the edited prescription, nil when creating a new one
	Prescription *prescription.Prescription
	Catalogue    devices.Catalogue
}

type Dependencies struct {
	Store    draftstore.Store
	Service  prescriptions.Service
	Notifier notify.Notifier
	Router   Router
	Clock    clock.Clock
	Cooldown time.Duration
	Logger   *zap.SugaredLogger
}

// Session is a single wizard run. It is safe for concurrent use.
type Session struct {
	id           string
	userId       string
	clinicId     string
	token        string
	isPrescriber bool
	editable     bool
	catalogue    devices.Catalogue
	registry     *steps.Registry
	storeKey     string

	store    draftstore.Store
	tracker  *prescriptions.Tracker
	notifier notify.Notifier
	router   Router
	clock    clock.Clock
	cooldown time.Duration
	logger   *zap.SugaredLogger

	mu           sync.Mutex
	newFlow      bool
	draft        prescription.Draft
	schema       *schema.Schema
	position     *PositionTracker
	machine      *Machine
	reconciler   *Reconciler
	inflight     prescriptions.Kind
	revisionHash string
	toasts       []notify.Toast
}

// Start sets up the session. Stored values are hydrated or discarded, and the store cleared,
// before the session is returned, so steady state persistence always starts clean.
func Start(ctx context.Context, opts Options, deps Dependencies) (*Session, error) {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Cooldown == 0 {
		deps.Cooldown = DefaultCooldown
	}

	draft := prescription.NewDraft(opts.Prescription)
	editable := opts.Prescription == nil || opts.Prescription.State.IsEditable()

	if defaultPumpId, defaultCgmId, ok := opts.Catalogue.DefaultDeviceIds(); ok {
		draft.ApplyDefaultDevices(defaultPumpId, defaultCgmId)
	}

	urlPosition, hasURLPosition := Position{}, false
	if value, ok := deps.Router.QueryParam(StepQueryParam); ok {
		if p, err := ParsePosition(value); err == nil {
			urlPosition, hasURLPosition = p, true
		}
	}

	s := &Session{
		id:           opts.SessionId,
		userId:       opts.UserId,
		clinicId:     opts.ClinicId,
		token:        opts.Token,
		isPrescriber: opts.IsPrescriber,
		editable:     editable,
		catalogue:    opts.Catalogue,
		storeKey:     draftstore.ScopedKey(opts.UserId, opts.ClinicId, draftstore.WizardKeyName),
		store:        deps.Store,
		tracker:      prescriptions.NewTracker(deps.Service, deps.Logger),
		notifier:     deps.Notifier,
		router:       deps.Router,
		clock:        deps.Clock,
		cooldown:     deps.Cooldown,
		logger:       deps.Logger.With("sessionId", opts.SessionId, "clinicId", opts.ClinicId),
		newFlow:      opts.Prescription == nil,
		machine:      NewMachine(),
		reconciler:   NewReconciler(),
	}

	hydrated, err := s.hydrate(ctx, draft, hasURLPosition)
	if err != nil {
		return nil, err
	}
	s.draft = hydrated

	// adjustments follow the pump of the hydrated values and stay fixed for the session
	pumpId := s.draft.PumpId()
	if pumpId == "" {
		pumpId = devices.PalmtreePumpId
	}
	registry := steps.New(steps.AdjustmentsFor(opts.Catalogue, pumpId))
	s.registry = registry
	s.rebuildSchema()

	start := urlPosition
	if !hasURLPosition || !registry.Contains(start) {
		start = Position{}
		if !editable {
			start = Position{Step: registry.LastStep()}
		}
	}
	if editable {
		attrs, err := s.draft.Attributes()
		if err != nil {
			return nil, err
		}
		start = FirstIncomplete(attrs, registry, s.schema)
	}
	s.position = NewPositionTracker(registry, start)
	s.router.SetQueryParam(StepQueryParam, start.String())
	s.tracker.Subscribe(s.onOutcome)

	s.logger.Infow("started wizard session", "prescriptionId", s.draft.Id, "position", start.String(), "editable", editable)
	return s, nil
}

func (s *Session) hydrate(ctx context.Context, draft prescription.Draft, hasURLPosition bool) (prescription.Draft, error) {
	stored, err := draftstore.GetDraft(ctx, s.store, s.storeKey)
	if err != nil {
		s.logger.Warnw("unable to read stored draft", zap.Error(err))
		stored = nil
	}

	if draftstore.ShouldHydrate(draftstore.HydrationInput{
		PrescriptionId: draft.Id,
		HasURLPosition: hasURLPosition,
		Stored:         stored,
	}) {
		s.logger.Debugw("hydrating stored draft", "prescriptionId", stored.Id)
		draft, err = draft.Hydrate(stored.Values)
		if err != nil {
			return draft, fmt.Errorf("unable to hydrate stored draft: %w", err)
		}
	}

	if err := s.store.Delete(ctx, s.storeKey); err != nil {
		return draft, fmt.Errorf("unable to clear stored draft: %w", err)
	}
	return draft, nil
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) UserId() string {
	return s.userId
}

func (s *Session) ClinicId() string {
	return s.clinicId
}

func (s *Session) Registry() *steps.Registry {
	return s.registry
}

func (s *Session) Catalogue() devices.Catalogue {
	return s.catalogue
}

func (s *Session) IsPrescriber() bool {
	return s.isPrescriber
}

func (s *Session) Draft() prescription.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Pump returns the pump whose guard rails apply to the current values
func (s *Session) Pump() *devices.Pump {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema.Pump()
}

// SetValues replaces the values and mirrors them to the draft store. Invalid values are kept as entered.
func (s *Session) SetValues(ctx context.Context, values prescription.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editable {
		return ErrNotEditable
	}
	if _, err := s.machine.Fire(EventFieldChanged); err != nil {
		return err
	}

	values.Id = s.draft.Id
	values.State = s.draft.State
	s.draft = values.Clone()
	s.rebuildSchema()
	s.persist(ctx)
	return nil
}

// JumpTo moves to the target, entering single step edit mode when a return position is given
func (s *Session) JumpTo(target Position, returnTo *Position, focus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editable {
		return ErrNotEditable
	}
	if err := s.position.JumpTo(target, returnTo, focus, s.draft); err != nil {
		return err
	}
	s.stepChanged()
	return nil
}

// Advance moves forward when the active sub-step is complete. It reports false at the end of the wizard.
func (s *Session) Advance() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateActive(); err != nil {
		return false, err
	}
	if !s.position.Advance() {
		return false, nil
	}
	s.stepChanged()
	return true, nil
}

// CompleteEdit returns from single step edit mode, restoring the values from before the jump when cancelled
func (s *Session) CompleteEdit(ctx context.Context, cancel bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored, err := s.position.CompleteEdit(cancel)
	if err != nil {
		return err
	}
	if restored != nil {
		s.draft = *restored
		s.rebuildSchema()
		s.persist(ctx)
	}
	s.stepChanged()
	return nil
}

// Submit completes the active step and dispatches the submission in the background.
// A second submit while one is pending is rejected.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if !s.editable {
		s.mu.Unlock()
		return ErrNotEditable
	}
	if s.position.Editing() {
		s.mu.Unlock()
		return ErrEditing
	}
	if !s.machine.Can(EventSubmitClicked) {
		_, err := s.machine.Fire(EventSubmitClicked)
		s.mu.Unlock()
		return err
	}
	validate := s.validateActive
	if s.position.IsLastStep() {
		validate = s.validateCompletion
	}
	if err := validate(); err != nil {
		s.mu.Unlock()
		return err
	}

	submission, err := BuildSubmission(SubmissionInput{
		Draft:        s.draft,
		Position:     s.position.Current(),
		Registry:     s.registry,
		UserId:       s.userId,
		IsPrescriber: s.isPrescriber,
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if _, err := s.machine.Fire(EventSubmitClicked); err != nil {
		s.mu.Unlock()
		return err
	}
	s.draft.State = submission.State
	s.inflight = submission.Kind
	s.revisionHash = submission.RevisionHash
	s.mu.Unlock()

	s.logger.Infow("submitting step", "kind", submission.Kind, "prescriptionId", submission.PrescriptionId, "revisionHash", submission.RevisionHash)

	// the submission outlives the request that triggered it
	err = s.tracker.Dispatch(context.WithoutCancel(ctx), prescriptions.Request{
		Kind:           submission.Kind,
		Token:          s.token,
		ClinicId:       s.clinicId,
		PrescriptionId: submission.PrescriptionId,
		Attributes:     submission.Attributes,
	})
	if err != nil {
		s.logger.Errorw("unable to dispatch submission", zap.Error(err))
		s.apply(Effects{
			Event:         EventOutcomeFailure,
			Toast:         &notify.Toast{Message: err.Error(), Variant: notify.VariantDanger},
			StartCooldown: true,
		})
	}
	return nil
}

// Wait blocks until every dispatched submission completed
func (s *Session) Wait() {
	s.tracker.Wait()
}

func (s *Session) onOutcome(kind prescriptions.Kind, outcome prescriptions.Outcome) {
	s.mu.Lock()
	effects, ok := s.reconciler.Reconcile(ReconcileInput{
		Kind:         kind,
		Outcome:      outcome,
		IsLastStep:   s.position.IsLastStep(),
		IsPrescriber: s.isPrescriber,
		NewFlow:      s.newFlow,
	})
	current := kind == s.inflight
	s.mu.Unlock()

	if ok && current {
		s.apply(effects)
	}
}

func (s *Session) apply(effects Effects) {
	ctx := context.Background()

	s.mu.Lock()
	if _, err := s.machine.Fire(effects.Event); err != nil {
		s.mu.Unlock()
		s.logger.Warnw("ignoring submission outcome", zap.Error(err))
		return
	}
	if effects.AssignedId != "" {
		s.draft.Id = effects.AssignedId
	}
	if effects.StoreDraft {
		s.persist(ctx)
		s.newFlow = false
	}
	if effects.Navigate != "" {
		s.router.Navigate(effects.Navigate)
	}
	if effects.Advance && s.position.Advance() {
		s.router.SetQueryParam(StepQueryParam, s.position.Current().String())
	}
	if effects.Toast != nil {
		s.toasts = append(s.toasts, *effects.Toast)
	}
	if effects.StartCooldown {
		s.clock.AfterFunc(s.cooldown, s.cooldownElapsed)
	}
	s.mu.Unlock()

	if effects.Toast != nil {
		if err := s.notifier.Notify(ctx, s.id, *effects.Toast); err != nil {
			s.logger.Errorw("unable to deliver toast", zap.Error(err))
		}
	}
}

func (s *Session) cooldownElapsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.machine.Fire(EventCooldownElapsed); err != nil {
		s.logger.Debugw("ignoring elapsed cooldown", zap.Error(err))
	}
}

func (s *Session) stepChanged() {
	if _, err := s.machine.Fire(EventStepChanged); err != nil {
		s.logger.Debugw("ignoring step change", zap.Error(err))
	}
	s.router.SetQueryParam(StepQueryParam, s.position.Current().String())
}

func (s *Session) validateActive() error {
	return s.validate(s.registry.Fields(s.position.Current()))
}

func (s *Session) validateCompletion() error {
	return s.validate(CompletionFields(s.registry))
}

func (s *Session) validate(fields []prescription.FieldPath) error {
	attrs, err := s.draft.Attributes()
	if err != nil {
		return err
	}
	if errs := s.schema.Validate(attrs, fields); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func (s *Session) rebuildSchema() {
	pumpId := s.draft.PumpId()
	if pumpId == "" {
		pumpId = devices.PalmtreePumpId
	}
	s.schema = schema.Build(s.catalogue, pumpId, s.draft.BloodGlucoseUnits(), s.draft)
}

func (s *Session) persist(ctx context.Context) {
	err := draftstore.SetDraft(ctx, s.store, s.storeKey, draftstore.StoredDraft{
		Id:     s.draft.Id,
		Values: s.draft,
	})
	if err != nil {
		s.logger.Errorw("unable to persist draft", zap.Error(err))
	}
}
