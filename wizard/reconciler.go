package wizard

import (
	"fmt"

	"github.com/tidepool-org/prescription-wizard/notify"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
)

const PrescriptionsPath = "/clinic-workspace/prescriptions"

func PrescriptionPath(id string) string {
	return fmt.Sprintf("/prescriptions/%s", id)
}

type ReconcileInput struct {
	Kind         prescriptions.Kind
	Outcome      prescriptions.Outcome
	IsLastStep   bool
	IsPrescriber bool
	NewFlow      bool
}

// Effects are the one-time consequences of a completed submission
type Effects struct {
	Event Event
	Toast *notify.Toast
	// AssignedId is the identifier of a newly created prescription
	AssignedId string
	// Navigate is the path to leave the wizard for, or to continue the flow at
	Navigate string
	// StoreDraft is set when the values must be persisted with the new identifier before navigating
	StoreDraft bool
	Advance    bool
	// StartCooldown schedules the return to the initial state after a failure
	StartCooldown bool
}

// Reconciler turns submission outcomes into effects.
// Only a transition from in progress into a completion produces effects,
// so repeated snapshots of a known outcome are ignored.
type Reconciler struct {
	last map[prescriptions.Kind]prescriptions.Outcome
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		last: map[prescriptions.Kind]prescriptions.Outcome{},
	}
}

func (r *Reconciler) Reconcile(input ReconcileInput) (Effects, bool) {
	previous := r.last[input.Kind]
	r.last[input.Kind] = input.Outcome

	if input.Outcome.InProgress || input.Outcome.Completed == nil || !previous.InProgress {
		return Effects{}, false
	}

	if input.Outcome.Failed() {
		message := ""
		if input.Outcome.Notification != nil {
			message = input.Outcome.Notification.Message
		}
		return Effects{
			Event:         EventOutcomeFailure,
			Toast:         &notify.Toast{Message: message, Variant: notify.VariantDanger},
			StartCooldown: true,
		}, true
	}

	effects := Effects{
		Event:      EventOutcomeSuccess,
		AssignedId: input.Outcome.PrescriptionId,
	}
	if input.IsLastStep {
		effects.Toast = &notify.Toast{Message: successMessage(input.Kind, input.IsPrescriber), Variant: notify.VariantSuccess}
		effects.Navigate = PrescriptionsPath
		return effects, true
	}

	effects.Advance = true
	if effects.AssignedId != "" && input.NewFlow {
		effects.StoreDraft = true
		effects.Navigate = PrescriptionPath(effects.AssignedId)
	}
	return effects, true
}

func successMessage(kind prescriptions.Kind, isPrescriber bool) string {
	action := "created"
	if kind == prescriptions.KindRevise {
		action = "updated"
	}
	if isPrescriber {
		action = "finalized and sent"
	}
	return fmt.Sprintf("You have successfully %s a Tidepool Loop prescription.", action)
}
