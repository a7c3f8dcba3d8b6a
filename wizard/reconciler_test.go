package wizard_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/prescription-wizard/notify"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/types"
	"github.com/tidepool-org/prescription-wizard/wizard"
)

var _ = Describe("Reconciler", func() {
	var reconciler *wizard.Reconciler

	pending := prescriptions.Outcome{InProgress: true}
	succeeded := func(id string) prescriptions.Outcome {
		return prescriptions.Outcome{Completed: types.Ptr(true), PrescriptionId: id}
	}
	failed := prescriptions.Outcome{
		Completed:    types.Ptr(false),
		Notification: &prescriptions.Notification{Message: "server error"},
	}

	BeforeEach(func() {
		reconciler = wizard.NewReconciler()
	})

	reconcile := func(input wizard.ReconcileInput) (wizard.Effects, bool) {
		if input.Kind == "" {
			input.Kind = prescriptions.KindCreate
		}
		return reconciler.Reconcile(input)
	}

	It("ignores in progress snapshots", func() {
		_, ok := reconcile(wizard.ReconcileInput{Outcome: pending})
		Expect(ok).To(BeFalse())
	})

	It("ignores completions that were never in progress", func() {
		_, ok := reconcile(wizard.ReconcileInput{Outcome: succeeded("rx1")})
		Expect(ok).To(BeFalse())
	})

	It("applies a completion exactly once", func() {
		_, ok := reconcile(wizard.ReconcileInput{Outcome: pending})
		Expect(ok).To(BeFalse())

		effects, ok := reconcile(wizard.ReconcileInput{Outcome: succeeded("rx1"), NewFlow: true})
		Expect(ok).To(BeTrue())
		Expect(effects.Event).To(Equal(wizard.EventOutcomeSuccess))

		_, ok = reconcile(wizard.ReconcileInput{Outcome: succeeded("rx1"), NewFlow: true})
		Expect(ok).To(BeFalse())
	})

	It("tracks the kinds separately", func() {
		reconcile(wizard.ReconcileInput{Kind: prescriptions.KindRevise, Outcome: pending})
		_, ok := reconcile(wizard.ReconcileInput{Kind: prescriptions.KindCreate, Outcome: succeeded("rx1")})
		Expect(ok).To(BeFalse())
	})

	Context("on success before the last step", func() {
		It("advances", func() {
			reconcile(wizard.ReconcileInput{Kind: prescriptions.KindRevise, Outcome: pending})
			effects, ok := reconcile(wizard.ReconcileInput{Kind: prescriptions.KindRevise, Outcome: succeeded("")})
			Expect(ok).To(BeTrue())
			Expect(effects.Advance).To(BeTrue())
			Expect(effects.Toast).To(BeNil())
			Expect(effects.Navigate).To(BeEmpty())
			Expect(effects.StoreDraft).To(BeFalse())
		})

		It("continues a new draft at its edit url", func() {
			reconcile(wizard.ReconcileInput{Outcome: pending})
			effects, ok := reconcile(wizard.ReconcileInput{Outcome: succeeded("rx1"), NewFlow: true})
			Expect(ok).To(BeTrue())
			Expect(effects.AssignedId).To(Equal("rx1"))
			Expect(effects.StoreDraft).To(BeTrue())
			Expect(effects.Navigate).To(Equal("/prescriptions/rx1"))
			Expect(effects.Advance).To(BeTrue())
		})
	})

	DescribeTable("on success at the last step",
		func(kind prescriptions.Kind, isPrescriber bool, message string) {
			reconcile(wizard.ReconcileInput{Kind: kind, Outcome: pending})
			effects, ok := reconcile(wizard.ReconcileInput{
				Kind:         kind,
				Outcome:      succeeded(""),
				IsLastStep:   true,
				IsPrescriber: isPrescriber,
			})
			Expect(ok).To(BeTrue())
			Expect(effects.Navigate).To(Equal(wizard.PrescriptionsPath))
			Expect(effects.Advance).To(BeFalse())
			Expect(effects.Toast).To(Equal(&notify.Toast{Message: message, Variant: notify.VariantSuccess}))
		},
		Entry("created", prescriptions.KindCreate, false, "You have successfully created a Tidepool Loop prescription."),
		Entry("updated", prescriptions.KindRevise, false, "You have successfully updated a Tidepool Loop prescription."),
		Entry("sent", prescriptions.KindRevise, true, "You have successfully finalized and sent a Tidepool Loop prescription."),
	)

	It("reports failures with the server message and a cooldown", func() {
		reconcile(wizard.ReconcileInput{Outcome: pending})
		effects, ok := reconcile(wizard.ReconcileInput{Outcome: failed})
		Expect(ok).To(BeTrue())
		Expect(effects.Event).To(Equal(wizard.EventOutcomeFailure))
		Expect(effects.Toast).To(Equal(&notify.Toast{Message: "server error", Variant: notify.VariantDanger}))
		Expect(effects.StartCooldown).To(BeTrue())
		Expect(effects.Navigate).To(BeEmpty())
	})
})
