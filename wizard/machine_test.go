package wizard_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/prescription-wizard/wizard"
)

var _ = Describe("Machine", func() {
	var machine *wizard.Machine

	BeforeEach(func() {
		machine = wizard.NewMachine()
	})

	fire := func(events ...wizard.Event) {
		for _, e := range events {
			_, err := machine.Fire(e)
			Expect(err).ToNot(HaveOccurred())
		}
	}

	It("starts collecting with an initial submission state", func() {
		Expect(machine.State()).To(Equal(wizard.StateCollecting))
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionInitial))
	})

	It("moves to pending when submit is clicked", func() {
		fire(wizard.EventSubmitClicked)
		Expect(machine.State()).To(Equal(wizard.StateSubmitting))
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionPending))
	})

	It("rejects a second submit while pending", func() {
		fire(wizard.EventSubmitClicked)
		state, err := machine.Fire(wizard.EventSubmitClicked)
		Expect(err).To(MatchError(wizard.ErrSubmissionPending))
		Expect(state).To(Equal(wizard.StateSubmitting))
		Expect(machine.Can(wizard.EventSubmitClicked)).To(BeFalse())
	})

	It("keeps the submission pending across step changes", func() {
		fire(wizard.EventSubmitClicked, wizard.EventStepChanged, wizard.EventFieldChanged)
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionPending))
	})

	It("returns to initial after a failure cooldown", func() {
		fire(wizard.EventSubmitClicked, wizard.EventOutcomeFailure)
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionFailed))

		_, err := machine.Fire(wizard.EventSubmitClicked)
		Expect(err).To(MatchError(wizard.ErrCoolingDown))

		fire(wizard.EventCooldownElapsed)
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionInitial))
	})

	It("resets a success on the next step change", func() {
		fire(wizard.EventSubmitClicked, wizard.EventOutcomeSuccess)
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionSucceeded))

		fire(wizard.EventStepChanged)
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionInitial))
	})

	It("allows resubmitting after a success", func() {
		fire(wizard.EventSubmitClicked, wizard.EventOutcomeSuccess, wizard.EventSubmitClicked)
		Expect(machine.SubmissionState()).To(Equal(wizard.SubmissionPending))
	})

	It("rejects outcomes without a pending submission", func() {
		_, err := machine.Fire(wizard.EventOutcomeSuccess)
		Expect(err).To(MatchError(wizard.ErrInvalidTransition))
		Expect(machine.State()).To(Equal(wizard.StateCollecting))
	})
})
