package wizard_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/prescription-wizard/prescription"
	prescriptiontest "github.com/tidepool-org/prescription-wizard/prescription/test"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/steps"
	"github.com/tidepool-org/prescription-wizard/types"
	"github.com/tidepool-org/prescription-wizard/wizard"
)

var _ = Describe("BuildSubmission", func() {
	var registry *steps.Registry
	var draft prescription.Draft

	calculator := wizard.Position{Step: 2, SubStep: 0}

	BeforeEach(func() {
		registry = steps.New(steps.Adjustments{})
		draft = prescriptiontest.CompleteDraft()
	})

	build := func(p wizard.Position, isPrescriber bool) wizard.Submission {
		submission, err := wizard.BuildSubmission(wizard.SubmissionInput{
			Draft:        draft,
			Position:     p,
			Registry:     registry,
			UserId:       "user1",
			IsPrescriber: isPrescriber,
		})
		Expect(err).ToNot(HaveOccurred())
		return submission
	}

	initialSettings := func(s wizard.Submission) map[string]interface{} {
		settings, ok := s.Attributes["initialSettings"].(map[string]interface{})
		Expect(ok).To(BeTrue())
		return settings
	}

	It("strips the transient fields", func() {
		s := build(calculator, false)
		Expect(s.Attributes).ToNot(HaveKey("emailConfirm"))
		Expect(s.Attributes).ToNot(HaveKey("id"))
		Expect(s.Attributes).ToNot(HaveKey("therapySettingsReviewed"))
	})

	It("stamps the submitting user", func() {
		s := build(calculator, false)
		Expect(s.Attributes).To(HaveKeyWithValue("createdUserId", "user1"))
		Expect(s.Attributes).To(HaveKeyWithValue("prescriberTermsAccepted", false))
	})

	It("omits start-only schedules of later steps", func() {
		draft.InitialSettings.BasalRateSchedule = []prescription.BasalRate{{Start: 0}}
		s := build(calculator, false)
		Expect(initialSettings(s)).ToNot(HaveKey("basalRateSchedule"))
	})

	It("keeps entered schedules of later steps", func() {
		draft.InitialSettings.BasalRateSchedule = []prescription.BasalRate{{Start: 0, Rate: types.Ptr(1.2)}}
		s := build(calculator, false)
		Expect(initialSettings(s)).To(HaveKey("basalRateSchedule"))
	})

	It("omits the containers of empty later values", func() {
		draft.InitialSettings.BasalRateMaximum.Value = nil
		draft.Training = nil
		s := build(calculator, false)
		Expect(initialSettings(s)).ToNot(HaveKey("basalRateMaximum"))
		Expect(initialSettings(s)).To(HaveKey("bolusAmountMaximum"))
	})

	It("keeps empty values of earlier steps", func() {
		draft.Mrn = types.Ptr("")
		s := build(calculator, false)
		Expect(s.Attributes).To(HaveKeyWithValue("mrn", ""))
	})

	It("doesn't prune on the last step", func() {
		draft.InitialSettings.BasalRateSchedule = []prescription.BasalRate{{Start: 0}}
		s := build(wizard.Position{Step: registry.LastStep()}, false)
		Expect(initialSettings(s)).To(HaveKey("basalRateSchedule"))
	})

	DescribeTable("sets the final state on the last step",
		func(isPrescriber bool, reviewed bool, state prescription.State, accepted bool) {
			draft.TherapySettingsReviewed = types.Ptr(reviewed)
			s := build(wizard.Position{Step: registry.LastStep()}, isPrescriber)
			Expect(s.State).To(Equal(state))
			Expect(s.Attributes).To(HaveKeyWithValue("state", string(state)))
			Expect(s.Attributes).To(HaveKeyWithValue("prescriberTermsAccepted", accepted))
		},
		Entry("clinician", false, true, prescription.StatePending, false),
		Entry("prescriber", true, true, prescription.StateSubmitted, true),
		Entry("prescriber without review", true, false, prescription.StateSubmitted, false),
	)

	It("keeps the draft state before the last step", func() {
		s := build(calculator, true)
		Expect(s.State).To(Equal(prescription.StateDraft))
	})

	It("selects the kind by the draft identifier", func() {
		Expect(build(calculator, false).Kind).To(Equal(prescriptions.KindCreate))

		draft.Id = "rx1"
		s := build(calculator, false)
		Expect(s.Kind).To(Equal(prescriptions.KindRevise))
		Expect(s.PrescriptionId).To(Equal("rx1"))
	})

	It("fingerprints the payload without the submitting user", func() {
		s := build(calculator, false)
		Expect(s.Attributes).To(HaveKeyWithValue("revisionHash", s.RevisionHash))

		expected, err := prescription.RevisionHash(s.Attributes.Omit(prescription.FieldRevisionHash))
		Expect(err).ToNot(HaveOccurred())
		Expect(s.RevisionHash).To(Equal(expected))
		Expect(s.RevisionHash).To(HaveLen(128))
	})

	It("produces the same fingerprint for another user", func() {
		first := build(calculator, false)
		second, err := wizard.BuildSubmission(wizard.SubmissionInput{
			Draft:    draft,
			Position: calculator,
			Registry: registry,
			UserId:   "user2",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(second.RevisionHash).To(Equal(first.RevisionHash))
	})

	It("changes the fingerprint when a value changes", func() {
		first := build(calculator, false)
		draft.FirstName = types.Ptr("Janet")
		Expect(build(calculator, false).RevisionHash).ToNot(Equal(first.RevisionHash))
	})
})
