package wizard_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	prescriptiontest "github.com/tidepool-org/prescription-wizard/prescription/test"
	"github.com/tidepool-org/prescription-wizard/steps"
	"github.com/tidepool-org/prescription-wizard/types"
	"github.com/tidepool-org/prescription-wizard/wizard"
)

var _ = Describe("Position", func() {
	DescribeTable("parses url positions",
		func(value string, expected wizard.Position, valid bool) {
			p, err := wizard.ParsePosition(value)
			if !valid {
				Expect(err).To(MatchError(wizard.ErrInvalidPosition))
				return
			}
			Expect(err).ToNot(HaveOccurred())
			Expect(p).To(Equal(expected))
			Expect(p.String()).To(Equal(value))
		},
		Entry("origin", "0,0", wizard.Position{}, true),
		Entry("sub-step", "2,1", wizard.Position{Step: 2, SubStep: 1}, true),
		Entry("missing sub-step", "2", wizard.Position{}, false),
		Entry("not a number", "a,1", wizard.Position{}, false),
		Entry("empty", "", wizard.Position{}, false),
	)

	Describe("Tracker", func() {
		var registry *steps.Registry
		var tracker *wizard.PositionTracker

		BeforeEach(func() {
			registry = steps.New(steps.Adjustments{})
			tracker = wizard.NewPositionTracker(registry, wizard.Position{})
		})

		It("advances through sub-steps and steps", func() {
			Expect(tracker.Advance()).To(BeTrue())
			Expect(tracker.Current()).To(Equal(wizard.Position{Step: 0, SubStep: 1}))
			Expect(tracker.Advance()).To(BeTrue())
			Expect(tracker.Advance()).To(BeTrue())
			Expect(tracker.Current()).To(Equal(wizard.Position{Step: 1, SubStep: 0}))
		})

		It("stops at the end", func() {
			last := wizard.Position{Step: registry.LastStep()}
			Expect(tracker.JumpTo(last, nil, "", prescriptiontest.CompleteDraft())).To(Succeed())
			Expect(tracker.IsLastStep()).To(BeTrue())
			Expect(tracker.Advance()).To(BeFalse())
			Expect(tracker.Current()).To(Equal(last))
		})

		It("rejects positions outside of the registry", func() {
			err := tracker.JumpTo(wizard.Position{Step: 9}, nil, "", prescriptiontest.CompleteDraft())
			Expect(err).To(MatchError(wizard.ErrInvalidPosition))
			Expect(tracker.Current()).To(Equal(wizard.Position{}))
		})

		Context("in single step edit mode", func() {
			var review wizard.Position

			BeforeEach(func() {
				review = wizard.Position{Step: registry.LastStep()}
				Expect(tracker.JumpTo(review, nil, "", prescriptiontest.CompleteDraft())).To(Succeed())

				draft := prescriptiontest.CompleteDraft()
				draft.FirstName = types.Ptr("Before")
				Expect(tracker.JumpTo(wizard.Position{Step: 0, SubStep: 1}, &review, "firstName", draft)).To(Succeed())
			})

			It("keeps the return position and focus", func() {
				Expect(tracker.Editing()).To(BeTrue())
				Expect(tracker.ReturnTo()).ToNot(BeNil())
				Expect(*tracker.ReturnTo()).To(Equal(review))
				Expect(tracker.Focus()).To(Equal("firstName"))
			})

			It("returns without restoring values when completed", func() {
				restored, err := tracker.CompleteEdit(false)
				Expect(err).ToNot(HaveOccurred())
				Expect(restored).To(BeNil())
				Expect(tracker.Current()).To(Equal(review))
				Expect(tracker.Editing()).To(BeFalse())
				Expect(tracker.ReturnTo()).To(BeNil())
			})

			It("restores the values from before the jump when cancelled", func() {
				restored, err := tracker.CompleteEdit(true)
				Expect(err).ToNot(HaveOccurred())
				Expect(restored).ToNot(BeNil())
				Expect(*restored.FirstName).To(Equal("Before"))
				Expect(tracker.Current()).To(Equal(review))
			})

			It("leaves edit mode on a plain jump", func() {
				Expect(tracker.JumpTo(wizard.Position{}, nil, "", prescriptiontest.CompleteDraft())).To(Succeed())
				Expect(tracker.Editing()).To(BeFalse())
				_, err := tracker.CompleteEdit(false)
				Expect(err).To(MatchError(wizard.ErrNotEditing))
			})
		})
	})
})
