package steps_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	devicestest "github.com/tidepool-org/prescription-wizard/devices/test"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/steps"
)

func expectAligned(registry *steps.Registry) {
	all := registry.Steps()
	fields := registry.ValidationFields()
	Expect(fields).To(HaveLen(len(all)))
	for i, step := range all {
		Expect(fields[i]).To(HaveLen(len(step.SubSteps)))
		for j, sub := range step.SubSteps {
			Expect(fields[i][j]).To(Equal(sub.Fields))
		}
	}
}

func must(p steps.Position, ok bool) steps.Position {
	ExpectWithOffset(1, ok).To(BeTrue())
	return p
}

func stepIds(registry *steps.Registry) []steps.StepID {
	var ids []steps.StepID
	for _, step := range registry.Steps() {
		ids = append(ids, step.ID)
	}
	return ids
}

var _ = Describe("Registry", func() {
	Context("without adjustments", func() {
		var registry *steps.Registry

		BeforeEach(func() {
			registry = steps.New(steps.Adjustments{})
		})

		It("has every step in order", func() {
			Expect(stepIds(registry)).To(Equal([]steps.StepID{
				steps.PatientAccount, steps.PatientProfile, steps.Calculator, steps.TherapySettings, steps.Review,
			}))
			Expect(registry.LastStep()).To(Equal(4))
			expectAligned(registry)
		})

		It("maps fields to their owning sub-step", func() {
			Expect(must(registry.OwnerOf(prescription.FieldEmail))).To(Equal(steps.Position{Step: 0, SubStep: 2}))
			Expect(must(registry.OwnerOf(prescription.FieldPhoneNumber))).To(Equal(steps.Position{Step: 1, SubStep: 0}))
			Expect(must(registry.OwnerOf(prescription.FieldPumpId))).To(Equal(steps.Position{Step: 1, SubStep: 3}))
			Expect(must(registry.OwnerOf(prescription.FieldBasalRateSchedule))).To(Equal(steps.Position{Step: 3, SubStep: 0}))
		})

		It("reports unknown fields", func() {
			_, ok := registry.OwnerOf("unknown")
			Expect(ok).To(BeFalse())
		})

		It("walks positions in order", func() {
			next, ok := registry.Next(steps.Position{Step: 0, SubStep: 2})
			Expect(ok).To(BeTrue())
			Expect(next).To(Equal(steps.Position{Step: 1, SubStep: 0}))

			_, ok = registry.Next(steps.Position{Step: 4, SubStep: 0})
			Expect(ok).To(BeFalse())
		})

		It("lists the fields of later steps", func() {
			fields := registry.FieldsAfter(2)
			Expect(fields).To(ContainElement(prescription.FieldBasalRateSchedule))
			Expect(fields).To(ContainElement(prescription.FieldTherapySettingsReviewed))
			Expect(fields).ToNot(ContainElement(prescription.FieldCalculatorMethod))
		})

		It("returns copies", func() {
			all := registry.Steps()
			all[0].SubSteps[0].ID = "changed"
			Expect(registry.Steps()[0].SubSteps[0].ID).To(Equal(steps.AccountType))
		})
	})

	Context("when device selection is skipped", func() {
		var registry *steps.Registry

		BeforeEach(func() {
			registry = steps.New(steps.AdjustmentsFor(devicestest.SingleDeviceCatalogue(), ""))
		})

		It("removes the sub-step from both views at matching indices", func() {
			profile, ok := registry.Step(1)
			Expect(ok).To(BeTrue())
			Expect(profile.SubSteps).To(HaveLen(3))
			for _, sub := range profile.SubSteps {
				Expect(sub.ID).ToNot(Equal(steps.DeviceSelection))
			}
			Expect(registry.ValidationFields()[1]).To(Equal([][]prescription.FieldPath{
				{prescription.FieldPhoneNumber},
				{prescription.FieldMrn},
				{prescription.FieldSex},
			}))
			expectAligned(registry)
		})

		It("no longer owns the device fields", func() {
			_, ok := registry.OwnerOf(prescription.FieldPumpId)
			Expect(ok).To(BeFalse())
			_, ok = registry.PositionOf(steps.PatientProfile, steps.DeviceSelection)
			Expect(ok).To(BeFalse())
		})
	})

	Context("when the calculator is skipped", func() {
		var registry *steps.Registry

		BeforeEach(func() {
			catalogue := devicestest.MultiDeviceCatalogue()
			catalogue.Pumps[0].SkipCalculator = true
			registry = steps.New(steps.AdjustmentsFor(catalogue, catalogue.Pumps[0].Id))
		})

		It("removes the whole step", func() {
			Expect(stepIds(registry)).To(Equal([]steps.StepID{
				steps.PatientAccount, steps.PatientProfile, steps.TherapySettings, steps.Review,
			}))
			expectAligned(registry)
		})

		It("shifts the owner of later fields", func() {
			Expect(must(registry.OwnerOf(prescription.FieldBasalRateSchedule))).To(Equal(steps.Position{Step: 2, SubStep: 0}))
			Expect(must(registry.PositionOf(steps.Review, steps.SettingsReview))).To(Equal(steps.Position{Step: 3, SubStep: 0}))
		})
	})

	It("encodes positions", func() {
		Expect(steps.Position{Step: 2, SubStep: 1}.String()).To(Equal("2,1"))
		Expect(steps.Position{Step: 1, SubStep: 3}.Before(steps.Position{Step: 2})).To(BeTrue())
		Expect(steps.Position{Step: 2}.Before(steps.Position{Step: 2})).To(BeFalse())
	})
})
