package prescription

import (
	"github.com/tidepool-org/prescription-wizard/types"
	"github.com/tidepool-org/prescription-wizard/units"
)

// NewDraft seeds the wizard values from an existing prescription, or with defaults for a new one
func NewDraft(existing *Prescription) Draft {
	d := Draft{}
	if existing != nil {
		if existing.LatestRevision != nil {
			d = existing.LatestRevision.Attributes.Clone()
		}
		d.Id = existing.Id
		if d.TherapySettingsReviewed == nil {
			d.TherapySettingsReviewed = types.Ptr(existing.TherapySettingsReviewed)
		}
	}

	if d.State == "" {
		d.State = StateDraft
	}
	d.EmailConfirm = d.Email
	if d.PhoneNumber == nil {
		d.PhoneNumber = &PhoneNumber{}
	}
	if d.PhoneNumber.CountryCode == 0 {
		d.PhoneNumber.CountryCode = DefaultCountryCode
	}
	if d.Calculator == nil {
		d.Calculator = &Calculator{}
	}
	if d.Calculator.WeightUnits == nil {
		d.Calculator.WeightUnits = types.Ptr(units.Kilograms)
	}
	if d.Calculator.TotalDailyDoseScaleFactor == nil {
		d.Calculator.TotalDailyDoseScaleFactor = types.Ptr(1.0)
	}
	if d.InitialSettings == nil {
		d.InitialSettings = &InitialSettings{}
	}
	applyInitialSettingsDefaults(d.InitialSettings)
	if d.TherapySettings == nil {
		d.TherapySettings = types.Ptr(TherapySettingsInitial)
	}
	if d.TherapySettingsReviewed == nil {
		d.TherapySettingsReviewed = types.Ptr(false)
	}

	return d
}

func applyInitialSettingsDefaults(s *InitialSettings) {
	if s.BloodGlucoseUnits == "" {
		s.BloodGlucoseUnits = units.MgdL
	}
	if s.BasalRateMaximum == nil {
		s.BasalRateMaximum = &Quantity{}
	}
	s.BasalRateMaximum.Units = units.BasalRate
	if s.BolusAmountMaximum == nil {
		s.BolusAmountMaximum = &Quantity{}
	}
	s.BolusAmountMaximum.Units = units.BolusAmount
	if len(s.BloodGlucoseTargetSchedule) == 0 {
		s.BloodGlucoseTargetSchedule = []BloodGlucoseTarget{{Start: 0}}
	}
	if len(s.BasalRateSchedule) == 0 {
		s.BasalRateSchedule = []BasalRate{{Start: 0}}
	}
	if len(s.CarbohydrateRatioSchedule) == 0 {
		s.CarbohydrateRatioSchedule = []CarbRatio{{Start: 0}}
	}
	if len(s.InsulinSensitivitySchedule) == 0 {
		s.InsulinSensitivitySchedule = []InsulinSensitivity{{Start: 0}}
	}
}

// ApplyDefaultDevices preselects the only available pump and cgm, keeping any existing selection
func (d *Draft) ApplyDefaultDevices(pumpId, cgmId string) {
	if d.InitialSettings == nil {
		d.InitialSettings = &InitialSettings{}
	}
	if types.IsZero(d.InitialSettings.CgmId) {
		d.InitialSettings.CgmId = types.Ptr(cgmId)
	}
	if types.IsZero(d.InitialSettings.PumpId) {
		d.InitialSettings.PumpId = types.Ptr(pumpId)
	}
}

func (d *Draft) ClearCalculatorInputs() {
	if d.Calculator == nil {
		d.Calculator = &Calculator{}
	}
	d.Calculator.TotalDailyDose = nil
	d.Calculator.TotalDailyDoseScaleFactor = types.Ptr(1.0)
	d.Calculator.Weight = nil
	d.Calculator.WeightUnits = types.Ptr(units.Kilograms)
}

func (d *Draft) ClearCalculatorResults() {
	if d.Calculator == nil {
		d.Calculator = &Calculator{}
	}
	d.Calculator.RecommendedBasalRate = nil
	d.Calculator.RecommendedInsulinSensitivity = nil
	d.Calculator.RecommendedCarbohydrateRatio = nil
}

func (d *Draft) ClearCalculator() {
	if d.Calculator == nil {
		d.Calculator = &Calculator{}
	}
	d.Calculator.Method = nil
	d.ClearCalculatorInputs()
	d.ClearCalculatorResults()
}
