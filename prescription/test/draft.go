package test

import (
	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/types"
	"github.com/tidepool-org/prescription-wizard/units"
)

// CompleteDraft returns a new draft with every wizard field filled in with values within the loop guard rails
func CompleteDraft() prescription.Draft {
	d := prescription.NewDraft(nil)
	d.AccountType = types.Ptr(prescription.AccountTypePatient)
	d.FirstName = types.Ptr("Jane")
	d.LastName = types.Ptr("Doe")
	d.Birthday = types.Ptr("2004-02-03")
	d.Email = types.Ptr("jane@example.com")
	d.EmailConfirm = types.Ptr("jane@example.com")
	d.PhoneNumber.Number = types.Ptr("(555) 555-5555")
	d.Mrn = types.Ptr("12345")
	d.Sex = types.Ptr("female")
	d.Calculator.Method = types.Ptr(prescription.CalculatorMethodWeight)
	d.Calculator.Weight = types.Ptr(70.0)
	d.Calculator.RecommendedBasalRate = types.Ptr(0.7)
	d.Calculator.RecommendedInsulinSensitivity = types.Ptr(50.0)
	d.Calculator.RecommendedCarbohydrateRatio = types.Ptr(10.0)
	d.Training = types.Ptr(prescription.TrainingInPerson)

	s := d.InitialSettings
	s.BloodGlucoseUnits = units.MgdL
	s.PumpId = types.Ptr(devices.PalmtreePumpId)
	s.CgmId = types.Ptr(devices.DexcomG6CGMId)
	s.GlucoseSafetyLimit = types.Ptr(80.0)
	s.InsulinModel = types.Ptr(prescription.InsulinModelRapidAdult)
	s.BasalRateMaximum.Value = types.Ptr(3.5)
	s.BolusAmountMaximum.Value = types.Ptr(10.0)
	s.BloodGlucoseTargetSchedule = []prescription.BloodGlucoseTarget{{Start: 0, Low: types.Ptr(100.0), High: types.Ptr(120.0)}}
	s.BasalRateSchedule = []prescription.BasalRate{{Start: 0, Rate: types.Ptr(0.7)}}
	s.CarbohydrateRatioSchedule = []prescription.CarbRatio{{Start: 0, Amount: types.Ptr(10.0)}}
	s.InsulinSensitivitySchedule = []prescription.InsulinSensitivity{{Start: 0, Amount: types.Ptr(50.0)}}
	s.BloodGlucoseTargetPreprandial = &prescription.BloodGlucoseRange{Low: types.Ptr(80.0), High: types.Ptr(100.0)}
	s.BloodGlucoseTargetPhysicalActivity = &prescription.BloodGlucoseRange{Low: types.Ptr(150.0), High: types.Ptr(170.0)}
	return d
}

// PartialDraft returns a new draft with only the patient account step filled in
func PartialDraft() prescription.Draft {
	d := prescription.NewDraft(nil)
	d.AccountType = types.Ptr(prescription.AccountTypePatient)
	d.FirstName = types.Ptr("Jane")
	d.LastName = types.Ptr("Doe")
	d.Birthday = types.Ptr("2004-02-03")
	d.Email = types.Ptr("jane@example.com")
	d.EmailConfirm = types.Ptr("jane@example.com")
	return d
}
