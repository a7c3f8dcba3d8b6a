package steps

import (
	"fmt"

	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/prescription"
)

type StepID string
type SubStepID string

const (
	PatientAccount  StepID = "patientAccount"
	PatientProfile  StepID = "patientProfile"
	Calculator      StepID = "calculator"
	TherapySettings StepID = "therapySettings"
	Review          StepID = "review"

	AccountType       SubStepID = "accountType"
	PatientDetails    SubStepID = "patientDetails"
	PatientEmail      SubStepID = "patientEmail"
	PhoneNumber       SubStepID = "phoneNumber"
	Mrn               SubStepID = "mrn"
	Sex               SubStepID = "sex"
	DeviceSelection   SubStepID = "deviceSelection"
	CalculatorMethod  SubStepID = "calculatorMethod"
	CalculatorInputs  SubStepID = "calculatorInputs"
	CalculatorResults SubStepID = "calculatorResults"
	SettingsEntry     SubStepID = "therapySettings"
	SettingsReview    SubStepID = "review"
)

// Position is a coordinate within the wizard steps
type Position struct {
	Step    int `json:"step"`
	SubStep int `json:"subStep"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.Step, p.SubStep)
}

// Before reports whether the position comes earlier in the wizard order
func (p Position) Before(other Position) bool {
	return p.Step < other.Step || (p.Step == other.Step && p.SubStep < other.SubStep)
}

// Adjustments are decided once from the device catalogue before a wizard session starts
type Adjustments struct {
	SkipDeviceSelection bool
	SkipCalculator      bool
}

func AdjustmentsFor(catalogue devices.Catalogue, pumpId string) Adjustments {
	return Adjustments{
		SkipDeviceSelection: catalogue.SkipDeviceSelection(),
		SkipCalculator:      catalogue.SkipCalculator(pumpId),
	}
}

type Step struct {
	ID       StepID    `json:"id"`
	Label    string    `json:"label"`
	SubSteps []SubStep `json:"subSteps"`
}

type SubStep struct {
	ID     SubStepID                `json:"id"`
	Fields []prescription.FieldPath `json:"fields"`
}

// Fields returns the field paths owned by every sub-step of the step
func (s Step) Fields() []prescription.FieldPath {
	var fields []prescription.FieldPath
	for _, sub := range s.SubSteps {
		fields = append(fields, sub.Fields...)
	}
	return fields
}

type skipFunc func(Adjustments) bool

func never(Adjustments) bool { return false }

func skipDeviceSelection(a Adjustments) bool { return a.SkipDeviceSelection }

func skipCalculator(a Adjustments) bool { return a.SkipCalculator }

type subStepDefinition struct {
	SubStep
	skipIf skipFunc
}

type stepDefinition struct {
	id       StepID
	label    string
	subSteps []subStepDefinition
	skipIf   skipFunc
}

var definitions = []stepDefinition{
	{
		id:    PatientAccount,
		label: "Create Patient Account",
		subSteps: []subStepDefinition{
			{SubStep{AccountType, []prescription.FieldPath{prescription.FieldAccountType}}, never},
			{SubStep{PatientDetails, []prescription.FieldPath{
				prescription.FieldFirstName,
				prescription.FieldLastName,
				prescription.FieldCaregiverFirstName,
				prescription.FieldCaregiverLastName,
				prescription.FieldBirthday,
			}}, never},
			{SubStep{PatientEmail, []prescription.FieldPath{prescription.FieldEmail, prescription.FieldEmailConfirm}}, never},
		},
		skipIf: never,
	},
	{
		id:    PatientProfile,
		label: "Complete Patient Profile",
		subSteps: []subStepDefinition{
			{SubStep{PhoneNumber, []prescription.FieldPath{prescription.FieldPhoneNumber}}, never},
			{SubStep{Mrn, []prescription.FieldPath{prescription.FieldMrn}}, never},
			{SubStep{Sex, []prescription.FieldPath{prescription.FieldSex}}, never},
			{SubStep{DeviceSelection, []prescription.FieldPath{prescription.FieldPumpId, prescription.FieldCgmId}}, skipDeviceSelection},
		},
		skipIf: never,
	},
	{
		id:    Calculator,
		label: "Therapy Settings Calculator",
		subSteps: []subStepDefinition{
			{SubStep{CalculatorMethod, []prescription.FieldPath{prescription.FieldCalculatorMethod}}, never},
			{SubStep{CalculatorInputs, []prescription.FieldPath{
				prescription.FieldCalculatorTotalDaily,
				prescription.FieldCalculatorScaleFactor,
				prescription.FieldCalculatorWeight,
				prescription.FieldCalculatorWeightUnits,
			}}, never},
			{SubStep{CalculatorResults, []prescription.FieldPath{
				prescription.FieldRecommendedBasalRate,
				prescription.FieldRecommendedSensitivity,
				prescription.FieldRecommendedCarbRatio,
			}}, never},
		},
		skipIf: skipCalculator,
	},
	{
		id:    TherapySettings,
		label: "Enter Therapy Settings",
		subSteps: []subStepDefinition{
			{SubStep{SettingsEntry, []prescription.FieldPath{
				prescription.FieldTraining,
				prescription.FieldGlucoseSafetyLimit,
				prescription.FieldInsulinModel,
				prescription.FieldBasalRateMaximum,
				prescription.FieldBolusAmountMaximum,
				prescription.FieldTargetSchedule,
				prescription.FieldTargetPreprandial,
				prescription.FieldTargetPhysicalActivity,
				prescription.FieldBasalRateSchedule,
				prescription.FieldCarbRatioSchedule,
				prescription.FieldSensitivitySchedule,
			}}, never},
		},
		skipIf: never,
	},
	{
		id:    Review,
		label: "Review and Send Prescription",
		subSteps: []subStepDefinition{
			{SubStep{SettingsReview, []prescription.FieldPath{prescription.FieldTherapySettingsReviewed}}, never},
		},
		skipIf: never,
	},
}
