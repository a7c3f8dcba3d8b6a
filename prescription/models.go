package prescription

import (
	"encoding/json"
	"fmt"
)

type State string

const (
	StateDraft     State = "draft"
	StatePending   State = "pending"
	StateSubmitted State = "submitted"
)

// IsEditable returns true for prescriptions that may still be changed through the wizard
func (s State) IsEditable() bool {
	return s == "" || s == StateDraft || s == StatePending
}

const (
	AccountTypePatient   = "patient"
	AccountTypeCaregiver = "caregiver"

	CalculatorMethodWeight                  = "weight"
	CalculatorMethodTotalDailyDose          = "totalDailyDose"
	CalculatorMethodTotalDailyDoseAndWeight = "totalDailyDoseAndWeight"

	TrainingInPerson = "inPerson"
	TrainingInModule = "inModule"

	InsulinModelRapidAdult = "rapidAdult"
	InsulinModelRapidChild = "rapidChild"

	TherapySettingsInitial = "initial"

	DefaultCountryCode = 1
)

// Draft is the working document edited through the wizard.
// Optional scalars are pointers so that "never entered" is distinguishable from zero values.
type Draft struct {
	Id                      string           `json:"id,omitempty"`
	State                   State            `json:"state,omitempty"`
	AccountType             *string          `json:"accountType,omitempty"`
	FirstName               *string          `json:"firstName,omitempty"`
	LastName                *string          `json:"lastName,omitempty"`
	CaregiverFirstName      *string          `json:"caregiverFirstName,omitempty"`
	CaregiverLastName       *string          `json:"caregiverLastName,omitempty"`
	Birthday                *string          `json:"birthday,omitempty"`
	Email                   *string          `json:"email,omitempty"`
	EmailConfirm            *string          `json:"emailConfirm,omitempty"`
	PhoneNumber             *PhoneNumber     `json:"phoneNumber,omitempty"`
	Mrn                     *string          `json:"mrn,omitempty"`
	Sex                     *string          `json:"sex,omitempty"`
	Calculator              *Calculator      `json:"calculator,omitempty"`
	InitialSettings         *InitialSettings `json:"initialSettings,omitempty"`
	Training                *string          `json:"training,omitempty"`
	TherapySettings         *string          `json:"therapySettings,omitempty"`
	TherapySettingsReviewed *bool            `json:"therapySettingsReviewed,omitempty"`
}

type PhoneNumber struct {
	CountryCode int     `json:"countryCode,omitempty"`
	Number      *string `json:"number,omitempty"`
}

type Calculator struct {
	Method                        *string  `json:"method,omitempty"`
	Weight                        *float64 `json:"weight,omitempty"`
	WeightUnits                   *string  `json:"weightUnits,omitempty"`
	TotalDailyDose                *float64 `json:"totalDailyDose,omitempty"`
	TotalDailyDoseScaleFactor     *float64 `json:"totalDailyDoseScaleFactor,omitempty"`
	RecommendedBasalRate          *float64 `json:"recommendedBasalRate,omitempty"`
	RecommendedInsulinSensitivity *float64 `json:"recommendedInsulinSensitivity,omitempty"`
	RecommendedCarbohydrateRatio  *float64 `json:"recommendedCarbohydrateRatio,omitempty"`
}

type InitialSettings struct {
	BloodGlucoseUnits                  string               `json:"bloodGlucoseUnits,omitempty"`
	PumpId                             *string              `json:"pumpId,omitempty"`
	CgmId                              *string              `json:"cgmId,omitempty"`
	InsulinModel                       *string              `json:"insulinModel,omitempty"`
	GlucoseSafetyLimit                 *float64             `json:"glucoseSafetyLimit,omitempty"`
	BasalRateMaximum                   *Quantity            `json:"basalRateMaximum,omitempty"`
	BolusAmountMaximum                 *Quantity            `json:"bolusAmountMaximum,omitempty"`
	BloodGlucoseTargetSchedule         []BloodGlucoseTarget `json:"bloodGlucoseTargetSchedule,omitempty"`
	BloodGlucoseTargetPhysicalActivity *BloodGlucoseRange   `json:"bloodGlucoseTargetPhysicalActivity,omitempty"`
	BloodGlucoseTargetPreprandial      *BloodGlucoseRange   `json:"bloodGlucoseTargetPreprandial,omitempty"`
	BasalRateSchedule                  []BasalRate          `json:"basalRateSchedule,omitempty"`
	CarbohydrateRatioSchedule          []CarbRatio          `json:"carbohydrateRatioSchedule,omitempty"`
	InsulinSensitivitySchedule         []InsulinSensitivity `json:"insulinSensitivitySchedule,omitempty"`
}

type Quantity struct {
	Value *float64 `json:"value,omitempty"`
	Units string   `json:"units,omitempty"`
}

type BloodGlucoseRange struct {
	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
}

// Schedule entries always carry a start offset in milliseconds since midnight

type BloodGlucoseTarget struct {
	Start int      `json:"start"`
	Low   *float64 `json:"low,omitempty"`
	High  *float64 `json:"high,omitempty"`
}

type BasalRate struct {
	Start int      `json:"start"`
	Rate  *float64 `json:"rate,omitempty"`
}

type CarbRatio struct {
	Start  int      `json:"start"`
	Amount *float64 `json:"amount,omitempty"`
}

type InsulinSensitivity struct {
	Start  int      `json:"start"`
	Amount *float64 `json:"amount,omitempty"`
}

// Prescription is the server side record a draft is revised against
type Prescription struct {
	Id                      string    `json:"id"`
	State                   State     `json:"state"`
	TherapySettingsReviewed bool      `json:"therapySettingsReviewed,omitempty"`
	LatestRevision          *Revision `json:"latestRevision,omitempty"`
}

type Revision struct {
	RevisionId int   `json:"revisionId"`
	Attributes Draft `json:"attributes"`
}

// Attributes returns the JSON object form of the draft, which is what the prescription service stores
func (d Draft) Attributes() (Attributes, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal draft: %w", err)
	}
	attrs := Attributes{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("unable to unmarshal draft attributes: %w", err)
	}
	return attrs, nil
}

// DraftFromAttributes decodes a JSON object back into a draft
func DraftFromAttributes(attrs Attributes) (Draft, error) {
	d := Draft{}
	data, err := json.Marshal(attrs)
	if err != nil {
		return d, err
	}
	err = json.Unmarshal(data, &d)
	return d, err
}

// Clone returns a deep copy of the draft
func (d Draft) Clone() Draft {
	attrs, err := d.Attributes()
	if err != nil {
		return d
	}
	clone, err := DraftFromAttributes(attrs)
	if err != nil {
		return d
	}
	return clone
}

// Hydrate overlays stored values on top of the draft.
// Top level keys present in the stored values replace the draft values wholesale.
func (d Draft) Hydrate(stored Draft) (Draft, error) {
	base, err := d.Attributes()
	if err != nil {
		return d, err
	}
	overlay, err := stored.Attributes()
	if err != nil {
		return d, err
	}
	for key, value := range overlay {
		base[key] = value
	}
	return DraftFromAttributes(base)
}

func (d Draft) PumpId() string {
	if d.InitialSettings == nil || d.InitialSettings.PumpId == nil {
		return ""
	}
	return *d.InitialSettings.PumpId
}

func (d Draft) BloodGlucoseUnits() string {
	if d.InitialSettings == nil {
		return ""
	}
	return d.InitialSettings.BloodGlucoseUnits
}

func (d Draft) IsReviewed() bool {
	return d.TherapySettingsReviewed != nil && *d.TherapySettingsReviewed
}

// FullName joins the patient names the way the wizard title shows them
func (d Draft) FullName() string {
	first, last := "", ""
	if d.FirstName != nil {
		first = *d.FirstName
	}
	if d.LastName != nil {
		last = *d.LastName
	}
	return first + " " + last
}
