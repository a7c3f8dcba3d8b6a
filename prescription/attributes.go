package prescription

import (
	"regexp"
	"strings"
)

// FieldPath addresses a value within the attributes of a draft using dot notation
type FieldPath string

const (
	FieldId                      FieldPath = "id"
	FieldState                   FieldPath = "state"
	FieldAccountType             FieldPath = "accountType"
	FieldFirstName               FieldPath = "firstName"
	FieldLastName                FieldPath = "lastName"
	FieldCaregiverFirstName      FieldPath = "caregiverFirstName"
	FieldCaregiverLastName       FieldPath = "caregiverLastName"
	FieldBirthday                FieldPath = "birthday"
	FieldEmail                   FieldPath = "email"
	FieldEmailConfirm            FieldPath = "emailConfirm"
	FieldPhoneNumber             FieldPath = "phoneNumber.number"
	FieldMrn                     FieldPath = "mrn"
	FieldSex                     FieldPath = "sex"
	FieldPumpId                  FieldPath = "initialSettings.pumpId"
	FieldCgmId                   FieldPath = "initialSettings.cgmId"
	FieldCalculatorMethod        FieldPath = "calculator.method"
	FieldCalculatorWeight        FieldPath = "calculator.weight"
	FieldCalculatorWeightUnits   FieldPath = "calculator.weightUnits"
	FieldCalculatorTotalDaily    FieldPath = "calculator.totalDailyDose"
	FieldCalculatorScaleFactor   FieldPath = "calculator.totalDailyDoseScaleFactor"
	FieldRecommendedBasalRate    FieldPath = "calculator.recommendedBasalRate"
	FieldRecommendedSensitivity  FieldPath = "calculator.recommendedInsulinSensitivity"
	FieldRecommendedCarbRatio    FieldPath = "calculator.recommendedCarbohydrateRatio"
	FieldTraining                FieldPath = "training"
	FieldGlucoseSafetyLimit      FieldPath = "initialSettings.glucoseSafetyLimit"
	FieldInsulinModel            FieldPath = "initialSettings.insulinModel"
	FieldBasalRateMaximum        FieldPath = "initialSettings.basalRateMaximum.value"
	FieldBolusAmountMaximum      FieldPath = "initialSettings.bolusAmountMaximum.value"
	FieldTargetSchedule          FieldPath = "initialSettings.bloodGlucoseTargetSchedule"
	FieldTargetPhysicalActivity  FieldPath = "initialSettings.bloodGlucoseTargetPhysicalActivity"
	FieldTargetPreprandial       FieldPath = "initialSettings.bloodGlucoseTargetPreprandial"
	FieldBasalRateSchedule       FieldPath = "initialSettings.basalRateSchedule"
	FieldCarbRatioSchedule       FieldPath = "initialSettings.carbohydrateRatioSchedule"
	FieldSensitivitySchedule     FieldPath = "initialSettings.insulinSensitivitySchedule"
	FieldTherapySettingsReviewed FieldPath = "therapySettingsReviewed"

	FieldCreatedUserId           FieldPath = "createdUserId"
	FieldPrescriberTermsAccepted FieldPath = "prescriberTermsAccepted"
	FieldRevisionHash            FieldPath = "revisionHash"
)

// ScheduleFields are seeded with a single start-only entry, which counts as empty
var ScheduleFields = []FieldPath{
	FieldTargetSchedule,
	FieldBasalRateSchedule,
	FieldCarbRatioSchedule,
	FieldSensitivitySchedule,
}

// TransientFields are never sent to the prescription service
var TransientFields = []FieldPath{
	FieldEmailConfirm,
	FieldId,
	FieldTherapySettingsReviewed,
}

var leafSuffix = regexp.MustCompile(`\.(value|number)$`)

func (f FieldPath) IsSchedule() bool {
	for _, s := range ScheduleFields {
		if s == f {
			return true
		}
	}
	return false
}

// Container returns the path of the object that should be dropped when the field is empty.
// Paths ending in '.value' or '.number' point into an object that has no meaning without them.
func (f FieldPath) Container() FieldPath {
	return FieldPath(leafSuffix.ReplaceAllString(string(f), ""))
}

func (f FieldPath) segments() []string {
	return strings.Split(string(f), ".")
}

// Attributes is the JSON object form of a draft or of a submission payload
type Attributes map[string]interface{}

// Get returns the value at the path and whether it was present
func (a Attributes) Get(path FieldPath) (interface{}, bool) {
	var current interface{} = map[string]interface{}(a)
	for _, segment := range path.segments() {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Delete removes the value at the path, if present
func (a Attributes) Delete(path FieldPath) {
	segments := path.segments()
	current := map[string]interface{}(a)
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]interface{})
		if !ok {
			return
		}
		current = next
	}
	delete(current, segments[len(segments)-1])
}

// Set assigns a top level attribute
func (a Attributes) Set(path FieldPath, value interface{}) {
	a[string(path)] = value
}

// Omit returns a shallow copy without the passed top level or nested paths
func (a Attributes) Omit(paths ...FieldPath) Attributes {
	result := a.Clone()
	for _, p := range paths {
		result.Delete(p)
	}
	return result
}

// Clone returns a deep copy of the attributes
func (a Attributes) Clone() Attributes {
	return cloneValue(map[string]interface{}(a)).(map[string]interface{})
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = cloneValue(item)
		}
		return m
	case Attributes:
		return cloneValue(map[string]interface{}(val))
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = cloneValue(item)
		}
		return s
	default:
		return val
	}
}

// IsEmptyValue reports whether the value at the path was never filled in.
// Scalars are empty when absent, nil or an empty string or collection. Schedules are empty
// when they hold exactly one entry with nothing but its start time.
func IsEmptyValue(path FieldPath, value interface{}) bool {
	if path.IsSchedule() {
		if entries, ok := value.([]interface{}); ok && len(entries) == 1 {
			entry, ok := entries[0].(map[string]interface{})
			if !ok {
				return false
			}
			_, hasStart := entry["start"]
			return len(entry) == 1 && hasStart
		}
	}
	return isEmpty(value)
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	default:
		return false
	}
}
