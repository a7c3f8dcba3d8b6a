package schema

import (
	"math"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/units"
)

// Schema holds the validation rules of every wizard field path.
// Bounds depend on the selected pump, the glucose units and previously entered values,
// so a schema must be rebuilt whenever the draft changes.
type Schema struct {
	rules map[prescription.FieldPath][]validation.Rule
	pump  *devices.Pump
}

// Build returns the schema for the draft values using the guard rails of the selected pump
func Build(catalogue devices.Catalogue, pumpId string, bgUnits string, draft prescription.Draft) *Schema {
	return build(catalogue, pumpId, bgUnits, draft, time.Now())
}

func build(catalogue devices.Catalogue, pumpId string, bgUnits string, draft prescription.Draft, now time.Time) *Schema {
	if !units.IsValidBgUnits(bgUnits) {
		bgUnits = units.MgdL
	}

	pump := catalogue.Pump(pumpId)
	if pump == nil {
		if eligible := catalogue.EligiblePumps(); len(eligible) > 0 {
			pump = &eligible[0]
		}
	}
	rails := devices.GuardRails{}
	if pump != nil {
		rails = pump.GuardRails
	}

	s := &Schema{
		rules: map[prescription.FieldPath][]validation.Rule{},
		pump:  pump,
	}
	s.accountRules(draft, now)
	s.profileRules(catalogue)
	s.calculatorRules(draft)
	s.therapySettingsRules(draft, rails, bgUnits)
	s.rules[prescription.FieldTherapySettingsReviewed] = []validation.Rule{confirmed}
	return s
}

// Pump returns the pump whose guard rails the schema enforces, if any
func (s *Schema) Pump() *devices.Pump {
	return s.pump
}

// ValidatePath validates the value at the path. Paths without rules are always valid.
func (s *Schema) ValidatePath(attrs prescription.Attributes, path prescription.FieldPath) error {
	rules, ok := s.rules[path]
	if !ok {
		return nil
	}
	value, _ := attrs.Get(path)
	return validation.Validate(value, rules...)
}

// Validate returns the field level errors of the paths, keyed by path
func (s *Schema) Validate(attrs prescription.Attributes, paths []prescription.FieldPath) validation.Errors {
	errs := validation.Errors{}
	for _, path := range paths {
		if err := s.ValidatePath(attrs, path); err != nil {
			errs[string(path)] = err
		}
	}
	return errs
}

// FieldsAreValid reports whether every path validates against the current values
func (s *Schema) FieldsAreValid(paths []prescription.FieldPath, attrs prescription.Attributes) bool {
	for _, path := range paths {
		if s.ValidatePath(attrs, path) != nil {
			return false
		}
	}
	return true
}

func (s *Schema) accountRules(draft prescription.Draft, now time.Time) {
	caregiver := draft.AccountType != nil && *draft.AccountType == prescription.AccountTypeCaregiver

	s.rules[prescription.FieldAccountType] = []validation.Rule{
		validation.Required,
		validation.In(prescription.AccountTypePatient, prescription.AccountTypeCaregiver),
	}
	s.rules[prescription.FieldFirstName] = []validation.Rule{validation.Required, validation.Length(1, 256)}
	s.rules[prescription.FieldLastName] = []validation.Rule{validation.Required, validation.Length(1, 256)}
	s.rules[prescription.FieldCaregiverFirstName] = []validation.Rule{validation.When(caregiver, validation.Required)}
	s.rules[prescription.FieldCaregiverLastName] = []validation.Rule{validation.When(caregiver, validation.Required)}
	s.rules[prescription.FieldBirthday] = []validation.Rule{validation.Required, pastDate(now)}
	s.rules[prescription.FieldEmail] = []validation.Rule{validation.Required, email}
	s.rules[prescription.FieldEmailConfirm] = []validation.Rule{validation.Required, matches(draft.Email)}
}

func (s *Schema) profileRules(catalogue devices.Catalogue) {
	s.rules[prescription.FieldPhoneNumber] = []validation.Rule{validation.Required, phoneNumber}
	s.rules[prescription.FieldMrn] = []validation.Rule{validation.Length(0, 25), validation.Match(mrnPattern)}
	s.rules[prescription.FieldSex] = []validation.Rule{validation.Required, validation.In("male", "female", "undisclosed")}

	var pumpIds, cgmIds []interface{}
	for _, p := range catalogue.EligiblePumps() {
		pumpIds = append(pumpIds, p.Id)
	}
	for _, c := range catalogue.EligibleCGMs() {
		cgmIds = append(cgmIds, c.Id)
	}
	s.rules[prescription.FieldPumpId] = []validation.Rule{validation.Required, validation.In(pumpIds...)}
	s.rules[prescription.FieldCgmId] = []validation.Rule{validation.Required, validation.In(cgmIds...)}
}

func (s *Schema) calculatorRules(draft prescription.Draft) {
	method := ""
	if draft.Calculator != nil && draft.Calculator.Method != nil {
		method = *draft.Calculator.Method
	}
	needsWeight := method == prescription.CalculatorMethodWeight || method == prescription.CalculatorMethodTotalDailyDoseAndWeight
	needsTotalDailyDose := method == prescription.CalculatorMethodTotalDailyDose || method == prescription.CalculatorMethodTotalDailyDoseAndWeight

	s.rules[prescription.FieldCalculatorMethod] = []validation.Rule{
		validation.Required,
		validation.In(
			prescription.CalculatorMethodWeight,
			prescription.CalculatorMethodTotalDailyDose,
			prescription.CalculatorMethodTotalDailyDoseAndWeight,
		),
	}
	s.rules[prescription.FieldCalculatorWeight] = []validation.Rule{validation.When(needsWeight, present, positive)}
	s.rules[prescription.FieldCalculatorWeightUnits] = []validation.Rule{
		validation.When(needsWeight, validation.Required, validation.In(units.Kilograms, units.Pounds)),
	}
	s.rules[prescription.FieldCalculatorTotalDaily] = []validation.Rule{validation.When(needsTotalDailyDose, present, positive)}
	s.rules[prescription.FieldCalculatorScaleFactor] = []validation.Rule{
		validation.When(needsTotalDailyDose, validation.Required, validation.In(1.0, 0.75)),
	}
	s.rules[prescription.FieldRecommendedBasalRate] = []validation.Rule{positive}
	s.rules[prescription.FieldRecommendedSensitivity] = []validation.Rule{positive}
	s.rules[prescription.FieldRecommendedCarbRatio] = []validation.Rule{positive}
}

func (s *Schema) therapySettingsRules(draft prescription.Draft, rails devices.GuardRails, bgUnits string) {
	settings := prescription.InitialSettings{}
	if draft.InitialSettings != nil {
		settings = *draft.InitialSettings
	}

	safetyLimit := bgBounds(rails.GlucoseSafetyLimit, bgUnits)
	if lowest, ok := lowestTarget(settings); ok && (safetyLimit.Maximum == 0 || lowest < safetyLimit.Maximum) {
		safetyLimit.Maximum = lowest
	}

	// targets may never be lower than the glucose safety limit
	targetFloor := func(b devices.Bounds) devices.Bounds {
		if settings.GlucoseSafetyLimit != nil && *settings.GlucoseSafetyLimit > b.Minimum {
			b.Minimum = *settings.GlucoseSafetyLimit
		}
		return b
	}
	target := entryRules{
		"low":  {present, within(targetFloor(bgBounds(rails.CorrectionRange, bgUnits)))},
		"high": {present, within(bgBounds(rails.CorrectionRange, bgUnits))},
	}
	preprandial := entryRules{
		"low":  {present, within(targetFloor(bgBounds(rails.PreprandialCorrectionRange, bgUnits)))},
		"high": {present, within(bgBounds(rails.PreprandialCorrectionRange, bgUnits))},
	}
	workout := entryRules{
		"low":  {present, within(targetFloor(bgBounds(rails.WorkoutCorrectionRange, bgUnits)))},
		"high": {present, within(bgBounds(rails.WorkoutCorrectionRange, bgUnits))},
	}

	basalRateMaximum := rails.BasalRateMaximum.AbsoluteBounds
	if highest, ok := highestBasalRate(settings); ok && highest > basalRateMaximum.Minimum {
		basalRateMaximum.Minimum = highest
	}

	s.rules[prescription.FieldTraining] = []validation.Rule{
		validation.Required,
		validation.In(prescription.TrainingInPerson, prescription.TrainingInModule),
	}
	s.rules[prescription.FieldInsulinModel] = []validation.Rule{
		validation.Required,
		validation.In(prescription.InsulinModelRapidAdult, prescription.InsulinModelRapidChild),
	}
	s.rules[prescription.FieldGlucoseSafetyLimit] = []validation.Rule{present, within(safetyLimit)}
	s.rules[prescription.FieldBasalRateMaximum] = []validation.Rule{present, within(basalRateMaximum)}
	s.rules[prescription.FieldBolusAmountMaximum] = []validation.Rule{present, within(rails.BolusAmountMaximum.AbsoluteBounds)}
	s.rules[prescription.FieldTargetSchedule] = []validation.Rule{schedule(target), orderedEntries}
	s.rules[prescription.FieldTargetPreprandial] = []validation.Rule{lowHigh(preprandial), ordered}
	s.rules[prescription.FieldTargetPhysicalActivity] = []validation.Rule{lowHigh(workout), ordered}
	s.rules[prescription.FieldBasalRateSchedule] = []validation.Rule{
		schedule(entryRules{"rate": {present, within(rails.BasalRates.AbsoluteBounds)}}),
	}
	s.rules[prescription.FieldCarbRatioSchedule] = []validation.Rule{
		schedule(entryRules{"amount": {present, within(rails.CarbohydrateRatio.AbsoluteBounds)}}),
	}
	s.rules[prescription.FieldSensitivitySchedule] = []validation.Rule{
		schedule(entryRules{"amount": {present, within(bgBounds(rails.InsulinSensitivity, bgUnits))}}),
	}
}

// bgBounds expresses the absolute bounds of a glucose guard rail in the draft units.
// Converted bounds are rounded inwards so they never allow a value outside of the original range.
func bgBounds(rail devices.GuardRail, bgUnits string) devices.Bounds {
	bounds := rail.AbsoluteBounds
	if bgUnits != units.MmolL || !strings.HasPrefix(rail.Units, units.MgdL) {
		return bounds
	}
	converted := devices.Bounds{
		Minimum:   units.RoundUp(bounds.Minimum/units.MgdLPerMmolL, 1),
		Increment: 0.1,
	}
	if bounds.Maximum != 0 {
		converted.Maximum = units.RoundDown(bounds.Maximum/units.MgdLPerMmolL, 1)
	}
	return converted
}

func lowestTarget(settings prescription.InitialSettings) (float64, bool) {
	lowest, found := math.Inf(1), false
	for _, t := range settings.BloodGlucoseTargetSchedule {
		if t.Low != nil && *t.Low < lowest {
			lowest, found = *t.Low, true
		}
	}
	return lowest, found
}

func highestBasalRate(settings prescription.InitialSettings) (float64, bool) {
	highest, found := 0.0, false
	for _, r := range settings.BasalRateSchedule {
		if r.Rate != nil && *r.Rate > highest {
			highest, found = *r.Rate, true
		}
	}
	return highest, found
}
