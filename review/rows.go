package review

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/steps"
	"github.com/tidepool-org/prescription-wizard/types"
	"github.com/tidepool-org/prescription-wizard/units"
)

const (
	NotSpecified = "Not specified"

	LowWarning  = "The value you have chosen is lower than Tidepool generally recommends."
	HighWarning = "The value you have chosen is higher than Tidepool generally recommends."
)

var insulinModelLabels = map[string]string{
	prescription.InsulinModelRapidAdult: "Rapid Acting - Adults",
	prescription.InsulinModelRapidChild: "Rapid Acting - Children",
}

// EditLink deep-links a review row into a single step edit that returns to the review step
type EditLink struct {
	Target   steps.Position `json:"target"`
	ReturnTo steps.Position `json:"returnTo"`
	Focus    string         `json:"focus,omitempty"`
}

type PatientRow struct {
	Label string    `json:"label"`
	Value string    `json:"value"`
	Edit  *EditLink `json:"edit,omitempty"`
}

// SettingsRow holds one value per line. Warnings line up with the values, empty when there is none.
type SettingsRow struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Values   []string   `json:"values"`
	Warnings [][]string `json:"warnings"`
}

func (r SettingsRow) HasWarnings() bool {
	for _, w := range r.Warnings {
		if len(w) > 0 {
			return true
		}
	}
	return false
}

// Review is the content of the review step
type Review struct {
	PatientName     string        `json:"patientName"`
	NameEdit        *EditLink     `json:"nameEdit,omitempty"`
	SettingsEdit    *EditLink     `json:"settingsEdit,omitempty"`
	PatientRows     []PatientRow  `json:"patientRows"`
	TherapySettings []SettingsRow `json:"therapySettings"`
}

func Build(draft prescription.Draft, registry *steps.Registry, pump *devices.Pump) Review {
	return Review{
		PatientName:     draft.FullName(),
		NameEdit:        editLink(registry, prescription.FieldFirstName, ""),
		SettingsEdit:    editLink(registry, prescription.FieldGlucoseSafetyLimit, ""),
		PatientRows:     PatientRows(draft, registry),
		TherapySettings: TherapySettingsRows(draft, pump),
	}
}

// PatientRows lists the patient profile values with the sub-step that edits each of them
func PatientRows(draft prescription.Draft, registry *steps.Registry) []PatientRow {
	phone := ""
	if draft.PhoneNumber != nil {
		phone = types.Deref(draft.PhoneNumber.Number)
	}
	return []PatientRow{
		{Label: "Email", Value: types.Deref(draft.Email), Edit: editLink(registry, prescription.FieldEmail, "")},
		{Label: "Mobile Number", Value: phone, Edit: editLink(registry, prescription.FieldPhoneNumber, "")},
		{Label: "Type of Account", Value: capitalize(types.Deref(draft.AccountType)), Edit: editLink(registry, prescription.FieldAccountType, "")},
		{Label: "Birthdate", Value: types.Deref(draft.Birthday), Edit: editLink(registry, prescription.FieldBirthday, "birthday")},
		{Label: "Gender", Value: capitalize(types.Deref(draft.Sex)), Edit: editLink(registry, prescription.FieldSex, "")},
		{Label: "MRN", Value: types.Deref(draft.Mrn), Edit: editLink(registry, prescription.FieldMrn, "")},
	}
}

func editLink(registry *steps.Registry, field prescription.FieldPath, focus string) *EditLink {
	target, ok := registry.OwnerOf(field)
	if !ok {
		return nil
	}
	return &EditLink{
		Target:   target,
		ReturnTo: steps.Position{Step: registry.LastStep()},
		Focus:    focus,
	}
}

// TherapySettingsRows lists the therapy settings with the recommended bounds warnings of the pump
func TherapySettingsRows(draft prescription.Draft, pump *devices.Pump) []SettingsRow {
	settings := prescription.InitialSettings{}
	if draft.InitialSettings != nil {
		settings = *draft.InitialSettings
	}
	bgUnits := settings.BloodGlucoseUnits
	if !units.IsValidBgUnits(bgUnits) {
		bgUnits = units.MgdL
	}
	rails := devices.GuardRails{}
	if pump != nil {
		rails = pump.GuardRails
	}

	rows := []SettingsRow{
		single("cpt-training", "CPT Training Required", training(draft.Training), nil),
		single("glucose-safety-limit", "Glucose Safety Limit",
			fmt.Sprintf("%s %s", number(settings.GlucoseSafetyLimit), bgUnits),
			warning(settings.GlucoseSafetyLimit, bgThreshold(rails.GlucoseSafetyLimit, bgUnits))),
	}

	correction := SettingsRow{ID: "correction-range", Label: "Correction Range"}
	threshold := bgThreshold(rails.CorrectionRange, bgUnits)
	for _, entry := range settings.BloodGlucoseTargetSchedule {
		correction.Values = append(correction.Values,
			fmt.Sprintf("%s: %s - %s %s", TimeOfDay(entry.Start), number(entry.Low), number(entry.High), bgUnits))
		correction.Warnings = append(correction.Warnings, rangeWarnings(entry.Low, entry.High, threshold))
	}
	rows = append(rows,
		correction,
		rangeRow("premeal-range", "Pre-meal Correction Range", settings.BloodGlucoseTargetPreprandial,
			bgThreshold(rails.PreprandialCorrectionRange, bgUnits), bgUnits),
		rangeRow("workout-range", "Workout Correction Range", settings.BloodGlucoseTargetPhysicalActivity,
			bgThreshold(rails.WorkoutCorrectionRange, bgUnits), bgUnits),
	)

	carbRatios := SettingsRow{ID: "carb-ratio-schedule", Label: "Insulin to Carbohydrate Ratios"}
	for _, entry := range settings.CarbohydrateRatioSchedule {
		carbRatios.Values = append(carbRatios.Values, fmt.Sprintf("%s: %s g/U", TimeOfDay(entry.Start), number(entry.Amount)))
		carbRatios.Warnings = append(carbRatios.Warnings, warning(entry.Amount, rails.CarbohydrateRatio.RecommendedBounds))
	}

	basalRates := SettingsRow{ID: "basal-schedule", Label: "Basal Rates"}
	for _, entry := range settings.BasalRateSchedule {
		basalRates.Values = append(basalRates.Values, fmt.Sprintf("%s: %s U/hr", TimeOfDay(entry.Start), number(entry.Rate)))
		basalRates.Warnings = append(basalRates.Warnings, warning(entry.Rate, rails.BasalRates.RecommendedBounds))
	}

	var maxBasal, maxBolus *float64
	if settings.BasalRateMaximum != nil {
		maxBasal = settings.BasalRateMaximum.Value
	}
	if settings.BolusAmountMaximum != nil {
		maxBolus = settings.BolusAmountMaximum.Value
	}
	limits := SettingsRow{
		ID:    "delivery-limits",
		Label: "Delivery Limits",
		Values: []string{
			fmt.Sprintf("Max Basal: %s U/hr", number(maxBasal)),
			fmt.Sprintf("Max Bolus: %s U", number(maxBolus)),
		},
		Warnings: [][]string{
			warning(maxBasal, rails.BasalRateMaximum.RecommendedBounds),
			warning(maxBolus, rails.BolusAmountMaximum.RecommendedBounds),
		},
	}

	sensitivities := SettingsRow{ID: "isf-schedule", Label: "Insulin Sensitivity Factor"}
	threshold = bgThreshold(rails.InsulinSensitivity, bgUnits)
	for _, entry := range settings.InsulinSensitivitySchedule {
		sensitivities.Values = append(sensitivities.Values, fmt.Sprintf("%s: %s %s", TimeOfDay(entry.Start), number(entry.Amount), bgUnits))
		sensitivities.Warnings = append(sensitivities.Warnings, warning(entry.Amount, threshold))
	}

	return append(rows,
		carbRatios,
		basalRates,
		limits,
		single("insulin-model", "Insulin Model", insulinModelLabels[types.Deref(settings.InsulinModel)], nil),
		sensitivities,
	)
}

// TimeOfDay formats a schedule start in milliseconds since midnight as HH:MM
func TimeOfDay(ms int) string {
	minutes := ms / 60000
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func single(id, label, value string, warnings []string) SettingsRow {
	return SettingsRow{ID: id, Label: label, Values: []string{value}, Warnings: [][]string{warnings}}
}

func rangeRow(id, label string, r *prescription.BloodGlucoseRange, threshold *devices.Bounds, bgUnits string) SettingsRow {
	if r == nil || r.Low == nil || r.High == nil {
		return single(id, label, NotSpecified, nil)
	}
	return single(id, label,
		fmt.Sprintf("%s - %s %s", number(r.Low), number(r.High), bgUnits),
		rangeWarnings(r.Low, r.High, threshold))
}

func rangeWarnings(low, high *float64, threshold *devices.Bounds) []string {
	var warnings []string
	for _, w := range warning(low, threshold) {
		warnings = append(warnings, "Lower Target: "+w)
	}
	for _, w := range warning(high, threshold) {
		warnings = append(warnings, "Upper Target: "+w)
	}
	return warnings
}

func warning(value *float64, threshold *devices.Bounds) []string {
	if value == nil || threshold == nil {
		return nil
	}
	if *value < threshold.Minimum {
		return []string{LowWarning}
	}
	if threshold.Maximum != 0 && *value > threshold.Maximum {
		return []string{HighWarning}
	}
	return nil
}

// bgThreshold expresses the recommended bounds of a glucose guard rail in the draft units
func bgThreshold(rail devices.GuardRail, bgUnits string) *devices.Bounds {
	if rail.RecommendedBounds == nil {
		return nil
	}
	if bgUnits == units.MgdL || !strings.HasPrefix(rail.Units, units.MgdL) {
		return rail.RecommendedBounds
	}
	return &devices.Bounds{
		Minimum: units.ConvertFromMgdL(rail.RecommendedBounds.Minimum, bgUnits),
		Maximum: units.ConvertFromMgdL(rail.RecommendedBounds.Maximum, bgUnits),
	}
}

func training(value *string) string {
	switch types.Deref(value) {
	case "":
		return NotSpecified
	case prescription.TrainingInModule:
		return "Not required"
	default:
		return "Required"
	}
}

func number(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + strings.ToLower(value[1:])
}
