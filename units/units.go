package units

import "math"

const (
	MgdL  = "mg/dL"
	MmolL = "mmol/L"

	MgdLPerMmolL = 18.01559

	Kilograms = "kg"
	Pounds    = "lbs"

	BasalRate   = "Units/hour"
	BolusAmount = "Units"
)

// TranslateBg converts a blood glucose value to the target units.
// Values converted to mg/dL are rounded to an integer, values converted to mmol/L to one decimal.
func TranslateBg(value float64, targetUnits string) float64 {
	if targetUnits == MgdL {
		return math.Round(value * MgdLPerMmolL)
	}
	return round(value/MgdLPerMmolL, 1)
}

// RoundBgTarget rounds a target value to the nearest 5 for mg/dL and to the nearest .1 for mmol/L
func RoundBgTarget(value float64, units string) float64 {
	nearest, precision := 0.1, 1
	if units == MgdL {
		nearest, precision = 5, 0
	}
	return round(nearest*math.Round(value/nearest), precision)
}

// ConvertFromMgdL expresses a value given in mg/dL in the requested units
func ConvertFromMgdL(value float64, units string) float64 {
	if units == MgdL {
		return value
	}
	return TranslateBg(value, MmolL)
}

func RoundUp(value float64, precision int) float64 {
	shift := math.Pow(10, float64(precision))
	return math.Ceil(value*shift) / shift
}

func RoundDown(value float64, precision int) float64 {
	shift := math.Pow(10, float64(precision))
	return math.Floor(value*shift) / shift
}

func IsValidBgUnits(units string) bool {
	return units == MgdL || units == MmolL
}

func round(value float64, precision int) float64 {
	shift := math.Pow(10, float64(precision))
	return math.Round(value*shift) / shift
}
