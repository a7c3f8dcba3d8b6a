package test

import "github.com/tidepool-org/prescription-wizard/devices"

// LoopGuardRails mirrors the guard rails of the fixture catalogue
func LoopGuardRails() devices.GuardRails {
	return devices.GuardRails{
		GlucoseSafetyLimit: devices.GuardRail{
			Units:             "mg/dL",
			AbsoluteBounds:    devices.Bounds{Minimum: 67, Maximum: 110, Increment: 1},
			RecommendedBounds: &devices.Bounds{Minimum: 74, Maximum: 80},
		},
		CorrectionRange: devices.GuardRail{
			Units:             "mg/dL",
			AbsoluteBounds:    devices.Bounds{Minimum: 87, Maximum: 180, Increment: 1},
			RecommendedBounds: &devices.Bounds{Minimum: 100, Maximum: 115},
		},
		PreprandialCorrectionRange: devices.GuardRail{
			Units:          "mg/dL",
			AbsoluteBounds: devices.Bounds{Minimum: 67, Maximum: 130, Increment: 1},
		},
		WorkoutCorrectionRange: devices.GuardRail{
			Units:             "mg/dL",
			AbsoluteBounds:    devices.Bounds{Minimum: 87, Maximum: 250, Increment: 1},
			RecommendedBounds: &devices.Bounds{Minimum: 150, Maximum: 180},
		},
		BasalRates: devices.GuardRail{
			Units:          "Units/hour",
			AbsoluteBounds: devices.Bounds{Minimum: 0.05, Maximum: 30, Increment: 0.05},
		},
		BasalRateMaximum: devices.GuardRail{
			Units:          "Units/hour",
			AbsoluteBounds: devices.Bounds{Minimum: 0, Maximum: 30, Increment: 0.05},
		},
		BolusAmountMaximum: devices.GuardRail{
			Units:             "Units",
			AbsoluteBounds:    devices.Bounds{Minimum: 0.05, Maximum: 30, Increment: 0.05},
			RecommendedBounds: &devices.Bounds{Minimum: 0.05, Maximum: 20},
		},
		CarbohydrateRatio: devices.GuardRail{
			Units:             "grams/Unit",
			AbsoluteBounds:    devices.Bounds{Minimum: 2, Maximum: 150, Increment: 0.01},
			RecommendedBounds: &devices.Bounds{Minimum: 4, Maximum: 28},
		},
		InsulinSensitivity: devices.GuardRail{
			Units:             "mg/dL/Unit",
			AbsoluteBounds:    devices.Bounds{Minimum: 10, Maximum: 500, Increment: 1},
			RecommendedBounds: &devices.Bounds{Minimum: 16, Maximum: 399},
		},
	}
}

// SingleDeviceCatalogue offers exactly one pump and one cgm
func SingleDeviceCatalogue() devices.Catalogue {
	return devices.Catalogue{
		Pumps: []devices.Pump{{
			Id:          devices.PalmtreePumpId,
			DisplayName: "Palmtree",
			GuardRails:  LoopGuardRails(),
		}},
		CGMs: []devices.CGM{{
			Id:          devices.DexcomG6CGMId,
			DisplayName: "Dexcom G6",
		}},
	}
}

// MultiDeviceCatalogue offers a choice of pumps and cgms
func MultiDeviceCatalogue() devices.Catalogue {
	catalogue := SingleDeviceCatalogue()
	catalogue.Pumps = append(catalogue.Pumps, devices.Pump{
		Id:          "c4a3a6ee-5b62-4c0e-a3d3-a1b9cd5f6a20",
		DisplayName: "Omnipod",
		GuardRails:  LoopGuardRails(),
	})
	catalogue.CGMs = append(catalogue.CGMs, devices.CGM{
		Id:          "8f7c1d3e-2a64-4d7a-9b1e-35c2f1e0a7b4",
		DisplayName: "Dexcom G7",
	})
	return catalogue
}
