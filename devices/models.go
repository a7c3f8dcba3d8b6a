package devices

const (
	// PalmtreePumpId is the pump assumed by the therapy settings bounds when no pump was selected yet
	PalmtreePumpId = "6678c377-928c-49b3-84c1-19e2dafaff8d"
	DexcomG6CGMId  = "d25c3f1b-a2e8-44e2-b3a3-fd07806fc245"
)

type Catalogue struct {
	Pumps []Pump `json:"pumps" toml:"pumps"`
	CGMs  []CGM  `json:"cgms" toml:"cgms"`
}

type Pump struct {
	Id             string     `json:"id" toml:"id"`
	DisplayName    string     `json:"displayName" toml:"displayName"`
	Manufacturers  []string   `json:"manufacturers,omitempty" toml:"manufacturers"`
	Disabled       bool       `json:"disabled,omitempty" toml:"disabled"`
	SkipCalculator bool       `json:"skipCalculator,omitempty" toml:"skipCalculator"`
	GuardRails     GuardRails `json:"guardRails" toml:"guardRails"`
}

type CGM struct {
	Id            string   `json:"id" toml:"id"`
	DisplayName   string   `json:"displayName" toml:"displayName"`
	Manufacturers []string `json:"manufacturers,omitempty" toml:"manufacturers"`
	Disabled      bool     `json:"disabled,omitempty" toml:"disabled"`
}

// GuardRails are the per-pump limits of the therapy settings.
// Glucose values are always expressed in mg/dL.
type GuardRails struct {
	GlucoseSafetyLimit         GuardRail `json:"glucoseSafetyLimit" toml:"glucoseSafetyLimit"`
	CorrectionRange            GuardRail `json:"correctionRange" toml:"correctionRange"`
	PreprandialCorrectionRange GuardRail `json:"preprandialCorrectionRange" toml:"preprandialCorrectionRange"`
	WorkoutCorrectionRange     GuardRail `json:"workoutCorrectionRange" toml:"workoutCorrectionRange"`
	BasalRates                 GuardRail `json:"basalRates" toml:"basalRates"`
	BasalRateMaximum           GuardRail `json:"basalRateMaximum" toml:"basalRateMaximum"`
	BolusAmountMaximum         GuardRail `json:"bolusAmountMaximum" toml:"bolusAmountMaximum"`
	CarbohydrateRatio          GuardRail `json:"carbohydrateRatio" toml:"carbohydrateRatio"`
	InsulinSensitivity         GuardRail `json:"insulinSensitivity" toml:"insulinSensitivity"`
}

type GuardRail struct {
	Units             string  `json:"units,omitempty" toml:"units"`
	AbsoluteBounds    Bounds  `json:"absoluteBounds" toml:"absoluteBounds"`
	RecommendedBounds *Bounds `json:"recommendedBounds,omitempty" toml:"recommendedBounds"`
}

type Bounds struct {
	Minimum   float64 `json:"minimum" toml:"minimum"`
	Maximum   float64 `json:"maximum" toml:"maximum"`
	Increment float64 `json:"increment,omitempty" toml:"increment"`
}

// Contains returns true if the value is within the inclusive bounds.
// An unset maximum is treated as unbounded.
func (b Bounds) Contains(value float64) bool {
	if value < b.Minimum {
		return false
	}
	return b.Maximum == 0 || value <= b.Maximum
}

// EligiblePumps returns the pumps that can be offered during device selection
func (c Catalogue) EligiblePumps() []Pump {
	eligible := make([]Pump, 0, len(c.Pumps))
	for _, p := range c.Pumps {
		if !p.Disabled {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// EligibleCGMs returns the CGMs that can be offered during device selection
func (c Catalogue) EligibleCGMs() []CGM {
	eligible := make([]CGM, 0, len(c.CGMs))
	for _, d := range c.CGMs {
		if !d.Disabled {
			eligible = append(eligible, d)
		}
	}
	return eligible
}

func (c Catalogue) Pump(id string) *Pump {
	for i := range c.Pumps {
		if c.Pumps[i].Id == id {
			return &c.Pumps[i]
		}
	}
	return nil
}

func (c Catalogue) CGM(id string) *CGM {
	for i := range c.CGMs {
		if c.CGMs[i].Id == id {
			return &c.CGMs[i]
		}
	}
	return nil
}

// SkipDeviceSelection is true when there is exactly one pump and one cgm to choose from
func (c Catalogue) SkipDeviceSelection() bool {
	return len(c.EligiblePumps()) == 1 && len(c.EligibleCGMs()) == 1
}

// SkipCalculator is true when the selected pump, or every available pump, opts out of the settings calculator
func (c Catalogue) SkipCalculator(pumpId string) bool {
	if p := c.Pump(pumpId); p != nil && p.SkipCalculator {
		return true
	}

	pumps := c.EligiblePumps()
	if len(pumps) == 0 {
		return false
	}
	for _, p := range pumps {
		if !p.SkipCalculator {
			return false
		}
	}
	return true
}

// DefaultDeviceIds returns the pump and cgm ids that should be preselected when device selection is skipped
func (c Catalogue) DefaultDeviceIds() (pumpId string, cgmId string, ok bool) {
	if !c.SkipDeviceSelection() {
		return "", "", false
	}
	return c.EligiblePumps()[0].Id, c.EligibleCGMs()[0].Id, true
}
