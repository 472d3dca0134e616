package fusion

import "fmt"

// Defaults applied when the caller omits context fields.
const (
	DefaultPortName     = "Cochin Port"
	DefaultState        = "Kerala"
	DefaultDistrict     = "Ernakulam"
	DefaultVisibilityM  = 10000
	DefaultTruckDensity = 100

	// GateHealthBaseline is a placeholder operational-efficiency signal,
	// constant until live gate telemetry feeds it.
	GateHealthBaseline = 600

	// MonsoonRainMm is the hourly rainfall above which monsoon mode engages.
	MonsoonRainMm = 5.0

	// MinLiveReporters is the fleet size below which the live registry count
	// is too thin to stand in for local truck density.
	MinLiveReporters = 10
)

// Route colors shared with the map frontend.
const (
	ColorGreen   = "#4ade80"
	ColorAmber   = "#fbbf24"
	ColorRed     = "#ef4444"
	ColorDeepRed = "#7f1d1d"
)

// Config holds the tiering and coloring thresholds. All bounds are exclusive
// lower bounds: a wait equal to a threshold stays in the lower tier.
type Config struct {
	ModerateOverMin int `json:"moderate_over_min"`
	HighOverMin     int `json:"high_over_min"`
	CriticalOverMin int `json:"critical_over_min"`

	GateRedOverMin      int `json:"gate_red_over_min"`
	GateCriticalOverMin int `json:"gate_critical_over_min"`

	PeakMorningStart int `json:"peak_morning_start"`
	PeakMorningEnd   int `json:"peak_morning_end"`
	PeakEveningStart int `json:"peak_evening_start"`
	PeakEveningEnd   int `json:"peak_evening_end"`

	// ModelTimeoutMS bounds a single model invocation. Zero disables the
	// bound.
	ModelTimeoutMS int `json:"model_timeout_ms"`
}

// SetDefaults applies the standard thresholds.
func (c *Config) SetDefaults() {
	if c.ModerateOverMin == 0 {
		c.ModerateOverMin = 30
	}
	if c.HighOverMin == 0 {
		c.HighOverMin = 60
	}
	if c.CriticalOverMin == 0 {
		c.CriticalOverMin = 120
	}
	if c.GateRedOverMin == 0 {
		c.GateRedOverMin = 45
	}
	if c.GateCriticalOverMin == 0 {
		c.GateCriticalOverMin = 90
	}
	if c.PeakMorningStart == 0 {
		c.PeakMorningStart = 8
	}
	if c.PeakMorningEnd == 0 {
		c.PeakMorningEnd = 11
	}
	if c.PeakEveningStart == 0 {
		c.PeakEveningStart = 17
	}
	if c.PeakEveningEnd == 0 {
		c.PeakEveningEnd = 20
	}
	if c.ModelTimeoutMS == 0 {
		c.ModelTimeoutMS = 2000
	}
}

// Validate checks threshold ordering.
func (c Config) Validate() error {
	if c.ModerateOverMin >= c.HighOverMin || c.HighOverMin >= c.CriticalOverMin {
		return fmt.Errorf("traffic thresholds must be strictly increasing")
	}
	if c.GateRedOverMin >= c.GateCriticalOverMin {
		return fmt.Errorf("gate coloring thresholds must be strictly increasing")
	}
	if c.PeakMorningStart > c.PeakMorningEnd || c.PeakEveningStart > c.PeakEveningEnd {
		return fmt.Errorf("peak hour windows must not be inverted")
	}
	return nil
}
