// Package weather defines the advisory weather capability feeding prediction
// context resolution. Observations never override caller-supplied values.
package weather

import "context"

// Observation is a current-conditions snapshot near a coordinate.
type Observation struct {
	TempC       float64 `json:"temp_c"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	RainfallMm  float64 `json:"rain_1h"`
	VisibilityM float64 `json:"visibility"`
}

// Provider supplies current conditions near a coordinate.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (Observation, error)
}

// MockProvider returns canned monsoon or clear-sky observations.
type MockProvider struct {
	Rainy bool
}

// Current returns the canned observation regardless of location.
func (m MockProvider) Current(ctx context.Context, lat, lon float64) (Observation, error) {
	_ = ctx
	_, _ = lat, lon
	if m.Rainy {
		return Observation{
			TempC:       28,
			Condition:   "Rain",
			Description: "monsoon showers",
			RainfallMm:  15,
			VisibilityM: 3000,
		}, nil
	}
	return Observation{
		TempC:       32,
		Condition:   "Clear",
		Description: "clear sky",
		RainfallMm:  0,
		VisibilityM: 10000,
	}, nil
}
