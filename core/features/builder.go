package features

import (
	"math"

	"github.com/portpulse/portpulse/core/model"
)

// FeatureVector is the fixed-shape input the wait-time regressor was trained
// on. The hour is encoded on a 24h sinusoid so 23:00 and midnight stay
// adjacent; the regressor was fit on exactly this encoding and any deviation
// degrades estimates silently.
type FeatureVector struct {
	PortName string
	State    string
	District string

	HourSin      float64
	HourCos      float64
	DayOfWeek    float64
	RainfallMm   float64
	VisibilityM  float64
	TruckDensity float64
	GateHealth   float64
	IsMonsoon    float64
}

// Build derives the model input from a resolved prediction context.
func Build(ctx model.PredictionContext) FeatureVector {
	h := float64(ctx.Hour % 24)
	monsoon := 0.0
	if ctx.IsMonsoon {
		monsoon = 1
	}
	return FeatureVector{
		PortName:     ctx.PortName,
		State:        ctx.State,
		District:     ctx.District,
		HourSin:      math.Sin(2 * math.Pi * h / 24),
		HourCos:      math.Cos(2 * math.Pi * h / 24),
		DayOfWeek:    float64(ctx.DayOfWeek),
		RainfallMm:   ctx.RainfallMm,
		VisibilityM:  ctx.VisibilityM,
		TruckDensity: ctx.TruckDensity,
		GateHealth:   ctx.GateHealth,
		IsMonsoon:    monsoon,
	}
}
