// Package regression loads the trained wait-time artifact and scores feature
// vectors against it. The artifact is a JSON export of the training
// pipeline: a linear scoring head over the one-hot categorical encoding plus
// the raw numeric features.
package regression

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/portpulse/portpulse/core/features"
)

// numericDims is the number of numeric features in the fixed vector shape.
const numericDims = 8

// Artifact is the on-disk shape of the exported model. Category maps carry
// one weight per level seen during training; levels absent from the map
// encode to zero, mirroring the ignore-unknown encoding of the pipeline.
type Artifact struct {
	Ports     map[string]float64 `json:"ports"`
	States    map[string]float64 `json:"states"`
	Districts map[string]float64 `json:"districts"`

	Numeric struct {
		HourSin      float64 `json:"hour_sin"`
		HourCos      float64 `json:"hour_cos"`
		DayOfWeek    float64 `json:"day_of_week"`
		RainfallMm   float64 `json:"rain_1h"`
		VisibilityM  float64 `json:"visibility"`
		TruckDensity float64 `json:"truck_density"`
		GateHealth   float64 `json:"gate_health"`
		IsMonsoon    float64 `json:"is_monsoon"`
	} `json:"numeric"`

	InterceptSeconds float64 `json:"intercept_seconds"`
}

// Model scores feature vectors against a loaded artifact.
type Model struct {
	art     Artifact
	weights *mat.VecDense
}

// Load reads and decodes the artifact at path.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("regression: read artifact: %w", err)
	}
	var art Artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("regression: decode artifact: %w", err)
	}
	return New(art), nil
}

// New builds a model from an in-memory artifact.
func New(art Artifact) *Model {
	n := art.Numeric
	w := mat.NewVecDense(numericDims, []float64{
		n.HourSin, n.HourCos, n.DayOfWeek, n.RainfallMm,
		n.VisibilityM, n.TruckDensity, n.GateHealth, n.IsMonsoon,
	})
	return &Model{art: art, weights: w}
}

// Predict returns the estimated gate wait in seconds. Unknown categorical
// values contribute nothing to the score; the estimate is clamped at zero
// because the regressor target is non-negative.
func (m *Model) Predict(ctx context.Context, fv features.FeatureVector) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	x := mat.NewVecDense(numericDims, []float64{
		fv.HourSin, fv.HourCos, fv.DayOfWeek, fv.RainfallMm,
		fv.VisibilityM, fv.TruckDensity, fv.GateHealth, fv.IsMonsoon,
	})
	score := mat.Dot(m.weights, x) + m.art.InterceptSeconds
	score += m.art.Ports[fv.PortName] + m.art.States[fv.State] + m.art.Districts[fv.District]
	if score < 0 {
		score = 0
	}
	return score, nil
}
