package prediction

import (
	"context"

	"github.com/portpulse/portpulse/core/features"
)

// MockModel returns a fixed estimate or error. Used in tests.
type MockModel struct {
	Seconds float64
	Err     error
}

// Predict returns the configured estimate.
func (m MockModel) Predict(ctx context.Context, fv features.FeatureVector) (float64, error) {
	_ = ctx
	_ = fv
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Seconds, nil
}
