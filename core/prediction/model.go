package prediction

import (
	"context"
	"errors"

	"github.com/portpulse/portpulse/core/features"
)

// ErrModelUnavailable is returned when no trained model is loaded or the
// capability cannot be reached. Fusion reports it immediately rather than
// substituting a fabricated or cached estimate.
var ErrModelUnavailable = errors.New("prediction: model unavailable")

// WaitModel estimates the raw gate wait in seconds for a feature vector.
// Implementations must tolerate categorical values unseen during training;
// callers never pre-validate categories.
type WaitModel interface {
	Predict(ctx context.Context, fv features.FeatureVector) (float64, error)
}

// ModelFunc adapts a function to the WaitModel interface.
type ModelFunc func(ctx context.Context, fv features.FeatureVector) (float64, error)

// Predict calls the underlying function.
func (f ModelFunc) Predict(ctx context.Context, fv features.FeatureVector) (float64, error) {
	return f(ctx, fv)
}
