package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/portpulse/portpulse/core/logger"
	"github.com/portpulse/portpulse/core/model"
	"github.com/portpulse/portpulse/core/prediction"
)

// Predictor is the fusion capability the handler exposes.
type Predictor interface {
	Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResult, error)
}

// NewHandler serves wait-time predictions via POST /predict. An empty body
// is valid: every request field is optional.
func NewHandler(p Predictor, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req model.PredictionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid payload", http.StatusBadRequest)
				return
			}
		}
		res, err := p.Predict(r.Context(), req)
		if err != nil {
			if errors.Is(err, prediction.ErrModelUnavailable) {
				log.Errorf("prediction refused: %v", err)
				writeJSONError(w, "model not loaded", http.StatusInternalServerError)
				return
			}
			log.Errorf("prediction failed: %v", err)
			writeJSONError(w, "prediction failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			log.Errorf("encode response: %v", err)
		}
	})
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
