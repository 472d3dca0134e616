package weather

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/portpulse/portpulse/core/logger"
	coreweather "github.com/portpulse/portpulse/core/weather"
)

// NewHandler exposes current conditions via GET /weather in the
// OpenWeather-shaped payload the route map frontend consumes.
func NewHandler(provider coreweather.Provider, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		lat, _ := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, _ := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)

		obs, err := provider.Current(r.Context(), lat, lon)
		if err != nil {
			log.Errorf("weather lookup: %v", err)
			http.Error(w, "weather unavailable", http.StatusBadGateway)
			return
		}

		rain := map[string]float64{}
		if obs.RainfallMm > 0 {
			rain["1h"] = obs.RainfallMm
		}
		payload := map[string]any{
			"main": map[string]float64{"temp": obs.TempC},
			"weather": []map[string]string{
				{"main": obs.Condition, "description": obs.Description},
			},
			"visibility": obs.VisibilityM,
			"rain":       rain,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Errorf("encode response: %v", err)
		}
	})
}
