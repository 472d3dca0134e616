package fleet

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/portpulse/portpulse/core/events"
	corefleet "github.com/portpulse/portpulse/core/fleet"
	"github.com/portpulse/portpulse/core/logger"
	"github.com/portpulse/portpulse/internal/eventbus"
)

type updateRequest struct {
	TruckID string  `json:"truck_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Heading float64 `json:"heading"`
}

type updateResponse struct {
	Status      string `json:"status"`
	ActivePeers int    `json:"active_peers"`
}

// NewUpdateHandler accepts peer position reports via POST /update_location.
// A missing truck_id is accepted and stored under the shared anonymous slot.
func NewUpdateHandler(reg corefleet.Registry, bus eventbus.EventBus, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		active := reg.Upsert(req.TruckID, req.Lat, req.Lon, req.Heading)
		if bus != nil {
			bus.Publish(events.FleetUpdated{
				TruckID:     req.TruckID,
				Source:      "http",
				ActiveCount: active,
				Time:        time.Now(),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(updateResponse{Status: "success", ActivePeers: active}); err != nil {
			log.Errorf("encode response: %v", err)
		}
	})
}

// NewActiveHandler exposes the live registry via GET /fleet/active.
func NewActiveHandler(reg corefleet.Registry, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := reg.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"active_peers": len(snap),
			"trucks":       snap,
		}); err != nil {
			log.Errorf("encode response: %v", err)
		}
	})
}
