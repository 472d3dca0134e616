package fleet

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portpulse/portpulse/core/events"
	corefleet "github.com/portpulse/portpulse/core/fleet"
	"github.com/portpulse/portpulse/infra/logger"
	"github.com/portpulse/portpulse/internal/eventbus"
)

func TestUpdateHandler(t *testing.T) {
	reg := corefleet.NewMemoryRegistry(corefleet.DefaultTTL)
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	h := NewUpdateHandler(reg, bus, logger.NopLogger{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/update_location",
		strings.NewReader(`{"truck_id":"KL-07-1234","lat":9.96,"lon":76.26,"heading":270}`))
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res updateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, 1, res.ActivePeers)

	select {
	case ev := <-sub:
		upd, ok := ev.(events.FleetUpdated)
		require.True(t, ok)
		assert.Equal(t, "KL-07-1234", upd.TruckID)
		assert.Equal(t, "http", upd.Source)
		assert.Equal(t, 1, upd.ActiveCount)
	case <-time.After(time.Second):
		t.Fatal("no fleet event published")
	}
}

func TestUpdateHandler_AnonymousReporters(t *testing.T) {
	reg := corefleet.NewMemoryRegistry(corefleet.DefaultTTL)
	h := NewUpdateHandler(reg, nil, logger.NopLogger{})

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/update_location",
			strings.NewReader(`{"lat":9.9,"lon":76.2}`)))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	// Reports without a truck id all land in the shared anonymous slot.
	assert.Equal(t, 1, reg.ActiveCount())
}

func TestUpdateHandler_BadPayload(t *testing.T) {
	h := NewUpdateHandler(corefleet.NewMemoryRegistry(corefleet.DefaultTTL), nil, logger.NopLogger{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/update_location", strings.NewReader(`nope`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateHandler_MethodNotAllowed(t *testing.T) {
	h := NewUpdateHandler(corefleet.NewMemoryRegistry(corefleet.DefaultTTL), nil, logger.NopLogger{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/update_location", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestActiveHandler(t *testing.T) {
	reg := corefleet.NewMemoryRegistry(corefleet.DefaultTTL)
	reg.Upsert("KL-07-0001", 9.9, 76.2, 0)
	reg.Upsert("KL-07-0002", 10.0, 76.3, 90)

	h := NewActiveHandler(reg, logger.NopLogger{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fleet/active", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		ActivePeers int `json:"active_peers"`
		Trucks      []struct {
			TruckID string `json:"truck_id"`
		} `json:"trucks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.ActivePeers)
	require.Len(t, body.Trucks, 2)
	assert.Equal(t, "KL-07-0001", body.Trucks[0].TruckID)
}
