package fusion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portpulse/portpulse/core/demurrage"
	"github.com/portpulse/portpulse/core/features"
	"github.com/portpulse/portpulse/core/fleet"
	"github.com/portpulse/portpulse/core/model"
	"github.com/portpulse/portpulse/core/prediction"
	"github.com/portpulse/portpulse/core/weather"
	"github.com/portpulse/portpulse/infra/logger"
)

func newTestEngine(t *testing.T, reg fleet.Registry, mdl prediction.WaitModel, wp weather.Provider) *Engine {
	t.Helper()
	if reg == nil {
		reg = fleet.NewMemoryRegistry(fleet.DefaultTTL)
	}
	eng, err := New(reg, mdl, wp, demurrage.Tariff{}, Config{}, logger.NopLogger{}, nil, nil)
	require.NoError(t, err)
	return eng
}

// fixClock pins the engine clock to the given hour on a Monday.
func fixClock(e *Engine, hour int) {
	at := time.Date(2025, 6, 2, hour, 30, 0, 0, time.UTC) // 2025-06-02 is a Monday
	e.now = func() time.Time { return at }
}

func TestPredict_ModelUnavailable(t *testing.T) {
	eng := newTestEngine(t, nil, nil, nil)
	_, err := eng.Predict(context.Background(), model.PredictionRequest{})
	require.ErrorIs(t, err, prediction.ErrModelUnavailable)
}

func TestPredict_ModelErrorPropagates(t *testing.T) {
	boom := errors.New("artifact corrupt")
	eng := newTestEngine(t, nil, prediction.MockModel{Err: boom}, nil)
	_, err := eng.Predict(context.Background(), model.PredictionRequest{})
	require.ErrorIs(t, err, boom)
}

func TestPredict_TrafficLevelBoundaries(t *testing.T) {
	cases := []struct {
		seconds float64
		want    model.TrafficLevel
	}{
		{30 * 60, model.TrafficLow},
		{31 * 60, model.TrafficModerate},
		{60 * 60, model.TrafficModerate},
		{61 * 60, model.TrafficHigh},
		{120 * 60, model.TrafficHigh},
		{121 * 60, model.TrafficCritical},
	}
	for _, tc := range cases {
		eng := newTestEngine(t, nil, prediction.MockModel{Seconds: tc.seconds}, nil)
		fixClock(eng, 14)
		res, err := eng.Predict(context.Background(), model.PredictionRequest{})
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.TrafficLevel, "seconds=%v", tc.seconds)
	}
}

func TestPredict_FloorDivision(t *testing.T) {
	eng := newTestEngine(t, nil, prediction.MockModel{Seconds: 2759}, nil)
	fixClock(eng, 14)
	res, err := eng.Predict(context.Background(), model.PredictionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 45, res.WaitMinutes)
}

func TestPredict_EffectiveDensity(t *testing.T) {
	var seen float64
	capture := prediction.ModelFunc(func(_ context.Context, fv features.FeatureVector) (float64, error) {
		seen = fv.TruckDensity
		return 0, nil
	})
	callerDensity := 250.0

	t.Run("thin fleet defers to caller", func(t *testing.T) {
		reg := fleet.NewMemoryRegistry(fleet.DefaultTTL)
		for i := 0; i < 5; i++ {
			reg.Upsert(string(rune('a'+i)), 9.9, 76.2, 0)
		}
		eng := newTestEngine(t, reg, capture, nil)
		_, err := eng.Predict(context.Background(), model.PredictionRequest{TruckDensity: &callerDensity})
		require.NoError(t, err)
		assert.Equal(t, 250.0, seen)
	})

	t.Run("live fleet overrides caller", func(t *testing.T) {
		reg := fleet.NewMemoryRegistry(fleet.DefaultTTL)
		for i := 0; i < 15; i++ {
			reg.Upsert(string(rune('a'+i)), 9.9, 76.2, 0)
		}
		eng := newTestEngine(t, reg, capture, nil)
		_, err := eng.Predict(context.Background(), model.PredictionRequest{TruckDensity: &callerDensity})
		require.NoError(t, err)
		assert.Equal(t, 15.0, seen)
	})

	t.Run("empty fleet uses default", func(t *testing.T) {
		eng := newTestEngine(t, nil, capture, nil)
		_, err := eng.Predict(context.Background(), model.PredictionRequest{})
		require.NoError(t, err)
		assert.Equal(t, float64(DefaultTruckDensity), seen)
	})
}

func TestPredict_MonsoonOverridesPeak(t *testing.T) {
	rain := 10.0
	eng := newTestEngine(t, nil, prediction.MockModel{Seconds: 600}, nil)
	fixClock(eng, 9) // peak morning
	res, err := eng.Predict(context.Background(), model.PredictionRequest{RainfallMm: &rain})
	require.NoError(t, err)
	require.Len(t, res.TrafficSegments, 3)
	assert.True(t, res.MonsoonMode)
	assert.Equal(t, ColorAmber, res.TrafficSegments[0].Color)
	assert.Equal(t, ColorRed, res.TrafficSegments[1].Color)
}

func TestPredict_PeakHourCityAmber(t *testing.T) {
	eng := newTestEngine(t, nil, prediction.MockModel{Seconds: 600}, nil)
	fixClock(eng, 17)
	res, err := eng.Predict(context.Background(), model.PredictionRequest{})
	require.NoError(t, err)
	assert.Equal(t, ColorGreen, res.TrafficSegments[0].Color)
	assert.Equal(t, ColorAmber, res.TrafficSegments[1].Color)
}

func TestPredict_GateSegmentColoring(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{10 * 60, ColorAmber},
		{45 * 60, ColorAmber},
		{46 * 60, ColorRed},
		{90 * 60, ColorRed},
		{91 * 60, ColorDeepRed},
	}
	for _, tc := range cases {
		eng := newTestEngine(t, nil, prediction.MockModel{Seconds: tc.seconds}, nil)
		fixClock(eng, 14)
		res, err := eng.Predict(context.Background(), model.PredictionRequest{})
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.TrafficSegments[2].Color, "seconds=%v", tc.seconds)
	}
}

func TestPredict_OffPeakScenario(t *testing.T) {
	rain := 0.0
	eng := newTestEngine(t, nil, prediction.MockModel{Seconds: 2700}, nil)
	fixClock(eng, 14)
	res, err := eng.Predict(context.Background(), model.PredictionRequest{RainfallMm: &rain})
	require.NoError(t, err)
	assert.Equal(t, 45, res.WaitMinutes)
	assert.Equal(t, model.TrafficModerate, res.TrafficLevel)
	assert.Equal(t, 0.0, res.DemurrageUSD)
	assert.Equal(t, 0, res.ActiveFleetCount)
	assert.False(t, res.MonsoonMode)
	assert.Equal(t, ColorAmber, res.TrafficSegments[2].Color)
	assert.Equal(t, "Port Gate: 45 min wait", res.TrafficSegments[2].Description)
}

func TestPredict_DemurrageInResult(t *testing.T) {
	eng := newTestEngine(t, nil, prediction.MockModel{Seconds: 90 * 60}, nil)
	fixClock(eng, 14)
	res, err := eng.Predict(context.Background(), model.PredictionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 25.0, res.DemurrageUSD)
}

func TestPredict_ActiveFleetCountReported(t *testing.T) {
	reg := fleet.NewMemoryRegistry(fleet.DefaultTTL)
	reg.Upsert("v1", 9.9, 76.2, 0)
	reg.Upsert("v2", 9.9, 76.2, 0)
	eng := newTestEngine(t, reg, prediction.MockModel{Seconds: 600}, nil)
	fixClock(eng, 14)
	res, err := eng.Predict(context.Background(), model.PredictionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ActiveFleetCount)
}

func TestPredict_WeatherFallback(t *testing.T) {
	lat, lon := 9.9667, 76.2667
	var seen features.FeatureVector
	capture := prediction.ModelFunc(func(_ context.Context, fv features.FeatureVector) (float64, error) {
		seen = fv
		return 0, nil
	})

	t.Run("provider consulted when rain absent", func(t *testing.T) {
		eng := newTestEngine(t, nil, capture, weather.MockProvider{Rainy: true})
		fixClock(eng, 14)
		res, err := eng.Predict(context.Background(), model.PredictionRequest{Lat: &lat, Lon: &lon})
		require.NoError(t, err)
		assert.Equal(t, 15.0, seen.RainfallMm)
		assert.Equal(t, 3000.0, seen.VisibilityM)
		assert.True(t, res.MonsoonMode)
	})

	t.Run("caller rain wins over provider", func(t *testing.T) {
		rain := 0.0
		eng := newTestEngine(t, nil, capture, weather.MockProvider{Rainy: true})
		fixClock(eng, 14)
		res, err := eng.Predict(context.Background(), model.PredictionRequest{Lat: &lat, Lon: &lon, RainfallMm: &rain})
		require.NoError(t, err)
		assert.Equal(t, 0.0, seen.RainfallMm)
		assert.False(t, res.MonsoonMode)
	})

	t.Run("provider failure degrades to defaults", func(t *testing.T) {
		failing := weatherFunc(func(context.Context, float64, float64) (weather.Observation, error) {
			return weather.Observation{}, errors.New("upstream down")
		})
		eng := newTestEngine(t, nil, capture, failing)
		fixClock(eng, 14)
		res, err := eng.Predict(context.Background(), model.PredictionRequest{Lat: &lat, Lon: &lon})
		require.NoError(t, err)
		assert.Equal(t, 0.0, seen.RainfallMm)
		assert.Equal(t, float64(DefaultVisibilityM), seen.VisibilityM)
		assert.False(t, res.MonsoonMode)
	})
}

func TestPredict_DefaultsApplied(t *testing.T) {
	var seen features.FeatureVector
	capture := prediction.ModelFunc(func(_ context.Context, fv features.FeatureVector) (float64, error) {
		seen = fv
		return 0, nil
	})
	eng := newTestEngine(t, nil, capture, nil)
	fixClock(eng, 14)
	_, err := eng.Predict(context.Background(), model.PredictionRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPortName, seen.PortName)
	assert.Equal(t, DefaultState, seen.State)
	assert.Equal(t, DefaultDistrict, seen.District)
	assert.Equal(t, float64(DefaultVisibilityM), seen.VisibilityM)
	assert.Equal(t, float64(GateHealthBaseline), seen.GateHealth)
	assert.Equal(t, 0.0, seen.DayOfWeek) // Monday
}

func TestMondayIndexed(t *testing.T) {
	assert.Equal(t, 0, mondayIndexed(time.Monday))
	assert.Equal(t, 5, mondayIndexed(time.Saturday))
	assert.Equal(t, 6, mondayIndexed(time.Sunday))
}

type weatherFunc func(context.Context, float64, float64) (weather.Observation, error)

func (f weatherFunc) Current(ctx context.Context, lat, lon float64) (weather.Observation, error) {
	return f(ctx, lat, lon)
}
