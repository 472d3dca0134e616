// Package fusion fuses the wait-time regression model with live fleet
// density and the rule-based congestion heuristics: risk tiering, demurrage
// estimation and three-segment route coloring.
package fusion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portpulse/portpulse/core/demurrage"
	"github.com/portpulse/portpulse/core/events"
	"github.com/portpulse/portpulse/core/features"
	"github.com/portpulse/portpulse/core/fleet"
	"github.com/portpulse/portpulse/core/logger"
	"github.com/portpulse/portpulse/core/metrics"
	"github.com/portpulse/portpulse/core/model"
	"github.com/portpulse/portpulse/core/prediction"
	"github.com/portpulse/portpulse/core/weather"
	"github.com/portpulse/portpulse/internal/eventbus"
)

// Engine resolves prediction requests against the registry, the model and
// the optional weather provider.
type Engine struct {
	registry fleet.Registry
	model    prediction.WaitModel
	weather  weather.Provider
	tariff   demurrage.Tariff
	cfg      Config
	log      logger.Logger
	sink     metrics.Sink
	bus      eventbus.EventBus
	now      func() time.Time
}

// New creates an Engine. The registry and logger must be non-nil; the model,
// weather provider, sink and bus are optional. A nil model makes every
// prediction fail with prediction.ErrModelUnavailable.
func New(registry fleet.Registry, mdl prediction.WaitModel, wp weather.Provider, tariff demurrage.Tariff, cfg Config, log logger.Logger, sink metrics.Sink, bus eventbus.EventBus) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("fusion: nil registry")
	}
	if log == nil {
		return nil, fmt.Errorf("fusion: nil logger")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("fusion: %w", err)
	}
	tariff.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		registry: registry,
		model:    mdl,
		weather:  wp,
		tariff:   tariff,
		cfg:      cfg,
		log:      log,
		sink:     sink,
		bus:      bus,
		now:      time.Now,
	}, nil
}

// Predict resolves the request context, invokes the model and derives the
// risk tier, demurrage estimate and segment coloring.
func (e *Engine) Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResult, error) {
	start := e.now()
	if e.model == nil {
		return model.PredictionResult{}, prediction.ErrModelUnavailable
	}

	pctx, active := e.resolveContext(ctx, req)
	fv := features.Build(pctx)

	mctx := ctx
	if e.cfg.ModelTimeoutMS > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.ModelTimeoutMS)*time.Millisecond)
		defer cancel()
	}
	seconds, err := e.model.Predict(mctx, fv)
	if err != nil {
		e.log.Errorf("model predict: %v", err)
		return model.PredictionResult{}, fmt.Errorf("model predict: %w", err)
	}

	// Floor division; the regressor target is non-negative seconds.
	waitMinutes := int(seconds / 60)

	res := model.PredictionResult{
		WaitMinutes:      waitMinutes,
		DemurrageUSD:     e.tariff.Cost(waitMinutes),
		TrafficLevel:     e.classify(waitMinutes),
		ActiveFleetCount: active,
		MonsoonMode:      pctx.IsMonsoon,
		TrafficSegments:  e.segments(waitMinutes, pctx),
	}

	ev := metrics.PredictionEvent{
		ID:          uuid.NewString(),
		Port:        pctx.PortName,
		Level:       res.TrafficLevel,
		WaitMinutes: waitMinutes,
		Monsoon:     res.MonsoonMode,
		FleetCount:  active,
		Latency:     e.now().Sub(start),
		Time:        e.now(),
	}
	if err := e.sink.RecordPrediction(ev); err != nil {
		e.log.Errorf("prediction metrics: %v", err)
	}
	if e.bus != nil {
		e.bus.Publish(events.PredictionCompleted{
			ID:          ev.ID,
			Port:        ev.Port,
			Level:       ev.Level,
			WaitMinutes: ev.WaitMinutes,
			Monsoon:     ev.Monsoon,
			FleetCount:  ev.FleetCount,
			Time:        ev.Time,
		})
	}
	e.log.Debugw("prediction served", map[string]any{
		"port":         pctx.PortName,
		"wait_minutes": waitMinutes,
		"level":        res.TrafficLevel.String(),
		"fleet":        active,
		"monsoon":      res.MonsoonMode,
	})
	return res, nil
}

// resolveContext fills defaults, consults the weather provider when the
// caller gave coordinates but no rainfall, and picks the effective truck
// density. It returns the resolved context and the raw live fleet count.
func (e *Engine) resolveContext(ctx context.Context, req model.PredictionRequest) (model.PredictionContext, int) {
	now := e.now()
	active := e.registry.ActiveCount()

	pc := model.PredictionContext{
		PortName:    DefaultPortName,
		State:       DefaultState,
		District:    DefaultDistrict,
		Hour:        now.Hour(),
		DayOfWeek:   mondayIndexed(now.Weekday()),
		VisibilityM: DefaultVisibilityM,
		GateHealth:  GateHealthBaseline,
	}
	if req.PortName != "" {
		pc.PortName = req.PortName
	}
	if req.State != "" {
		pc.State = req.State
	}
	if req.District != "" {
		pc.District = req.District
	}

	switch {
	case req.RainfallMm != nil:
		pc.RainfallMm = *req.RainfallMm
	case e.weather != nil && req.Lat != nil && req.Lon != nil:
		obs, err := e.weather.Current(ctx, *req.Lat, *req.Lon)
		if err != nil {
			// Advisory input only; a failed lookup degrades to defaults.
			e.log.Warnf("weather lookup: %v", err)
		} else {
			pc.RainfallMm = obs.RainfallMm
			if obs.VisibilityM > 0 {
				pc.VisibilityM = obs.VisibilityM
			}
		}
	}
	if req.VisibilityM != nil {
		pc.VisibilityM = *req.VisibilityM
	}

	pc.TruckDensity = DefaultTruckDensity
	if req.TruckDensity != nil {
		pc.TruckDensity = *req.TruckDensity
	}
	if active >= MinLiveReporters {
		// Below the cutoff a handful of live reporters is statistically too
		// thin as a density signal; the caller-supplied value wins.
		pc.TruckDensity = float64(active)
	}

	pc.IsMonsoon = pc.RainfallMm > MonsoonRainMm
	return pc, active
}

// mondayIndexed converts Go's Sunday-first weekday to the Monday=0 indexing
// the model was trained on.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func (e *Engine) classify(waitMinutes int) model.TrafficLevel {
	switch {
	case waitMinutes > e.cfg.CriticalOverMin:
		return model.TrafficCritical
	case waitMinutes > e.cfg.HighOverMin:
		return model.TrafficHigh
	case waitMinutes > e.cfg.ModerateOverMin:
		return model.TrafficModerate
	default:
		return model.TrafficLow
	}
}

// segments paints the three route legs: highway, city approach, port gate.
func (e *Engine) segments(waitMinutes int, pc model.PredictionContext) []model.TrafficSegment {
	highway := ColorGreen
	if pc.IsMonsoon {
		highway = ColorAmber
	}

	city := ColorGreen
	if e.isPeakHour(pc.Hour) {
		city = ColorAmber
	}
	if pc.IsMonsoon {
		// Flood risk on the approach outranks peak-hour coloring.
		city = ColorRed
	}

	// The gate leg is never green; even a quiet gate queues.
	gate := ColorAmber
	switch {
	case waitMinutes > e.cfg.GateCriticalOverMin:
		gate = ColorDeepRed
	case waitMinutes > e.cfg.GateRedOverMin:
		gate = ColorRed
	}

	return []model.TrafficSegment{
		{Color: highway, Description: "Highway: Moving Well"},
		{Color: city, Description: "City Approach: Moderate"},
		{Color: gate, Description: fmt.Sprintf("Port Gate: %d min wait", waitMinutes)},
	}
}

func (e *Engine) isPeakHour(hour int) bool {
	return (hour >= e.cfg.PeakMorningStart && hour <= e.cfg.PeakMorningEnd) ||
		(hour >= e.cfg.PeakEveningStart && hour <= e.cfg.PeakEveningEnd)
}
