package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/portpulse/portpulse/core/metrics"
)

// PromSink records prediction and fleet events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	waitHist    prometheus.Histogram
	updates     *prometheus.CounterVec
	fleet       prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The Prometheus server is started separately on cfg.PrometheusAddr.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	_ = cfg
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_predictions_total",
		Help: "Total number of served wait-time predictions",
	}, []string{"port", "traffic_level", "monsoon"})
	waitHist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gate_predicted_wait_minutes",
		Help:    "Distribution of predicted gate wait in minutes",
		Buckets: []float64{15, 30, 45, 60, 90, 120, 180, 240},
	})
	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_position_updates_total",
		Help: "Total number of ingested fleet position reports",
	}, []string{"source"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_active_trucks",
		Help: "Number of trucks currently live in the fleet registry",
	})

	if err := reg.Register(predictions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			predictions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(waitHist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			waitHist = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(updates); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			updates = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{predictions: predictions, waitHist: waitHist, updates: updates, fleet: fleet}, nil
}

// RecordPrediction increments the prediction counter and observes the wait.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.Port, ev.Level.String(), strconv.FormatBool(ev.Monsoon)).Inc()
	s.waitHist.Observe(float64(ev.WaitMinutes))
	s.fleet.Set(float64(ev.FleetCount))
	return nil
}

// RecordFleetUpdate increments the position update counter.
func (s *PromSink) RecordFleetUpdate(ev coremetrics.FleetUpdateEvent) error {
	s.updates.WithLabelValues(ev.Source).Inc()
	s.fleet.Set(float64(ev.Active))
	return nil
}

// RecordFleetSize sets the live fleet gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}
