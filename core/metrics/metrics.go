package metrics

import (
	"time"

	"github.com/portpulse/portpulse/core/model"
)

// PredictionEvent records one served wait-time estimate.
type PredictionEvent struct {
	ID          string
	Port        string
	Level       model.TrafficLevel
	WaitMinutes int
	Monsoon     bool
	FleetCount  int
	Latency     time.Duration
	Time        time.Time
}

// Sink records prediction events for observability purposes.
type Sink interface {
	RecordPrediction(ev PredictionEvent) error
}

// FleetUpdateEvent records the ingestion of a single position report.
type FleetUpdateEvent struct {
	TruckID string
	Source  string
	Active  int
	Time    time.Time
}

// FleetUpdateRecorder records position report ingestion.
type FleetUpdateRecorder interface {
	RecordFleetUpdate(ev FleetUpdateEvent) error
}

// FleetSizeRecorder records the live registry size.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordPrediction discards the event.
func (NopSink) RecordPrediction(PredictionEvent) error { return nil }

// RecordFleetUpdate discards the event.
func (NopSink) RecordFleetUpdate(FleetUpdateEvent) error { return nil }

// RecordFleetSize discards the value.
func (NopSink) RecordFleetSize(int) error { return nil }
