package metrics

import coremetrics "github.com/portpulse/portpulse/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetUpdate forwards the event to sinks that support it.
func (m *MultiSink) RecordFleetUpdate(ev coremetrics.FleetUpdateEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FleetUpdateRecorder); ok {
			if err := rec.RecordFleetUpdate(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSize forwards the value to sinks that support it.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := rec.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
