package metrics

import (
	"context"
	"time"

	"github.com/portpulse/portpulse/core/events"
	coremetrics "github.com/portpulse/portpulse/core/metrics"
	"github.com/portpulse/portpulse/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// fleet events. Prediction events are recorded by the fusion engine itself,
// so only fleet updates are consumed here to avoid double counting. The
// collector stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.FleetUpdated); ok {
					if rec, ok := sink.(coremetrics.FleetUpdateRecorder); ok {
						_ = rec.RecordFleetUpdate(coremetrics.FleetUpdateEvent{
							TruckID: e.TruckID,
							Source:  e.Source,
							Active:  e.ActiveCount,
							Time:    time.Now(),
						})
					}
					if rec, ok := sink.(coremetrics.FleetSizeRecorder); ok {
						_ = rec.RecordFleetSize(e.ActiveCount)
					}
				}
			}
		}
	}()
}
