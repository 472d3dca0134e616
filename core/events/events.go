// Package events declares the records published on the internal event bus.
package events

import (
	"time"

	"github.com/portpulse/portpulse/core/model"
)

// PredictionCompleted is published after every successful fusion pass.
type PredictionCompleted struct {
	ID          string
	Port        string
	Level       model.TrafficLevel
	WaitMinutes int
	Monsoon     bool
	FleetCount  int
	Time        time.Time
}

// FleetUpdated is published when a position report lands in the registry.
type FleetUpdated struct {
	TruckID     string
	Source      string
	ActiveCount int
	Time        time.Time
}
