package model

import (
	"encoding/json"
	"fmt"
)

// TrafficLevel summarises gate congestion from free-flowing to saturated.
type TrafficLevel int

const (
	TrafficLow TrafficLevel = iota
	TrafficModerate
	TrafficHigh
	TrafficCritical
)

// String returns the wire representation of the level.
func (l TrafficLevel) String() string {
	switch l {
	case TrafficLow:
		return "LOW"
	case TrafficModerate:
		return "MODERATE"
	case TrafficHigh:
		return "HIGH"
	case TrafficCritical:
		return "CRITICAL"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the level as its string form.
func (l TrafficLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes the string form back into a level.
func (l *TrafficLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "LOW":
		*l = TrafficLow
	case "MODERATE":
		*l = TrafficModerate
	case "HIGH":
		*l = TrafficHigh
	case "CRITICAL":
		*l = TrafficCritical
	default:
		return fmt.Errorf("unknown traffic level %q", s)
	}
	return nil
}

// TrafficSegment is one colored leg of the approach route.
type TrafficSegment struct {
	Color       string `json:"color"`
	Description string `json:"description"`
}
