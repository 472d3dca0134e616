package model

import "time"

// PositionReport is the last known position of a single reporting truck.
// LastUpdated is stamped by the registry at write time, never by the caller.
type PositionReport struct {
	TruckID     string    `json:"truck_id"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Heading     float64   `json:"heading"`
	LastUpdated time.Time `json:"last_updated"`
}
