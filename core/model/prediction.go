package model

// PredictionRequest carries the caller-supplied context for a gate wait
// estimate. Every field is optional; absent fields fall back to documented
// defaults during context resolution.
type PredictionRequest struct {
	PortName     string   `json:"port_name,omitempty"`
	State        string   `json:"state,omitempty"`
	District     string   `json:"district,omitempty"`
	RainfallMm   *float64 `json:"rain_1h,omitempty"`
	VisibilityM  *float64 `json:"visibility,omitempty"`
	TruckDensity *float64 `json:"truck_density,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lon          *float64 `json:"lon,omitempty"`
}

// PredictionContext is the fully resolved, request-scoped model input
// context. DayOfWeek is Monday-indexed (0=Mon .. 6=Sun) to match the
// training data.
type PredictionContext struct {
	PortName  string
	State     string
	District  string
	Hour      int
	DayOfWeek int

	RainfallMm   float64
	VisibilityM  float64
	TruckDensity float64
	GateHealth   float64
	IsMonsoon    bool
}

// PredictionResult is the fused output served back to the caller. The
// segments are ordered highway, city approach, port gate.
type PredictionResult struct {
	WaitMinutes      int              `json:"predicted_wait_minutes"`
	DemurrageUSD     float64          `json:"demurrage_risk_usd"`
	TrafficLevel     TrafficLevel     `json:"traffic_level"`
	ActiveFleetCount int              `json:"active_fleet_count"`
	MonsoonMode      bool             `json:"monsoon_mode"`
	TrafficSegments  []TrafficSegment `json:"traffic_segments"`
}
