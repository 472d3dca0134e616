// Package demurrage estimates the financial penalty a truck accrues once its
// gate wait exceeds the contractually free waiting window.
package demurrage

import "math"

// Tariff describes the free waiting window and the overtime rate.
type Tariff struct {
	FreeMinutes    int     `json:"free_minutes"`
	RatePerHourUSD float64 `json:"rate_per_hour_usd"`
}

// DefaultTariff is the standard gate contract: one free hour, then $50/h.
var DefaultTariff = Tariff{FreeMinutes: 60, RatePerHourUSD: 50}

// SetDefaults fills zero fields from DefaultTariff.
func (t *Tariff) SetDefaults() {
	if t.FreeMinutes == 0 {
		t.FreeMinutes = DefaultTariff.FreeMinutes
	}
	if t.RatePerHourUSD == 0 {
		t.RatePerHourUSD = DefaultTariff.RatePerHourUSD
	}
}

// Cost returns the demurrage estimate in USD for the given wait, rounded to
// cents. Waits inside the free window cost nothing; negative waits fall out
// of the same comparison.
func (t Tariff) Cost(waitMinutes int) float64 {
	if waitMinutes <= t.FreeMinutes {
		return 0
	}
	overtime := float64(waitMinutes - t.FreeMinutes)
	return math.Round(overtime/60*t.RatePerHourUSD*100) / 100
}
