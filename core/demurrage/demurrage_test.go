package demurrage

import "testing"

func TestTariff_Cost(t *testing.T) {
	tariff := DefaultTariff
	cases := []struct {
		name        string
		waitMinutes int
		want        float64
	}{
		{"zero wait", 0, 0},
		{"exactly free window", 60, 0},
		{"one minute over", 61, 0.83},
		{"half hour over", 90, 25.0},
		{"two hours over", 180, 100.0},
		{"negative wait", -15, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tariff.Cost(tc.waitMinutes); got != tc.want {
				t.Fatalf("Cost(%d) = %v, want %v", tc.waitMinutes, got, tc.want)
			}
		})
	}
}

func TestTariff_CustomRate(t *testing.T) {
	tariff := Tariff{FreeMinutes: 30, RatePerHourUSD: 80}
	if got := tariff.Cost(90); got != 80.0 {
		t.Fatalf("Cost(90) = %v, want 80", got)
	}
}

func TestTariff_SetDefaults(t *testing.T) {
	var tariff Tariff
	tariff.SetDefaults()
	if tariff != DefaultTariff {
		t.Fatalf("defaults not applied: %#v", tariff)
	}
	custom := Tariff{FreeMinutes: 30, RatePerHourUSD: 80}
	custom.SetDefaults()
	if custom.FreeMinutes != 30 || custom.RatePerHourUSD != 80 {
		t.Fatalf("defaults clobbered custom tariff: %#v", custom)
	}
}
