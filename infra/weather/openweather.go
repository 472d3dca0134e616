// Package weather provides the HTTP weather provider and the provider
// factory used during service wiring.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	coreweather "github.com/portpulse/portpulse/core/weather"
	"github.com/portpulse/portpulse/infra/logger"
)

// Config selects and parameterises the weather provider.
type Config struct {
	// Mode is "mock" or "http".
	Mode      string `json:"mode"`
	URL       string `json:"url"`
	APIKey    string `json:"api_key"`
	TimeoutMS int    `json:"timeout_ms"`
	// MockRainy forces monsoon conditions from the mock provider.
	MockRainy bool `json:"mock_rainy"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "mock"
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = 5000
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Mode {
	case "mock":
		return nil
	case "http":
		if c.URL == "" {
			return fmt.Errorf("weather: url is required in http mode")
		}
		return nil
	default:
		return fmt.Errorf("weather: unknown mode %s", c.Mode)
	}
}

// NewProvider builds the provider selected by the configuration.
func NewProvider(cfg Config) (coreweather.Provider, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == "mock" {
		return coreweather.MockProvider{Rainy: cfg.MockRainy}, nil
	}
	return NewHTTPProvider(cfg), nil
}

// HTTPProvider queries an OpenWeather-compatible current-conditions endpoint.
type HTTPProvider struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewHTTPProvider creates a provider with a bounded HTTP client.
func NewHTTPProvider(cfg Config) *HTTPProvider {
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		log:    logger.New("weather"),
	}
}

// openWeatherResponse mirrors the subset of the OpenWeather payload the
// context resolver consumes.
type openWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Visibility float64 `json:"visibility"`
	Rain       struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Current fetches conditions near the coordinate.
func (p *HTTPProvider) Current(ctx context.Context, lat, lon float64) (coreweather.Observation, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	if p.cfg.APIKey != "" {
		q.Set("appid", p.cfg.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"?"+q.Encode(), nil)
	if err != nil {
		return coreweather.Observation{}, fmt.Errorf("weather: build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return coreweather.Observation{}, fmt.Errorf("weather: request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			p.log.Errorf("close response body: %v", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return coreweather.Observation{}, fmt.Errorf("weather: status %d", resp.StatusCode)
	}
	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return coreweather.Observation{}, fmt.Errorf("weather: decode: %w", err)
	}
	obs := coreweather.Observation{
		TempC:       body.Main.Temp,
		RainfallMm:  body.Rain.OneHour,
		VisibilityM: body.Visibility,
	}
	if len(body.Weather) > 0 {
		obs.Condition = body.Weather[0].Main
		obs.Description = body.Weather[0].Description
	}
	return obs, nil
}
