// Package config loads and validates the service configuration from a YAML
// or JSON file, with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/portpulse/portpulse/core/demurrage"
	"github.com/portpulse/portpulse/core/fusion"
	"github.com/portpulse/portpulse/core/metrics"
	"github.com/portpulse/portpulse/infra/mqtt"
	"github.com/portpulse/portpulse/infra/weather"
)

type Config struct {
	HTTP      HTTPConfig       `json:"http"`
	MQTT      mqtt.Config      `json:"mqtt"`
	Model     ModelConfig      `json:"model"`
	Fleet     FleetConfig      `json:"fleet"`
	Fusion    fusion.Config    `json:"fusion"`
	Demurrage demurrage.Tariff `json:"demurrage"`
	Weather   weather.Config   `json:"weather"`
	Metrics   metrics.Config   `json:"metrics"`
}

// HTTPConfig parameterises the REST listener.
type HTTPConfig struct {
	Address string `json:"address"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8000"
	}
}

// ModelConfig locates the trained wait-time artifact. An empty path leaves
// the model unloaded and predictions answer with an error.
type ModelConfig struct {
	Path string `json:"path"`
}

// FleetConfig tunes the peer registry.
type FleetConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
}

func (c *FleetConfig) SetDefaults() {
	if c.TTLSeconds == 0 {
		c.TTLSeconds = 300
	}
}

func (c FleetConfig) Validate() error {
	if c.TTLSeconds < 0 {
		return fmt.Errorf("fleet: ttl_seconds must not be negative")
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.Fusion.SetDefaults()
	cfg.Demurrage.SetDefaults()
	cfg.Weather.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Fusion.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Weather.Validate(); err != nil {
		return nil, err
	}
	if cfg.MQTT.Enabled {
		if err := cfg.MQTT.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
