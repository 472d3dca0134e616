// Package app wires the configuration into a running prediction service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apifleet "github.com/portpulse/portpulse/api/fleet"
	apipredict "github.com/portpulse/portpulse/api/predict"
	apiweather "github.com/portpulse/portpulse/api/weather"
	"github.com/portpulse/portpulse/config"
	"github.com/portpulse/portpulse/core/fleet"
	"github.com/portpulse/portpulse/core/fusion"
	coremetrics "github.com/portpulse/portpulse/core/metrics"
	"github.com/portpulse/portpulse/core/prediction"
	"github.com/portpulse/portpulse/infra/logger"
	"github.com/portpulse/portpulse/infra/metrics"
	"github.com/portpulse/portpulse/infra/mqtt"
	"github.com/portpulse/portpulse/infra/regression"
	"github.com/portpulse/portpulse/infra/weather"
	"github.com/portpulse/portpulse/internal/eventbus"
)

// Service orchestrates the fusion engine, the REST API and the ingest paths.
type Service struct {
	Engine   *fusion.Engine
	Registry fleet.Registry

	server      *http.Server
	ingestor    *mqtt.PositionIngestor
	bus         eventbus.EventBus
	sink        coremetrics.Sink
	log         logger.Logger
	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	registry := fleet.NewMemoryRegistry(time.Duration(cfg.Fleet.TTLSeconds) * time.Second)

	var mdl prediction.WaitModel
	if cfg.Model.Path != "" {
		loaded, err := regression.Load(cfg.Model.Path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		mdl = loaded
	} else {
		logg.Warnf("no model path configured, predictions will be refused")
	}

	provider, err := weather.NewProvider(cfg.Weather)
	if err != nil {
		return nil, fmt.Errorf("weather provider: %w", err)
	}

	engine, err := fusion.New(registry, mdl, provider, cfg.Demurrage, cfg.Fusion, logger.New("fusion"), sink, bus)
	if err != nil {
		return nil, fmt.Errorf("fusion engine: %w", err)
	}

	svc := &Service{
		Engine:      engine,
		Registry:    registry,
		bus:         bus,
		sink:        sink,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
	}

	if cfg.MQTT.Enabled {
		ingestor, err := mqtt.NewPositionIngestor(cfg.MQTT, registry, bus)
		if err != nil {
			return nil, fmt.Errorf("position ingestor: %w", err)
		}
		svc.ingestor = ingestor
	}

	mux := http.NewServeMux()
	mux.Handle("/predict", apipredict.NewHandler(engine, logger.New("api")))
	mux.Handle("/update_location", apifleet.NewUpdateHandler(registry, bus, logger.New("api")))
	mux.Handle("/fleet/active", apifleet.NewActiveHandler(registry, logger.New("api")))
	mux.Handle("/weather", apiweather.NewHandler(provider, logger.New("api")))
	svc.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.ingestor != nil {
		go func() {
			if err := s.ingestor.Start(ctx); err != nil {
				s.log.Errorf("mqtt ingestor: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
