// Package mqtt ingests peer-reported truck positions from an MQTT broker
// into the fleet registry.
package mqtt

import (
	"context"
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/portpulse/portpulse/core/events"
	"github.com/portpulse/portpulse/core/fleet"
	"github.com/portpulse/portpulse/infra/logger"
	"github.com/portpulse/portpulse/internal/eventbus"
)

// positionPayload is the wire shape of a single position report.
type positionPayload struct {
	TruckID string  `json:"truck_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Heading float64 `json:"heading"`
}

// PositionIngestor subscribes to the fleet position topic and feeds reports
// into the registry.
type PositionIngestor struct {
	cli   pahoClient
	topic string
	qos   byte
	reg   fleet.Registry
	bus   eventbus.EventBus
	log   logger.Logger
}

// NewPositionIngestor connects to the broker and returns an ingestor.
func NewPositionIngestor(cfg Config, reg fleet.Registry, bus eventbus.EventBus) (*PositionIngestor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	ing := &PositionIngestor{
		topic: cfg.PositionTopic,
		qos:   cfg.QoS,
		reg:   reg,
		bus:   bus,
		log:   logger.New("position_ingestor"),
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		ing.log.Errorf("connection lost: %v", err)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	ing.cli = cli
	return ing, nil
}

// Start subscribes to the position topic and processes reports until the
// context is canceled.
func (i *PositionIngestor) Start(ctx context.Context) error {
	if token := i.cli.Subscribe(i.topic, i.qos, i.handle); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	i.log.Infof("subscribed to %s", i.topic)
	<-ctx.Done()
	if token := i.cli.Unsubscribe(i.topic); token.Wait() && token.Error() != nil {
		i.log.Errorf("unsubscribe error: %v", token.Error())
	}
	i.cli.Disconnect(250)
	return nil
}

func (i *PositionIngestor) handle(_ paho.Client, msg paho.Message) {
	var rep positionPayload
	if err := json.Unmarshal(msg.Payload(), &rep); err != nil {
		i.log.Errorf("invalid position payload: %v", err)
		return
	}
	active := i.reg.Upsert(rep.TruckID, rep.Lat, rep.Lon, rep.Heading)
	i.log.Debugw("position ingested", map[string]any{
		"truck_id": rep.TruckID,
		"active":   active,
	})
	if i.bus != nil {
		i.bus.Publish(events.FleetUpdated{
			TruckID:     rep.TruckID,
			Source:      "mqtt",
			ActiveCount: active,
			Time:        time.Now(),
		})
	}
}
