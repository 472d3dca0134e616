package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"github.com/portpulse/portpulse/config"
	"github.com/portpulse/portpulse/infra/mqtt"
)

var reportFlags struct {
	truckID string
	lat     float64
	lon     float64
	heading float64
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Publish a single truck position to the fleet topic",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.truckID, "truck-id", "", "truck identifier")
	f.Float64Var(&reportFlags.lat, "lat", 0, "latitude")
	f.Float64Var(&reportFlags.lon, "lon", 0, "longitude")
	f.Float64Var(&reportFlags.heading, "heading", 0, "heading in degrees")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt broker is not configured")
	}
	opts, err := mqtt.NewClientOptions(cfg.MQTT)
	if err != nil {
		return err
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect: %w", token.Error())
	}
	defer cli.Disconnect(250)

	payload, err := json.Marshal(map[string]any{
		"truck_id": reportFlags.truckID,
		"lat":      reportFlags.lat,
		"lon":      reportFlags.lon,
		"heading":  reportFlags.heading,
	})
	if err != nil {
		return err
	}
	// Publish on the concrete per-truck topic matching the subscription
	// wildcard.
	topic := strings.Replace(cfg.MQTT.PositionTopic, "+", reportFlags.truckID, 1)
	if reportFlags.truckID == "" {
		topic = strings.Replace(cfg.MQTT.PositionTopic, "+", "anonymous", 1)
	}
	if token := cli.Publish(topic, cfg.MQTT.QoS, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish: %w", token.Error())
	}
	cmd.Printf("position published to %s\n", topic)
	return nil
}
