package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portpulse/portpulse/app"
	"github.com/portpulse/portpulse/config"
	"github.com/portpulse/portpulse/core/model"
)

var predictFlags struct {
	port     string
	state    string
	district string
	rain     float64
	vis      float64
	density  float64
	lat      float64
	lon      float64
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a one-shot gate wait prediction and print the result",
	RunE:  runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&predictFlags.port, "port", "", "port name")
	f.StringVar(&predictFlags.state, "state", "", "state")
	f.StringVar(&predictFlags.district, "district", "", "district")
	f.Float64Var(&predictFlags.rain, "rain", -1, "hourly rainfall in mm")
	f.Float64Var(&predictFlags.vis, "visibility", -1, "visibility in metres")
	f.Float64Var(&predictFlags.density, "density", -1, "local truck density")
	f.Float64Var(&predictFlags.lat, "lat", 0, "latitude")
	f.Float64Var(&predictFlags.lon, "lon", 0, "longitude")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// One-shot invocation, no ingest or metrics endpoints needed.
	cfg.MQTT.Enabled = false
	cfg.Metrics.PrometheusEnabled = false
	cfg.Metrics.InfluxEnabled = false

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	req := model.PredictionRequest{
		PortName: predictFlags.port,
		State:    predictFlags.state,
		District: predictFlags.district,
	}
	if predictFlags.rain >= 0 {
		req.RainfallMm = &predictFlags.rain
	}
	if predictFlags.vis >= 0 {
		req.VisibilityM = &predictFlags.vis
	}
	if predictFlags.density >= 0 {
		req.TruckDensity = &predictFlags.density
	}
	if cmd.Flags().Changed("lat") {
		req.Lat = &predictFlags.lat
	}
	if cmd.Flags().Changed("lon") {
		req.Lon = &predictFlags.lon
	}

	res, err := svc.Engine.Predict(context.Background(), req)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
