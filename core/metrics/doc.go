// Package metrics declares the sink interfaces and event records used to
// observe predictions and fleet activity. Concrete sinks live in
// infra/metrics.
package metrics
