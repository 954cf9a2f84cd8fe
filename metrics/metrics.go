// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jongio/psnap/procscan"
)

// Recorder holds the gauges for a single psnap run.
// Each Recorder owns its registry so runs never share state.
type Recorder struct {
	registry *prometheus.Registry

	discovered     prometheus.Gauge
	reported       prometheus.Gauge
	skipped        *prometheus.GaugeVec
	malformedLines prometheus.Gauge
	duration       prometheus.Gauge
	success        prometheus.Gauge
	lastRun        prometheus.Gauge
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		discovered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "psnap_processes_discovered",
			Help: "Process directories found during the last scan",
		}),
		reported: factory.NewGauge(prometheus.GaugeOpts{
			Name: "psnap_processes_reported",
			Help: "Processes written to the report during the last scan",
		}),
		skipped: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "psnap_processes_skipped",
			Help: "Processes left out of the last report, by reason",
		}, []string{"reason"}),
		malformedLines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "psnap_status_malformed_lines",
			Help: "Recognized status lines whose value could not be used",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "psnap_scan_duration_seconds",
			Help: "Wall time of the last scan in seconds",
		}),
		success: factory.NewGauge(prometheus.GaugeOpts{
			Name: "psnap_scan_success",
			Help: "Whether the last scan completed (1) or failed (0)",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "psnap_last_run_timestamp_seconds",
			Help: "Unix time at which the last scan finished",
		}),
	}
}

// Observe records the statistics of a completed scan.
func (r *Recorder) Observe(stats procscan.Stats) {
	r.discovered.Set(float64(stats.Discovered))
	r.reported.Set(float64(stats.Reported))
	r.skipped.With(prometheus.Labels{"reason": "vanished"}).Set(float64(stats.Vanished))
	r.skipped.With(prometheus.Labels{"reason": "unreadable"}).Set(float64(stats.Unreadable))
	r.malformedLines.Set(float64(stats.MalformedLines))
	r.duration.Set(stats.Duration.Seconds())
	r.success.Set(1)
	r.lastRun.SetToCurrentTime()
}

// ObserveFailure records a scan that aborted. Partial statistics are kept.
func (r *Recorder) ObserveFailure(stats procscan.Stats) {
	r.Observe(stats)
	r.success.Set(0)
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile atomically writes the current values to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
