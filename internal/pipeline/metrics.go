// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts stage calls on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the stage collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplot_stage_requests_total",
			Help: "Stage calls by outcome.",
		}, []string{"stage", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wellplot_stage_duration_seconds",
			Help:    "Wall time of stage calls against the analysis service.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// Registry exposes the collectors for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observe(stage Stage, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(stage), outcome).Inc()
	if outcome != outcomePrecondition && outcome != outcomeSkipped {
		m.duration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
	}
}
