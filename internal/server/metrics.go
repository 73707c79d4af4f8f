package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/model"
)

// Metrics holds the server's Prometheus collectors on a private registry, so
// several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	lintRuns     *prometheus.CounterVec
	diagnostics  *prometheus.CounterVec
	lintDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lintRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowlint",
				Subsystem: "lint",
				Name:      "runs_total",
				Help:      "Lint runs by mode and outcome.",
			}, []string{"mode", "result"}),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowlint",
				Subsystem: "lint",
				Name:      "diagnostics_total",
				Help:      "Diagnostics reported, by code and severity.",
			}, []string{"code", "severity"}),
		lintDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "flowlint",
				Subsystem: "lint",
				Name:      "duration_seconds",
				Help:      "Time spent linting one graph.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			}, []string{"mode"}),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowlint",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method and status code.",
			}, []string{"method", "code"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.lintRuns,
		m.diagnostics,
		m.lintDuration,
		m.httpRequests,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeLint(mode lint.Mode, diags []model.Diagnostic, took time.Duration) {
	result := "valid"
	for _, d := range diags {
		m.diagnostics.WithLabelValues(string(d.Code), string(d.Severity)).Inc()
		if d.IsError() {
			result = "invalid"
		}
	}
	m.lintRuns.WithLabelValues(string(mode), result).Inc()
	m.lintDuration.WithLabelValues(string(mode)).Observe(took.Seconds())
}

func (m *Metrics) observeRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
