// Package metrics defines the Prometheus metric collectors used across the
// gateway and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the gateway.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	EngineRequestsTotal   *prometheus.CounterVec
	EngineRequestDuration *prometheus.HistogramVec
	EngineState           prometheus.Gauge
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
	PayloadBytes          prometheus.Histogram
}

// New creates all collectors and registers them with reg. Tests pass a
// private registry to avoid duplicate-registration panics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		EngineRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_requests_total",
				Help: "Total calls to the document engine by operation and outcome (ok, error_status, timeout, unavailable).",
			},
			[]string{"operation", "outcome"},
		),
		EngineRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_request_duration_seconds",
				Help:    "Document engine call latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		EngineState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_state",
				Help: "Document engine readiness state (0=starting, 1=ready, 2=failed).",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of result cache misses.",
			},
		),
		PayloadBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "document_payload_bytes",
				Help:    "Size of accepted document payloads in bytes.",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.EngineRequestsTotal,
		m.EngineRequestDuration,
		m.EngineState,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.PayloadBytes,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for the default
// registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
