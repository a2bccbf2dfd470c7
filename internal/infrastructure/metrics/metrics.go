// Package metrics exposes Prometheus collectors for the HTTP server and the
// /metrics scrape endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pdv"

// Registry holds the application collectors on a private registry so tests
// can build as many as they need.
type Registry struct {
	registry     *prometheus.Registry
	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRegistry registers the HTTP collectors plus the Go runtime and process collectors
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		r.httpInFlight,
		r.httpRequests,
		r.httpDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RequestStarted bumps the in-flight gauge and returns the matching decrement
func (r *Registry) RequestStarted() func() {
	r.httpInFlight.Inc()
	return r.httpInFlight.Dec
}

// ObserveRequest records a finished request. route must be the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (r *Registry) ObserveRequest(method, route, status string, seconds float64) {
	r.httpRequests.WithLabelValues(method, route, status).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// RegisterGaugeFunc exposes a value sampled at scrape time, such as the
// number of pending audit writes.
func (r *Registry) RegisterGaugeFunc(subsystem, name, help string, fn func() float64) error {
	return r.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn))
}

// Gatherer exposes the underlying registry for tests and custom handlers
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
