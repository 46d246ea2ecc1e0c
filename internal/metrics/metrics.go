// Package metrics holds the Prometheus collectors stoplens exports on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of one process. Every method is safe on a nil
// receiver so components can run without metrics in tests.
type Metrics struct {
	Registry *prometheus.Registry

	// TransitRequestDuration records latency of calls to the transit service.
	// endpoint: seek/vehicles/vehicleinfo/upload
	TransitRequestDuration *prometheus.HistogramVec

	// TransitRequestErrors counts failed transit calls.
	// kind: transport/status/decode
	TransitRequestErrors *prometheus.CounterVec

	// Polls counts controller fetches. trigger: mount/tick/manual, outcome: success/failed/stale
	Polls *prometheus.CounterVec

	// ActiveSessions is the number of open screen sessions.
	ActiveSessions prometheus.Gauge

	// APIRequests counts local API requests by route pattern and status code.
	APIRequests *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TransitRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stoplens_transit_request_duration_seconds",
				Help:    "Latency of requests to the transit data service.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		TransitRequestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stoplens_transit_request_errors_total",
				Help: "Total number of failed requests to the transit data service.",
			},
			[]string{"endpoint", "kind"},
		),
		Polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stoplens_polls_total",
				Help: "Total number of polling fetches by trigger and outcome.",
			},
			[]string{"trigger", "outcome"},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "stoplens_active_sessions",
				Help: "Number of open stop sessions.",
			},
		),
		APIRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stoplens_api_requests_total",
				Help: "Total number of local API requests.",
			},
			[]string{"route", "code"},
		),
	}

	m.Registry.MustRegister(
		m.TransitRequestDuration,
		m.TransitRequestErrors,
		m.Polls,
		m.ActiveSessions,
		m.APIRequests,
	)
	return m
}

func (m *Metrics) ObserveTransitRequest(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.TransitRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) TransitError(endpoint, kind string) {
	if m == nil {
		return
	}
	m.TransitRequestErrors.WithLabelValues(endpoint, kind).Inc()
}

func (m *Metrics) Poll(trigger, outcome string) {
	if m == nil {
		return
	}
	m.Polls.WithLabelValues(trigger, outcome).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

func (m *Metrics) APIRequest(route, code string) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(route, code).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
