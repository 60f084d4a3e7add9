// Package metrics exposes calculator and HTTP counters in Prometheus format.
package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/pocketcalc/internal/calculator"
)

// Namespace prefixes every metric name.
const Namespace = "pocketcalc"

// Metrics owns a private registry, so several instances can coexist.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	events         *prometheus.CounterVec
	errors         *prometheus.CounterVec
	requests       *prometheus.CounterVec
	activeRequests prometheus.Gauge
	evalDuration   prometheus.Histogram
}

var _ calculator.Observer = (*Metrics)(nil)

// New creates the collectors and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_total",
			Help:      "Keypad events processed by calculator machines, by kind.",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Calculator events that failed or were ignored, by reason.",
		}, []string{"reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently in flight.",
		}),
		evalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating a key sequence over HTTP.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	m.registry.MustRegister(
		m.events, m.errors, m.requests, m.activeRequests, m.evalDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Observe implements calculator.Observer.
func (m *Metrics) Observe(t calculator.Transition) {
	m.events.WithLabelValues(t.Event.Kind.String()).Inc()
	switch {
	case t.Ignored:
		m.errors.WithLabelValues("ignored").Inc()
	case errors.Is(t.Err, calculator.ErrDivisionByZero):
		m.errors.WithLabelValues("division_by_zero").Inc()
	case errors.Is(t.Err, calculator.ErrParse):
		m.errors.WithLabelValues("parse").Inc()
	case t.Err != nil:
		m.errors.WithLabelValues("invalid_input").Inc()
	}
}

// IncrementActiveRequests marks the start of an HTTP request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of an HTTP request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a finished HTTP request.
func (m *Metrics) ObserveRequest(path string, code int) {
	m.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// ObserveEvaluation records how long an HTTP evaluation took, in seconds.
func (m *Metrics) ObserveEvaluation(seconds float64) {
	m.evalDuration.Observe(seconds)
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
