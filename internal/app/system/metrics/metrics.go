// Package metrics exposes Prometheus counters for HTTP traffic and the case
// workflow. Each Metrics owns its registry so tests can build as many as
// they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nyay"

// Outcome labels for workflow counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected" // precondition failed, nothing written
	OutcomeConflict = "conflict" // lost a concurrent promotion
)

type Metrics struct {
	reg *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	promotions  *prometheus.CounterVec
	caseEvents  *prometheus.CounterVec
	grievEvents *prometheus.CounterVec
}

// New builds a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		promotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_promotions_total",
			Help:      "Case status promotion attempts by prior status and outcome.",
		}, []string{"from", "outcome"}),
		caseEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_events_total",
			Help:      "Case creations and document attachments.",
		}, []string{"event"}),
		grievEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grievance_events_total",
			Help:      "Grievances filed and resolved.",
		}, []string{"event"}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.promotions, m.caseEvents, m.grievEvents,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Promotion counts a promotion attempt. Nil-safe.
func (m *Metrics) Promotion(from models.CaseStatus, outcome string) {
	if m == nil {
		return
	}
	m.promotions.WithLabelValues(string(from), outcome).Inc()
}

// CaseEvent counts a case mutation ("created", "document_attached"). Nil-safe.
func (m *Metrics) CaseEvent(event string) {
	if m == nil {
		return
	}
	m.caseEvents.WithLabelValues(event).Inc()
}

// GrievanceEvent counts a grievance mutation ("created", "resolved"). Nil-safe.
func (m *Metrics) GrievanceEvent(event string) {
	if m == nil {
		return
	}
	m.grievEvents.WithLabelValues(event).Inc()
}

// Instrument records request counts, latencies, and in-flight requests.
// The route label is chi's matched pattern so ids do not explode cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(sw.code)
		m.httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// statusWriter captures the response code.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
