// Package metrics exposes Prometheus collectors for HTTP traffic, query
// results and the password-recovery flow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "gameslibrary"

// HTTPBuckets are request latency buckets in seconds.
var HTTPBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1, 2, 5}

type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RequestsInProgress prometheus.Gauge

	QueryMatches     *prometheus.HistogramVec
	RecoveryOutcomes *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// Default is registered on the global Prometheus registry.
var Default = NewWithRegistry(Namespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)

// NewWithRegistry creates collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to stay isolated.
func NewWithRegistry(namespace string, reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		}, []string{"route", "method", "status_code"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   HTTPBuckets,
		}, []string{"route"}),

		RequestsInProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "HTTP requests currently being served.",
		}),

		QueryMatches: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_matched_records",
			Help:      "Records left after search filtering, by entity kind.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"kind"}),

		RecoveryOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_recovery_total",
			Help:      "Password recovery attempts by stage and outcome.",
		}, []string{"stage", "outcome"}),

		gatherer: g,
	}
}

// Nil receivers are no-ops so components can run without metrics.

func (m *Metrics) RecordRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) IncInProgress() {
	if m != nil {
		m.RequestsInProgress.Inc()
	}
}

func (m *Metrics) DecInProgress() {
	if m != nil {
		m.RequestsInProgress.Dec()
	}
}

func (m *Metrics) ObserveQuery(kind string, matched int) {
	if m != nil {
		m.QueryMatches.WithLabelValues(kind).Observe(float64(matched))
	}
}

// Recovery stages.
const (
	StageRequest = "request"
	StageConfirm = "confirm"
)

// ObserveRecovery counts one outcome, typically "ok" or an error kind.
func (m *Metrics) ObserveRecovery(stage, outcome string) {
	if m != nil {
		m.RecoveryOutcomes.WithLabelValues(stage, outcome).Inc()
	}
}

// Handler serves the exposition format for this instance's gatherer.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// IsSkipped reports paths excluded from request metrics.
func IsSkipped(path string) bool {
	switch path {
	case "/metrics", "/api/health":
		return true
	}
	return false
}
