// Package metrics exposes Prometheus collectors for the projection service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "debtplan"

// Metrics owns its registry so tests can build independent instances.
type Metrics struct {
	Registry *prometheus.Registry

	ProjectionsTotal   *prometheus.CounterVec
	ProjectionDuration *prometheus.HistogramVec
	WarningsTotal      *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
	HistoryPruned      prometheus.Counter
	RateLimited        *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

var durationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ProjectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Projections computed, by repayment method and outcome.",
		}, []string{"method", "outcome"}),
		ProjectionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_duration_seconds",
			Help:      "Time spent computing a projection.",
			Buckets:   durationBuckets,
		}, []string{"method"}),
		WarningsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_warnings_total",
			Help:      "Warnings attached to computed projections, by severity.",
		}, []string{"type"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Projection cache lookups, by result.",
		}, []string{"result"}),
		HistoryPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_pruned_total",
			Help:      "Projection history records removed by retention.",
		}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by route.",
		}, []string{"route"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}

	m.Registry.MustRegister(
		m.ProjectionsTotal,
		m.ProjectionDuration,
		m.WarningsTotal,
		m.CacheLookups,
		m.HistoryPruned,
		m.RateLimited,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveProjection records one computed projection and its warnings.
func (m *Metrics) ObserveProjection(method, outcome string, took time.Duration, warningTypes []string) {
	if m == nil {
		return
	}
	m.ProjectionsTotal.WithLabelValues(method, outcome).Inc()
	m.ProjectionDuration.WithLabelValues(method).Observe(took.Seconds())
	for _, t := range warningTypes {
		m.WarningsTotal.WithLabelValues(t).Inc()
	}
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) Pruned(n int64) {
	if m != nil && n > 0 {
		m.HistoryPruned.Add(float64(n))
	}
}

func (m *Metrics) Limited(route string) {
	if m != nil {
		m.RateLimited.WithLabelValues(route).Inc()
	}
}

func (m *Metrics) Request(route, code string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, code).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
