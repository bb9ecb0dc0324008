package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the access-control collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	GuardDecisionsTotal *prometheus.CounterVec
	AuditWritesTotal    *prometheus.CounterVec
	OrphanDetailGrants  prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		GuardDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rbac_guard_decisions_total",
				Help: "Access guard decisions by permission and outcome",
			},
			[]string{"permission", "outcome"},
		),
		AuditWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rbac_audit_writes_total",
				Help: "User history writes by delivery path and result",
			},
			[]string{"path", "result"},
		),
		OrphanDetailGrants: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rbac_orphan_detail_grants",
				Help: "Role permission detail grants whose parent permission is not granted",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rbac_http_requests_total",
				Help: "HTTP requests by method, route pattern and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rbac_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route pattern",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		m.GuardDecisionsTotal,
		m.AuditWritesTotal,
		m.OrphanDetailGrants,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

func (m *Metrics) ObserveDecision(permission, outcome string) {
	if m == nil {
		return
	}
	m.GuardDecisionsTotal.WithLabelValues(permission, outcome).Inc()
}

func (m *Metrics) ObserveAuditWrite(path, result string) {
	if m == nil {
		return
	}
	m.AuditWritesTotal.WithLabelValues(path, result).Inc()
}

func (m *Metrics) SetOrphanDetailGrants(n int) {
	if m == nil {
		return
	}
	m.OrphanDetailGrants.Set(float64(n))
}

// ObserveRequest labels by route pattern, never by raw path, to keep ids out
// of the label set.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
