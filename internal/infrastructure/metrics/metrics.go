package metrics

import (
	"net/http"

	"sasa_billing/internal/usecase/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersTotal         *prometheus.CounterVec
	SettlementsTotal    *prometheus.CounterVec
	SettlementConflicts prometheus.Counter
	RateLimitedTotal    prometheus.Counter
}

var _ interfaces.IPaymentMetrics = (*Metrics)(nil)

// New creates the collectors and registers them on registry. A nil registry
// gets a fresh one with the Go and process collectors.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billing_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		OrdersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_orders_total",
				Help: "Checkout orders by plan and outcome",
			},
			[]string{"plan", "outcome"},
		),
		SettlementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_settlements_total",
				Help: "Payment verifications by plan and outcome",
			},
			[]string{"plan", "outcome"},
		),
		SettlementConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billing_settlement_conflicts_total",
			Help: "Optimistic-lock rejections that forced a re-read",
		}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billing_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersTotal,
		m.SettlementsTotal,
		m.SettlementConflicts,
		m.RateLimitedTotal,
	)
	return m
}

func (m *Metrics) ObserveOrder(planID, outcome string) {
	m.OrdersTotal.WithLabelValues(planID, outcome).Inc()
}

func (m *Metrics) ObserveSettlement(planID, outcome string) {
	m.SettlementsTotal.WithLabelValues(planID, outcome).Inc()
}

func (m *Metrics) ObserveSettlementConflict() {
	m.SettlementConflicts.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
