package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the panel's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	LedgerApplies *prometheus.CounterVec
	OrdersPlaced  prometheus.Counter
	HTTPRequests  *prometheus.CounterVec
}

// New builds a registry with the panel collectors plus the standard Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		Registry: reg,
		LedgerApplies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_applies_total",
			Help: "Ledger apply calls by reason and outcome.",
		}, []string{"reason", "outcome"}),
		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Successfully placed orders.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method and status.",
		}, []string{"method", "status"}),
	}

	reg.MustRegister(prometheus.NewGoCollector())
	return m
}

// ObserveApply records one ledger apply outcome.
func (m *Metrics) ObserveApply(reason, outcome string) {
	if m == nil {
		return
	}
	m.LedgerApplies.WithLabelValues(reason, outcome).Inc()
}
