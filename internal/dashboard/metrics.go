package dashboard

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doganjib/internal/models"
)

// Metrics exposes dashboard counters and gauges on a private registry so
// tests can run multiple servers without collector collisions.
type Metrics struct {
	registry *prometheus.Registry

	activeOrders      *prometheus.GaugeVec
	statusTransitions *prometheus.CounterVec
	wsClients         prometheus.Gauge
	pollErrors        prometheus.Counter
	pollDuration      prometheus.Histogram
}

// NewMetrics creates and registers the dashboard collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activeOrders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dashboard_active_orders",
				Help: "Active orders currently in each pipeline stage",
			},
			[]string{"status"},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_status_transitions_total",
				Help: "Order status transitions applied through the dashboard",
			},
			[]string{"from", "to"},
		),
		wsClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_websocket_clients",
				Help: "Connected dashboard websocket clients",
			},
		),
		pollErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dashboard_poll_errors_total",
				Help: "Failed active-order poll cycles",
			},
		),
		pollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dashboard_poll_duration_seconds",
				Help:    "Time spent fetching active orders from the backend",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(
		m.activeOrders,
		m.statusTransitions,
		m.wsClients,
		m.pollErrors,
		m.pollDuration,
	)
	return m
}

// SetActiveOrders resets the per-status gauge from a fresh order snapshot.
func (m *Metrics) SetActiveOrders(orders []models.Order) {
	counts := map[models.OrderStatus]int{
		models.OrderStatusCheckingStock: 0,
		models.OrderStatusReceived:      0,
		models.OrderStatusInKitchen:     0,
		models.OrderStatusDelivering:    0,
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	for status, n := range counts {
		m.activeOrders.WithLabelValues(string(status)).Set(float64(n))
	}
}

// RecordTransition counts one applied status change.
func (m *Metrics) RecordTransition(from, to models.OrderStatus) {
	m.statusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
