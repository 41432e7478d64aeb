// Package metrics exposes reminder counters in the Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple services never
// collide on the global one.
type Metrics struct {
	reg      *prometheus.Registry
	pending  prometheus.Gauge
	alerts   *prometheus.CounterVec
	rebuilds prometheus.Counter
	failures *prometheus.CounterVec
}

// New registers the medtime collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "medtime",
			Name:      "pending_reminders",
			Help:      "Reminders currently scheduled for later today.",
		}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medtime",
			Name:      "alerts_total",
			Help:      "Alerts played or shown, by kind (fired, muted, preview).",
		}, []string{"kind"}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medtime",
			Name:      "schedule_rebuilds_total",
			Help:      "Schedule rebuilds since start.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medtime",
			Name:      "channel_failures_total",
			Help:      "Best-effort side channels that returned an error, by channel.",
		}, []string{"channel"}),
	}
	m.reg.MustRegister(m.pending, m.alerts, m.rebuilds, m.failures)
	return m
}

// SetPending records the number of scheduled reminders.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}

// Rebuilt counts one schedule rebuild.
func (m *Metrics) Rebuilt() {
	if m == nil {
		return
	}
	m.rebuilds.Inc()
}

// Alert counts one alert of the given kind.
func (m *Metrics) Alert(kind string) {
	if m == nil {
		return
	}
	m.alerts.WithLabelValues(kind).Inc()
}

// Failure counts one failed side channel (notification, mqtt, history).
func (m *Metrics) Failure(channel string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(channel).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
