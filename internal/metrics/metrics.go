package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oauth_bridge"

// Authentication outcomes.
const (
	OutcomeCompleted   = "completed"
	OutcomeStoreFailed = "store_failed"
	OutcomeInvalid     = "invalid"
)

// Notification outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	authentications *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		authentications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authentications_total",
			Help:      "Completed authentication attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.authentications, m.notifications)
	return m
}

func (m *Metrics) Authentication(outcome string) {
	if m == nil {
		return
	}
	m.authentications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
