// Package telemetry exposes Prometheus counters for lifecycle activity.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	transitions      *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	dispatchFailures *prometheus.CounterVec
}

// New registers the counters on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pm_transitions_total",
			Help: "Applied lifecycle transitions by entity and operation.",
		}, []string{"entity", "operation"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pm_notifications_total",
			Help: "Notifications emitted by type.",
		}, []string{"type"}),
		dispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pm_dispatch_failures_total",
			Help: "Best-effort side effects that failed, by channel.",
		}, []string{"channel"}),
	}
	reg.MustRegister(m.transitions, m.notifications, m.dispatchFailures)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) Transition(entity, operation string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, operation).Inc()
}

func (m *Metrics) Notification(notificationType string) {
	if m == nil {
		return
	}
	if notificationType == "" {
		notificationType = "generic"
	}
	m.notifications.WithLabelValues(notificationType).Inc()
}

func (m *Metrics) DispatchFailure(channel string) {
	if m == nil {
		return
	}
	m.dispatchFailures.WithLabelValues(channel).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Transitions exposes the counter vector for tests.
func (m *Metrics) Transitions() *prometheus.CounterVec { return m.transitions }

func (m *Metrics) Notifications() *prometheus.CounterVec { return m.notifications }

func (m *Metrics) DispatchFailures() *prometheus.CounterVec { return m.dispatchFailures }
