// Package metrics exposes Prometheus metrics for apply cycles.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ryzenctl"

// Metrics holds the collectors registered for one controller.
type Metrics struct {
	gatherer prometheus.Gatherer

	cycles      *prometheus.CounterVec
	blocked     *prometheus.CounterVec
	duration    prometheus.Histogram
	powerSource *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
	state       *prometheus.GaugeVec
}

var sources = []string{"ac", "battery", "unknown"}

// New registers the collectors in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,

		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_cycles_total",
			Help:      "RyzenAdj invocations by preset and result.",
		}, []string{"preset", "result"}),

		blocked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_blocked_total",
			Help:      "Apply requests refused before invoking RyzenAdj.",
		}, []string{"reason"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "RyzenAdj invocation duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		powerSource: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "power_source",
			Help:      "Power source seen by the last dynamic cycle (1 for the active source).",
		}, []string{"source"}),

		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful RyzenAdj invocation.",
		}),

		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controller_state",
			Help:      "Current controller state (1 for the active state).",
		}, []string{"state"}),
	}
}

// ObserveCycle records a finished invocation.
func (m *Metrics) ObserveCycle(preset string, ok bool, d time.Duration) {
	result := "success"
	if !ok {
		result = "failure"
	}

	m.cycles.WithLabelValues(preset, result).Inc()
	m.duration.Observe(d.Seconds())
	if ok {
		m.lastSuccess.SetToCurrentTime()
	}
}

// ObserveBlocked records a refused apply request.
func (m *Metrics) ObserveBlocked(reason string) {
	m.blocked.WithLabelValues(reason).Inc()
}

// SetPowerSource marks source as the active power source.
func (m *Metrics) SetPowerSource(source string) {
	for _, s := range sources {
		value := 0.0
		if s == source {
			value = 1
		}
		m.powerSource.WithLabelValues(s).Set(value)
	}
}

// SetState marks state as the active controller state.
func (m *Metrics) SetState(previous, current string) {
	if previous != "" {
		m.state.WithLabelValues(previous).Set(0)
	}
	m.state.WithLabelValues(current).Set(1)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
