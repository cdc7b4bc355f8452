package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for region table lookups.
type Metrics struct {
	// Lookups by backend ("memory", "postgres", "redis") and result ("hit", "miss", "error")
	Lookups *prometheus.CounterVec

	LookupLatency *prometheus.HistogramVec
}

// New creates region metrics registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers region metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idcard_region_lookups_total",
			Help: "Region table lookups by backend and result",
		}, []string{"backend", "result"}),

		LookupLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idcard_region_lookup_duration_seconds",
			Help:    "Duration of region table lookups by backend",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"backend"}),
	}
}

// RecordHit records a successful lookup.
func (m *Metrics) RecordHit(backend string, seconds float64) {
	m.record(backend, "hit", seconds)
}

// RecordMiss records a lookup for an unknown code.
func (m *Metrics) RecordMiss(backend string, seconds float64) {
	m.record(backend, "miss", seconds)
}

// RecordError records a backend failure.
func (m *Metrics) RecordError(backend string, seconds float64) {
	m.record(backend, "error", seconds)
}

func (m *Metrics) record(backend, result string, seconds float64) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(backend, result).Inc()
	m.LookupLatency.WithLabelValues(backend).Observe(seconds)
}
