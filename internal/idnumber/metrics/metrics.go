package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeValid         = "valid"
	OutcomeInvalid       = "invalid"
	OutcomeRegionMissing = "region_missing"
	OutcomeBadArgument   = "bad_argument"
	OutcomeNotUpgradable = "not_upgradable"
	OutcomeError         = "error"
)

// Metrics provides observability for identity number operations.
type Metrics struct {
	// Operation outcomes by operation and result
	Outcomes *prometheus.CounterVec

	// Operation latency including region resolution
	Latency *prometheus.HistogramVec

	// Parsed numbers by length format
	Formats *prometheus.CounterVec
}

// New creates Metrics registered on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates Metrics registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idcard_idnumber_operations_total",
			Help: "Identity number operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idcard_idnumber_operation_duration_seconds",
			Help:    "Duration of identity number operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"operation"}),

		Formats: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idcard_idnumber_formats_total",
			Help: "Successfully parsed identity numbers by format",
		}, []string{"format"}),
	}
}

// IncrementOutcome records the result of an operation.
func (m *Metrics) IncrementOutcome(operation, outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(operation, outcome).Inc()
	}
}

// ObserveLatency records how long an operation took.
func (m *Metrics) ObserveLatency(operation string, d time.Duration) {
	if m != nil {
		m.Latency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementFormat records a parsed number's format.
func (m *Metrics) IncrementFormat(format string) {
	if m != nil {
		m.Formats.WithLabelValues(format).Inc()
	}
}
