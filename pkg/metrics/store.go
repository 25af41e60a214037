package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records root store dispatch activity.
type StoreMetrics struct {
	dispatched *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	dispatched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_dispatch_total",
		Help:      "Actions dispatched to the root store.",
	}, []string{"action"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_dispatch_duration_seconds",
		Help:      "Time spent applying an action, lock wait included.",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
	}, []string{"action"})
	reg.MustRegister(dispatched, duration)
	return &StoreMetrics{dispatched: dispatched, duration: duration}
}

// ObserveDispatch counts one dispatched action and records how long it took.
func (m *StoreMetrics) ObserveDispatch(action string, took time.Duration) {
	if m == nil || m.dispatched == nil {
		return
	}
	label := normalizeLabel(action)
	m.dispatched.WithLabelValues(label).Inc()
	m.duration.WithLabelValues(label).Observe(took.Seconds())
}
