package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for booking outcomes.
type BookingMetrics struct {
	createTotal   *prometheus.CounterVec
	decisionTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotdesk",
			Subsystem: "bookings",
			Name:      "create_total",
			Help:      "Total appointment create attempts by result",
		}, []string{"result"}),
		decisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotdesk",
			Subsystem: "bookings",
			Name:      "decision_total",
			Help:      "Total approve/reject decisions",
		}, []string{"action", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createTotal, m.decisionTotal)
	return m
}

// ObserveCreate records a create attempt. result is "created" or the
// validation reason code.
func (m *BookingMetrics) ObserveCreate(result string) {
	if m == nil {
		return
	}
	m.createTotal.WithLabelValues(result).Inc()
}

// ObserveDecision records an approve/reject outcome.
func (m *BookingMetrics) ObserveDecision(action, result string) {
	if m == nil {
		return
	}
	m.decisionTotal.WithLabelValues(action, result).Inc()
}
