package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for appointment chat turns.
type AssistantMetrics struct {
	turnsTotal        *prometheus.CounterVec
	extractionsTotal  *prometheus.CounterVec
	confirmationTotal *prometheus.CounterVec
	turnLatency       *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointment",
			Subsystem: "assistant",
			Name:      "turns_total",
			Help:      "Total chat turns processed",
		}, []string{"outcome"}),
		extractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointment",
			Subsystem: "assistant",
			Name:      "extractions_total",
			Help:      "Field extractions by source and whether the local fallback ran",
		}, []string{"source", "fallback"}),
		confirmationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointment",
			Subsystem: "assistant",
			Name:      "confirmation_steps_total",
			Help:      "Confirmation side effects (email, record) by status",
		}, []string{"step", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "appointment",
			Subsystem: "assistant",
			Name:      "turn_latency_seconds",
			Help:      "Latency of a full chat turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.extractionsTotal, m.confirmationTotal, m.turnLatency)
	return m
}

// ObserveTurn records one finished turn. outcome is e.g. "ok", "reset",
// "chat_error" or "rejected".
func (m *AssistantMetrics) ObserveTurn(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
	m.turnLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *AssistantMetrics) ObserveExtraction(source string, fallback bool) {
	if m == nil {
		return
	}
	label := "false"
	if fallback {
		label = "true"
	}
	m.extractionsTotal.WithLabelValues(source, label).Inc()
}

func (m *AssistantMetrics) ObserveConfirmation(step, status string) {
	if m == nil {
		return
	}
	m.confirmationTotal.WithLabelValues(step, status).Inc()
}
