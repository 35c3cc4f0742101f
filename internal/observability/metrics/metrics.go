package metrics

import "github.com/prometheus/client_golang/prometheus"

// TriageMetrics exposes counters/histograms for the triage pipeline.
type TriageMetrics struct {
	inboundTotal       *prometheus.CounterVec
	repliesTotal       *prometheus.CounterVec
	emergenciesTotal   prometheus.Counter
	extractionFailures prometheus.Counter
	matchLatency       prometheus.Histogram
	webhookLatency     *prometheus.HistogramVec
}

func NewTriageMetrics(reg prometheus.Registerer) *TriageMetrics {
	m := &TriageMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "triage",
			Name:      "inbound_messages_total",
			Help:      "Total inbound WhatsApp messages",
		}, []string{"message_type", "status"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "triage",
			Name:      "replies_total",
			Help:      "Total replies sent, by conversation state and language",
		}, []string{"state", "language"}),
		emergenciesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "triage",
			Name:      "emergencies_total",
			Help:      "Conversations classified as emergencies",
		}),
		extractionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "triage",
			Name:      "extraction_failures_total",
			Help:      "Symptom extractions that returned no fields",
		}),
		matchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sehat",
			Subsystem: "triage",
			Name:      "match_latency_seconds",
			Help:      "Latency of doctor matching",
			Buckets:   prometheus.DefBuckets,
		}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sehat",
			Subsystem: "triage",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"message_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.repliesTotal, m.emergenciesTotal, m.extractionFailures, m.matchLatency, m.webhookLatency)
	return m
}

func (m *TriageMetrics) ObserveInbound(messageType, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(messageType, status).Inc()
}

func (m *TriageMetrics) ObserveReply(state, language string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(state, language).Inc()
}

func (m *TriageMetrics) ObserveEmergency() {
	if m == nil {
		return
	}
	m.emergenciesTotal.Inc()
}

func (m *TriageMetrics) ObserveExtractionFailure() {
	if m == nil {
		return
	}
	m.extractionFailures.Inc()
}

func (m *TriageMetrics) ObserveMatchLatency(seconds float64) {
	if m == nil {
		return
	}
	m.matchLatency.Observe(seconds)
}

func (m *TriageMetrics) ObserveWebhookLatency(messageType string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(messageType).Observe(seconds)
}
