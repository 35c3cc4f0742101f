package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestTriageMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTriageMetrics(reg)
	m.ObserveInbound("text", "ok")
	m.ObserveReply("gathering_symptoms", "ur")
	m.ObserveEmergency()
	m.ObserveExtractionFailure()
	m.ObserveMatchLatency(0.05)
	m.ObserveWebhookLatency("audio", 0.5)
}

func TestTriageMetricsNilSafe(t *testing.T) {
	var m *TriageMetrics
	m.ObserveInbound("text", "ok")
	m.ObserveReply("state", "en")
	m.ObserveEmergency()
	m.ObserveExtractionFailure()
	m.ObserveMatchLatency(0.1)
	m.ObserveWebhookLatency("text", 0.1)
}
