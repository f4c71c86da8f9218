package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAssistantMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)
	m.ObserveTurn("ok", 0.2)
	m.ObserveTurn("ok", 0.3)
	m.ObserveExtraction("turn", true)
	m.ObserveConfirmation("email", "sent")

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 turns, got %v", got)
	}
	if got := testutil.ToFloat64(m.extractionsTotal.WithLabelValues("turn", "true")); got != 1 {
		t.Fatalf("expected 1 fallback extraction, got %v", got)
	}
	if got := testutil.ToFloat64(m.confirmationTotal.WithLabelValues("email", "sent")); got != 1 {
		t.Fatalf("expected 1 email step, got %v", got)
	}
}

func TestAssistantMetricsNilSafe(t *testing.T) {
	var m *AssistantMetrics
	m.ObserveTurn("ok", 0.1)
	m.ObserveExtraction("summary", false)
	m.ObserveConfirmation("record", "failed")
}
