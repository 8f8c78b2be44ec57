package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInterviewMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInterviewMetrics(reg)
	m.ObserveTurn("turn", "continued", 0.4)
	m.ObserveTurn("turn", "continued", 0.2)
	m.ObserveFallback("analyzer")
	m.ObserveCompleted("stop")
	m.ObservePersistFailure("turn")

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("turn", "continued")); got != 2 {
		t.Fatalf("expected 2 continued turns, got %v", got)
	}
	if got := testutil.ToFloat64(m.fallbackTotal.WithLabelValues("analyzer")); got != 1 {
		t.Fatalf("expected 1 analyzer fallback, got %v", got)
	}
	if got := testutil.ToFloat64(m.sessionsCompleted.WithLabelValues("stop")); got != 1 {
		t.Fatalf("expected 1 stopped session, got %v", got)
	}
	if got := testutil.CollectAndCount(m.turnLatency); got != 1 {
		t.Fatalf("expected one latency series, got %d", got)
	}
}

func TestInterviewMetricsDefaultRegistry(t *testing.T) {
	m := NewInterviewMetrics(nil)
	m.ObserveCompleted("limit")
}

func TestInterviewMetricsNilSafe(t *testing.T) {
	var m *InterviewMetrics
	m.ObserveTurn("turn", "completed", 0.1)
	m.ObserveFallback("router")
	m.ObserveCompleted("limit")
	m.ObservePersistFailure("completion")
}
