package metrics

import "github.com/prometheus/client_golang/prometheus"

// InterviewMetrics exposes counters/histograms for the turn workflow.
type InterviewMetrics struct {
	turnsTotal        *prometheus.CounterVec
	fallbackTotal     *prometheus.CounterVec
	turnLatency       *prometheus.HistogramVec
	sessionsCompleted *prometheus.CounterVec
	persistFailures   *prometheus.CounterVec
}

func NewInterviewMetrics(reg prometheus.Registerer) *InterviewMetrics {
	m := &InterviewMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Subsystem: "engine",
			Name:      "turns_total",
			Help:      "Workflow invocations by kind and outcome",
		}, []string{"kind", "outcome"}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Subsystem: "engine",
			Name:      "step_fallback_total",
			Help:      "Step failures recovered by a deterministic fallback",
		}, []string{"step"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "interview",
			Subsystem: "engine",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one workflow invocation",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"kind"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Subsystem: "engine",
			Name:      "sessions_completed_total",
			Help:      "Completed interviews by termination reason",
		}, []string{"reason"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Subsystem: "engine",
			Name:      "persist_failures_total",
			Help:      "Session sink failures that were logged and skipped",
		}, []string{"stage"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.fallbackTotal, m.turnLatency, m.sessionsCompleted, m.persistFailures)
	return m
}

func (m *InterviewMetrics) ObserveTurn(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(kind, outcome).Inc()
	m.turnLatency.WithLabelValues(kind).Observe(seconds)
}

func (m *InterviewMetrics) ObserveFallback(step string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(step).Inc()
}

func (m *InterviewMetrics) ObserveCompleted(reason string) {
	if m == nil {
		return
	}
	m.sessionsCompleted.WithLabelValues(reason).Inc()
}

func (m *InterviewMetrics) ObservePersistFailure(stage string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(stage).Inc()
}
