package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "operation"},
	)

	// Fallback activations mark degraded (offline-mode) results.
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallbacks_total",
			Help: "Total number of deterministic fallback activations by component",
		},
		[]string{"component"},
	)

	StoreWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_writes_total",
			Help: "Total number of best-effort durable store writes by outcome",
		},
		[]string{"op", "outcome"},
	)

	// Score distribution of answer evaluations (0-100).
	AnswerScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answer_overall_score",
			Help:    "Distribution of answer overall_score (0-100)",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

// InitMetrics registers all collectors on the default registry.
func InitMetrics() {
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(FallbacksTotal)
	prometheus.MustRegister(StoreWritesTotal)
	prometheus.MustRegister(AnswerScoreHistogram)
}
