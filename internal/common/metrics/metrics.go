// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdapterCallsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_adapter_calls_completed_total",
			Help: "Total number of adapter calls that returned a result",
		},
		[]string{"operation"},
	)

	AdapterCallsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_adapter_calls_failed_total",
			Help: "Total number of adapter calls that failed, by error type",
		},
		[]string{"operation", "error_type"},
	)

	AdapterCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knowledge_adapter_call_duration_seconds",
			Help:    "Duration of adapter calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, .75, 1, 2.5, 5, 10, 15},
		},
		[]string{"operation"},
	)

	AdapterCallsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "knowledge_adapter_calls_active",
			Help: "Number of in-flight adapter calls",
		},
		[]string{"operation"},
	)

	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_retry_attempts_total",
			Help: "Number of retries scheduled by the retry orchestrator",
		},
		[]string{"operation", "error_type"},
	)

	SimulatedFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_simulated_failures_total",
			Help: "Number of injected failures",
		},
		[]string{"operation", "kind"},
	)

	FeedbackReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_feedback_received_total",
			Help: "Feedback events consumed from the feedback bus",
		},
		[]string{"type"},
	)

	HistoryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_history_operations_total",
			Help: "Search history store operations",
		},
		[]string{"backend", "op"},
	)
)

// ObserveCall records the outcome of one adapter call.
// errorType is empty on success.
func ObserveCall(operation string, started time.Time, errorType string) {
	AdapterCallDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if errorType == "" {
		AdapterCallsCompleted.WithLabelValues(operation).Inc()
		return
	}
	AdapterCallsFailed.WithLabelValues(operation, errorType).Inc()
}
