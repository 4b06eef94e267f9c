// Package metrics provides Prometheus metrics for the interview session engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studio"

// Session lifecycle metrics.
var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Number of interview sessions started.",
	})
	sessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_completed_total",
		Help:      "Number of interview sessions that reached COMPLETE.",
	})
	sessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_evicted_total",
		Help:      "Number of sessions removed by TTL eviction.",
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently held by the registry.",
	})
)

// Answer and attention pipeline metrics.
var (
	answersScored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_scored_total",
		Help:      "Answers routed through the scorer, including timeout blanks.",
	})
	questionTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "question_timeouts_total",
		Help:      "Per-question timers that fired and consumed the question.",
	})
	staleSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_submissions_total",
		Help:      "Answer or timeout deliveries referencing a non-current question index.",
	})
	attentionSamples = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attention_samples_total",
		Help:      "Face samples ingested by the attention tracker.",
	})
	samplesClamped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "samples_clamped_total",
		Help:      "Face samples with out-of-range values that were clamped.",
	})
	nudges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nudges_total",
		Help:      "Low-attention nudges emitted.",
	})
	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Outbound events dropped by a full session stream.",
	})
	contentScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "content_score",
		Help:      "Distribution of per-answer content scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})
	overallScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "overall_score",
		Help:      "Distribution of final session scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})
)

// HTTP metrics recorded by the API middleware.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status"})
)

// Runtime metrics updated by the periodic system updater.
var (
	systemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "system_memory_bytes",
		Help:      "Allocated heap bytes.",
	})
	systemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "system_goroutines",
		Help:      "Current goroutine count.",
	})
)

func RecordSessionStarted()   { sessionsStarted.Inc() }
func RecordSessionCompleted() { sessionsCompleted.Inc() }
func RecordSessionEvicted()   { sessionsEvicted.Inc() }

// UpdateActiveSessions sets the active session gauge.
func UpdateActiveSessions(n int) { activeSessions.Set(float64(n)) }

func RecordAnswerScored(score float64) {
	answersScored.Inc()
	contentScore.Observe(score)
}

func RecordQuestionTimeout()  { questionTimeouts.Inc() }
func RecordStaleSubmission()  { staleSubmissions.Inc() }
func RecordAttentionSample()  { attentionSamples.Inc() }
func RecordSampleClamped()    { samplesClamped.Inc() }
func RecordNudge()            { nudges.Inc() }
func RecordEventDropped()     { eventsDropped.Inc() }

func RecordOverallScore(score float64) { overallScore.Observe(score) }

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { systemGoroutines.Set(float64(n)) }

// RecordHTTPRequest records one served request with its latency.
func RecordHTTPRequest(endpoint, method, status string, durationMs float64) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
	httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}
