// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsgenie_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsgenie_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsgenie_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Ranking pipeline metrics
	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsgenie_ranking_duration_seconds",
			Help:    "Duration of a full ranking pass including summarization",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	RankingCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsgenie_ranking_candidates",
			Help:    "Number of candidate articles considered per ranking pass",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
	)

	SummarizerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsgenie_summarizer_duration_seconds",
			Help:    "Duration of individual summarizer calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	SummaryFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsgenie_summary_fallbacks_total",
			Help: "Summaries replaced by the truncated-content fallback",
		},
		[]string{"reason"}, // "timeout", "error", "empty", "unconfigured"
	)

	// Interaction store metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsgenie_interactions_recorded_total",
			Help: "Interaction events appended to the log",
		},
		[]string{"action"},
	)

	// Article snapshot metrics
	SnapshotArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsgenie_article_snapshot_size",
			Help: "Number of articles in the current candidate snapshot",
		},
	)

	SnapshotRefreshErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsgenie_article_snapshot_refresh_errors_total",
			Help: "Failed article snapshot refreshes",
		},
	)

	SnapshotLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsgenie_article_snapshot_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful snapshot refresh",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsgenie_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsgenie_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)
)

// RecordAPIRequest records one finished API request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordSnapshotRefresh updates the snapshot gauges after a refresh attempt.
func RecordSnapshotRefresh(size int, err error) {
	if err != nil {
		SnapshotRefreshErrors.Inc()
		return
	}
	SnapshotArticles.Set(float64(size))
	SnapshotLastRefresh.Set(float64(time.Now().Unix()))
}
