// Package metrics registers the Prometheus instruments for the ingestion
// pipeline. All instruments use the default registry and are exposed on the
// HTTP server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NoticesProcessed counts notices by terminal outcome: inserted, updated,
	// merged, skipped, failed.
	NoticesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingestd_notices_processed_total",
		Help: "Notices processed by terminal outcome.",
	}, []string{"outcome"})

	// NoticesSkipped breaks skips down by reason.
	NoticesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingestd_notices_skipped_total",
		Help: "Notices skipped before persistence, by reason.",
	}, []string{"reason"})

	// AICalls counts model invocations by stage, model and status.
	AICalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingestd_ai_calls_total",
		Help: "AI model invocations by stage, model and status.",
	}, []string{"stage", "model", "status"})

	// BreakerTrips counts rate-limit breaker activations.
	BreakerTrips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingestd_breaker_trips_total",
		Help: "Times a run suspended AI generation after a rate limit.",
	})

	// RunDuration observes wall-clock run time in seconds.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingestd_run_duration_seconds",
		Help:    "Wall-clock duration of ingestion runs.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})
)

// Outcome labels for NoticesProcessed.
const (
	OutcomeInserted = "inserted"
	OutcomeUpdated  = "updated"
	OutcomeMerged   = "merged"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Status labels for AICalls.
const (
	StatusOK          = "ok"
	StatusError       = "error"
	StatusRateLimited = "rate_limited"
)
