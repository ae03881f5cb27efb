// Package pipeline drives one ingestion run end to end: collect, archive,
// extract, filter, deduplicate, persist. The run governor owns the pacing
// and the rate-limit breaker shared by every notice in a run.
package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/metrics"
)

// Stats aggregates per-run counters for the run report.
type Stats struct {
	Collected int `json:"collected"`
	Archived  int `json:"archived"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Merged    int `json:"merged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`

	// SkipReasons breaks Skipped down by reason string.
	SkipReasons map[string]int `json:"skip_reasons,omitempty"`
}

// RunContext is the per-run state threaded through the pipeline. It carries
// the run identity, the AI suspension breaker and the outcome counters.
// All methods are safe for concurrent use.
type RunContext struct {
	ID        string
	StartedAt time.Time

	mu          sync.Mutex
	aiSuspended bool
	stats       Stats
}

// NewRunContext creates the state for one run.
func NewRunContext() *RunContext {
	return &RunContext{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// IsAIGenerationSuspended reports whether the rate-limit breaker tripped.
func (rc *RunContext) IsAIGenerationSuspended() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.aiSuspended
}

// SuspendAIGeneration trips the breaker for the remainder of the run.
// Tripping an already-tripped breaker is a no-op.
func (rc *RunContext) SuspendAIGeneration() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.aiSuspended {
		return
	}
	rc.aiSuspended = true
	metrics.BreakerTrips.Inc()
}

// CountCollected records the size of the collected notice list.
func (rc *RunContext) CountCollected(n int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.stats.Collected += n
}

// CountArchived records one archived raw notice.
func (rc *RunContext) CountArchived() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.stats.Archived++
}

// CountInserted records one newly created job.
func (rc *RunContext) CountInserted() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.stats.Inserted++
	metrics.NoticesProcessed.WithLabelValues(metrics.OutcomeInserted).Inc()
}

// CountUpdated records one refreshed existing job.
func (rc *RunContext) CountUpdated() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.stats.Updated++
	metrics.NoticesProcessed.WithLabelValues(metrics.OutcomeUpdated).Inc()
}

// CountMerged records one notice folded into an existing job.
func (rc *RunContext) CountMerged() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.stats.Merged++
	metrics.NoticesProcessed.WithLabelValues(metrics.OutcomeMerged).Inc()
}

// CountSkipped records one notice dropped before persistence.
func (rc *RunContext) CountSkipped(reason string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.stats.Skipped++
	if rc.stats.SkipReasons == nil {
		rc.stats.SkipReasons = make(map[string]int)
	}
	rc.stats.SkipReasons[reason]++
	metrics.NoticesProcessed.WithLabelValues(metrics.OutcomeSkipped).Inc()
	metrics.NoticesSkipped.WithLabelValues(reason).Inc()
}

// CountFailed records one notice that errored mid-pipeline.
func (rc *RunContext) CountFailed() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.stats.Failed++
	metrics.NoticesProcessed.WithLabelValues(metrics.OutcomeFailed).Inc()
}

// Snapshot returns a copy of the current counters.
func (rc *RunContext) Snapshot() Stats {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	out := rc.stats
	if rc.stats.SkipReasons != nil {
		out.SkipReasons = make(map[string]int, len(rc.stats.SkipReasons))
		for k, v := range rc.stats.SkipReasons {
			out.SkipReasons[k] = v
		}
	}
	return out
}
