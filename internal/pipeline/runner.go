package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/collector"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/config"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/database"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/extraction"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/freshness"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/metrics"
)

// Skip reason for notices whose URL already has a fully enriched record.
const reasonAlreadyIngested = "already_ingested"

// ArchiveStore is the raw archive surface the runner needs.
type ArchiveStore interface {
	SaveRaw(ctx context.Context, rec *domain.RawRecord) error
	MarkProcessed(ctx context.Context, id string, masterJobID *string) error
}

// JobStore is the job catalog surface the runner needs.
type JobStore interface {
	ExistsByURL(ctx context.Context, url string) (*database.JobExistence, error)
	FindByFingerprint(ctx context.Context, fingerprint string) (*domain.JobRecord, error)
	UpsertJob(ctx context.Context, job *domain.JobRecord) error
	UpdateSourceLinks(ctx context.Context, id string, links []string) error
}

// Extractor runs the AI extraction pipeline over one notice.
type Extractor interface {
	Extract(ctx context.Context, br extraction.Breaker, noticeTitle, rawText string) *domain.Extraction
}

// ContentFetcher retrieves and flattens a notice's document.
type ContentFetcher interface {
	Fetch(ctx context.Context, n domain.Notice) (*domain.Content, error)
}

// Runner executes one ingestion run over all configured sources. Notices are
// processed strictly sequentially; the delay between notices is the AI rate
// budget, so there is no per-notice concurrency on purpose.
type Runner struct {
	collectors []collector.Collector
	fetcher    ContentFetcher
	extractor  Extractor
	archive    ArchiveStore
	jobs       JobStore
	log        logger.Logger
	cfg        config.IngestConfig

	// now is swappable for tests.
	now func() time.Time
}

// NewRunner wires a run executor.
func NewRunner(
	collectors []collector.Collector,
	fetcher ContentFetcher,
	extractor Extractor,
	archive ArchiveStore,
	jobs JobStore,
	log logger.Logger,
	cfg config.IngestConfig,
) *Runner {
	return &Runner{
		collectors: collectors,
		fetcher:    fetcher,
		extractor:  extractor,
		archive:    archive,
		jobs:       jobs,
		log:        log,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Run collects from every source and pushes each notice through the pipeline.
// It returns the run context with final counters. Run never returns an error:
// per-notice failures are counted, and a canceled context simply stops the
// walk early.
func (r *Runner) Run(ctx context.Context) *RunContext {
	rc := NewRunContext()
	r.RunWith(ctx, rc)
	return rc
}

// RunWith executes a run against caller-owned run state, so launchers can
// hand out the run ID before the run completes.
func (r *Runner) RunWith(ctx context.Context, rc *RunContext) {
	r.log.Info("Ingestion run started", logger.String("run_id", rc.ID))

	notices := collector.CollectAll(ctx, r.collectors, r.log)
	rc.CountCollected(len(notices))

	for i, notice := range notices {
		if ctx.Err() != nil {
			r.log.Warn("Run canceled, stopping early",
				logger.String("run_id", rc.ID),
				logger.Int("remaining", len(notices)-i),
			)
			break
		}

		r.processNotice(ctx, rc, notice)

		if i < len(notices)-1 && !r.pause(ctx, rc) {
			break
		}
	}

	stats := rc.Snapshot()
	duration := time.Since(rc.StartedAt)
	metrics.RunDuration.Observe(duration.Seconds())

	r.log.Info("Ingestion run finished",
		logger.String("run_id", rc.ID),
		logger.Duration("duration", duration),
		logger.Int("collected", stats.Collected),
		logger.Int("inserted", stats.Inserted),
		logger.Int("updated", stats.Updated),
		logger.Int("merged", stats.Merged),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed),
	)
}

// processNotice walks one notice through archive, dedup, fetch, extraction,
// freshness, merge and persistence. Every notice ends with its archive row
// marked processed, whatever the outcome.
func (r *Runner) processNotice(ctx context.Context, rc *RunContext, notice domain.Notice) {
	rec := domain.NewRawRecord(notice)
	archived := r.archiveNotice(ctx, rc, rec)

	finish := func(masterJobID *string) {
		if !archived {
			return
		}
		if err := r.archive.MarkProcessed(ctx, rec.ID, masterJobID); err != nil {
			r.log.Error("Failed to mark raw notice processed",
				logger.String("raw_id", rec.ID),
				logger.Error(err),
			)
		}
	}

	// Existence short-circuit: an already enriched URL costs zero AI calls.
	probe, err := r.jobs.ExistsByURL(ctx, notice.URL)
	if err != nil {
		r.log.Error("Existence probe failed", logger.String("url", notice.URL), logger.Error(err))
		rc.CountFailed()
		finish(nil)
		return
	}
	if probe != nil && probe.HasSeoContent {
		rc.CountSkipped(reasonAlreadyIngested)
		finish(&probe.ID)
		return
	}

	content, err := r.fetcher.Fetch(ctx, notice)
	if err != nil {
		r.log.Warn("Content fetch failed",
			logger.String("url", notice.URL),
			logger.Error(err),
		)
		rc.CountFailed()
		finish(nil)
		return
	}
	rec.RawText = content.RawText
	rec.HTMLContent = content.HTMLContent

	result := r.extractor.Extract(ctx, rc, notice.Title, content.RawText)
	if result == nil {
		rc.CountFailed()
		finish(nil)
		return
	}

	title := result.Title
	if title == "" {
		title = notice.Title
	}

	if skip, reason := freshness.Evaluate(title, result.ApplicationEndDate, r.now()); skip {
		r.log.Info("Skipping stale notice",
			logger.String("title", title),
			logger.String("reason", reason),
		)
		rc.CountSkipped(reason)
		finish(nil)
		return
	}

	fingerprint := domain.Fingerprint(notice.Department, result.AdvertisementNo, title)

	// Merge path: another URL already carries this announcement.
	existing, err := r.jobs.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		r.log.Error("Fingerprint lookup failed", logger.String("fingerprint", fingerprint), logger.Error(err))
		rc.CountFailed()
		finish(nil)
		return
	}
	if existing != nil && existing.URL != notice.URL {
		r.mergeIntoExisting(ctx, rc, notice, existing)
		finish(&existing.ID)
		return
	}

	job := r.buildJob(notice, title, fingerprint, content, result)
	if err := r.jobs.UpsertJob(ctx, job); err != nil {
		r.log.Error("Job upsert failed", logger.String("url", notice.URL), logger.Error(err))
		rc.CountFailed()
		finish(nil)
		return
	}

	if probe != nil {
		rc.CountUpdated()
	} else {
		rc.CountInserted()
	}
	finish(&job.ID)
}

// archiveNotice saves the raw record. Archiving is fail-soft: a dead archive
// never blocks ingestion, it only loses the audit row.
func (r *Runner) archiveNotice(ctx context.Context, rc *RunContext, rec *domain.RawRecord) bool {
	if err := r.archive.SaveRaw(ctx, rec); err != nil {
		r.log.Error("Failed to archive raw notice",
			logger.String("url", rec.SourceURL),
			logger.Error(err),
		)
		return false
	}
	rc.CountArchived()
	return true
}

// mergeIntoExisting records the new URL on the job that already represents
// this announcement. Re-merging a known URL is a no-op, so retries are safe.
func (r *Runner) mergeIntoExisting(ctx context.Context, rc *RunContext, notice domain.Notice, existing *domain.JobRecord) {
	if !existing.HasSourceLink(notice.URL) {
		links := append(existing.SourceLinks, notice.URL)
		if err := r.jobs.UpdateSourceLinks(ctx, existing.ID, links); err != nil {
			r.log.Error("Failed to append source link",
				logger.String("job_id", existing.ID),
				logger.Error(err),
			)
			rc.CountFailed()
			return
		}
	}

	r.log.Info("Merged duplicate notice into existing job",
		logger.String("job_id", existing.ID),
		logger.String("url", notice.URL),
	)
	rc.CountMerged()
}

func (r *Runner) buildJob(
	notice domain.Notice,
	title, fingerprint string,
	content *domain.Content,
	result *domain.Extraction,
) *domain.JobRecord {
	job := &domain.JobRecord{
		Title:        title,
		Department:   notice.Department,
		Source:       notice.Source,
		URL:          notice.URL,
		RawText:      content.RawText,
		Structured:   result.Structured,
		HindiSummary: result.HindiSummary,
		Summary:      result.Summary,
		Fingerprint:  fingerprint,
		SourceLinks:  []string{notice.URL},
	}

	if strings.HasSuffix(strings.ToLower(notice.URL), ".pdf") {
		job.PDFURL = notice.URL
	}

	job.EnsureSeoContent()
	return job
}

// pause waits the inter-notice delay. A tripped breaker switches to the short
// delay: with AI suspended the run is only doing archive writes, so there is
// no rate budget to protect. Returns false when the context was canceled.
func (r *Runner) pause(ctx context.Context, rc *RunContext) bool {
	delay := r.cfg.NoticeDelay
	if rc.IsAIGenerationSuspended() {
		delay = r.cfg.BreakerDelay
	}
	if delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
