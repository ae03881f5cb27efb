package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/collector"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/config"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/database"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/extraction"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/freshness"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

type fixedCollector struct {
	notices []domain.Notice
}

func (fixedCollector) Name() string { return "fixed" }
func (c fixedCollector) Collect(context.Context) ([]domain.Notice, error) {
	return c.notices, nil
}

type fakeArchive struct {
	saveErr   error
	saved     []*domain.RawRecord
	processed map[string]*string
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{processed: make(map[string]*string)}
}

func (f *fakeArchive) SaveRaw(_ context.Context, rec *domain.RawRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	rec.ID = fmt.Sprintf("raw-%d", len(f.saved)+1)
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeArchive) MarkProcessed(_ context.Context, id string, masterJobID *string) error {
	f.processed[id] = masterJobID
	return nil
}

type fakeJobs struct {
	existsByURL   map[string]*database.JobExistence
	byFingerprint map[string]*domain.JobRecord
	upserted      []*domain.JobRecord
	linkUpdates   map[string][]string
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{
		existsByURL:   make(map[string]*database.JobExistence),
		byFingerprint: make(map[string]*domain.JobRecord),
		linkUpdates:   make(map[string][]string),
	}
}

func (f *fakeJobs) ExistsByURL(_ context.Context, url string) (*database.JobExistence, error) {
	return f.existsByURL[url], nil
}

func (f *fakeJobs) FindByFingerprint(_ context.Context, fingerprint string) (*domain.JobRecord, error) {
	return f.byFingerprint[fingerprint], nil
}

func (f *fakeJobs) UpsertJob(_ context.Context, job *domain.JobRecord) error {
	job.ID = fmt.Sprintf("job-%d", len(f.upserted)+1)
	f.upserted = append(f.upserted, job)
	return nil
}

func (f *fakeJobs) UpdateSourceLinks(_ context.Context, id string, links []string) error {
	f.linkUpdates[id] = links
	return nil
}

type fakeFetcher struct {
	content *domain.Content
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(context.Context, domain.Notice) (*domain.Content, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

type fakeExtractor struct {
	result      *domain.Extraction
	calls       int
	tripBreaker bool
}

func (f *fakeExtractor) Extract(_ context.Context, br extraction.Breaker, _, _ string) *domain.Extraction {
	f.calls++
	if f.tripBreaker {
		br.SuspendAIGeneration()
	}
	if br.IsAIGenerationSuspended() {
		return nil
	}
	return f.result
}

func freshExtraction() *domain.Extraction {
	return &domain.Extraction{
		Structured: domain.StructuredExtraction{
			Eligibility: domain.Eligibility{Qualification: "Diploma"},
			JobType:     "railway",
		},
		Summary:            "Prepare and apply online.",
		Title:              "Junior Engineer Recruitment",
		AdvertisementNo:    "JE/2026/01",
		ApplicationEndDate: "31/12/2099",
	}
}

func testNotice() domain.Notice {
	return domain.Notice{
		Title:      "Junior Engineer Recruitment",
		URL:        "https://rrb.gov.in/advt/je-2026",
		Source:     "rrb",
		Department: "Railway Recruitment Board",
	}
}

func fastConfig() config.IngestConfig {
	return config.IngestConfig{
		NoticeDelay:  time.Millisecond,
		BreakerDelay: time.Millisecond,
	}
}

func newTestRunner(
	notices []domain.Notice,
	fetcher *fakeFetcher,
	ext *fakeExtractor,
	archive *fakeArchive,
	jobs *fakeJobs,
	cfg config.IngestConfig,
) *Runner {
	return NewRunner(
		[]collector.Collector{fixedCollector{notices: notices}},
		fetcher, ext, archive, jobs,
		logger.NewNop(), cfg,
	)
}

func TestRunInsertsNewJob(t *testing.T) {
	archive := newFakeArchive()
	jobs := newFakeJobs()
	ext := &fakeExtractor{result: freshExtraction()}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw announcement text"}}

	r := newTestRunner([]domain.Notice{testNotice()}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	stats := rc.Snapshot()
	assert.Equal(t, 1, stats.Collected)
	assert.Equal(t, 1, stats.Archived)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 0, stats.Failed)

	require.Len(t, jobs.upserted, 1)
	job := jobs.upserted[0]
	assert.Equal(t, "Junior Engineer Recruitment", job.Title)
	assert.Equal(t, domain.Fingerprint("Railway Recruitment Board", "JE/2026/01", job.Title), job.Fingerprint)
	assert.Equal(t, []string{"https://rrb.gov.in/advt/je-2026"}, job.SourceLinks)
	require.NotNil(t, job.SeoContent)
	assert.Equal(t, "junior-engineer-recruitment", job.SeoContent.Slug)

	// The archive row points at the new job.
	master := archive.processed["raw-1"]
	require.NotNil(t, master)
	assert.Equal(t, job.ID, *master)
}

func TestRunShortCircuitsKnownURL(t *testing.T) {
	archive := newFakeArchive()
	jobs := newFakeJobs()
	jobs.existsByURL[testNotice().URL] = &database.JobExistence{ID: "job-known", HasSeoContent: true}
	ext := &fakeExtractor{result: freshExtraction()}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "irrelevant"}}

	r := newTestRunner([]domain.Notice{testNotice()}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	stats := rc.Snapshot()
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.SkipReasons[reasonAlreadyIngested])

	// No fetch, no extraction: the whole point of the probe.
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, ext.calls)

	master := archive.processed["raw-1"]
	require.NotNil(t, master)
	assert.Equal(t, "job-known", *master)
}

func TestRunReprocessesPartialRecord(t *testing.T) {
	archive := newFakeArchive()
	jobs := newFakeJobs()
	// Known URL but no seo_content yet: the record is partial and earns a
	// full reprocess that counts as an update.
	jobs.existsByURL[testNotice().URL] = &database.JobExistence{ID: "job-partial", HasSeoContent: false}
	ext := &fakeExtractor{result: freshExtraction()}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw"}}

	r := newTestRunner([]domain.Notice{testNotice()}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	stats := rc.Snapshot()
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 1, ext.calls)
}

func TestRunMergesDuplicateAnnouncement(t *testing.T) {
	notice := testNotice()
	result := freshExtraction()
	fingerprint := domain.Fingerprint(notice.Department, result.AdvertisementNo, result.Title)

	archive := newFakeArchive()
	jobs := newFakeJobs()
	jobs.byFingerprint[fingerprint] = &domain.JobRecord{
		ID:          "job-master",
		URL:         "https://employment-news.gov.in/je-2026",
		SourceLinks: []string{"https://employment-news.gov.in/je-2026"},
	}
	ext := &fakeExtractor{result: result}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw"}}

	r := newTestRunner([]domain.Notice{notice}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	stats := rc.Snapshot()
	assert.Equal(t, 1, stats.Merged)
	assert.Empty(t, jobs.upserted)

	assert.Equal(t,
		[]string{"https://employment-news.gov.in/je-2026", notice.URL},
		jobs.linkUpdates["job-master"],
	)

	master := archive.processed["raw-1"]
	require.NotNil(t, master)
	assert.Equal(t, "job-master", *master)
}

func TestRunMergeIsIdempotent(t *testing.T) {
	notice := testNotice()
	result := freshExtraction()
	fingerprint := domain.Fingerprint(notice.Department, result.AdvertisementNo, result.Title)

	archive := newFakeArchive()
	jobs := newFakeJobs()
	jobs.byFingerprint[fingerprint] = &domain.JobRecord{
		ID:          "job-master",
		URL:         "https://employment-news.gov.in/je-2026",
		SourceLinks: []string{"https://employment-news.gov.in/je-2026", notice.URL},
	}
	ext := &fakeExtractor{result: result}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw"}}

	r := newTestRunner([]domain.Notice{notice}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	// Merge counted, but the link list was already complete so no write.
	assert.Equal(t, 1, rc.Snapshot().Merged)
	assert.Empty(t, jobs.linkUpdates)
}

func TestRunSkipsExpiredNotice(t *testing.T) {
	result := freshExtraction()
	result.ApplicationEndDate = "01/01/2020"

	archive := newFakeArchive()
	jobs := newFakeJobs()
	ext := &fakeExtractor{result: result}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw"}}

	r := newTestRunner([]domain.Notice{testNotice()}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	stats := rc.Snapshot()
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.SkipReasons[freshness.ReasonExpired])
	assert.Empty(t, jobs.upserted)

	// Skipped notices still close out their archive row, without a master.
	master, marked := archive.processed["raw-1"]
	assert.True(t, marked)
	assert.Nil(t, master)
}

func TestRunArchiveFailureIsSoft(t *testing.T) {
	archive := newFakeArchive()
	archive.saveErr = errors.New("archive down")
	jobs := newFakeJobs()
	ext := &fakeExtractor{result: freshExtraction()}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw"}}

	r := newTestRunner([]domain.Notice{testNotice()}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	// The job still lands even though the audit row was lost.
	stats := rc.Snapshot()
	assert.Equal(t, 0, stats.Archived)
	assert.Equal(t, 1, stats.Inserted)
	require.Len(t, jobs.upserted, 1)
	assert.Empty(t, archive.processed)
}

func TestRunFetchFailureCountsFailed(t *testing.T) {
	archive := newFakeArchive()
	jobs := newFakeJobs()
	ext := &fakeExtractor{result: freshExtraction()}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}

	r := newTestRunner([]domain.Notice{testNotice()}, fetcher, ext, archive, jobs, fastConfig())
	rc := r.Run(context.Background())

	stats := rc.Snapshot()
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, ext.calls)
	assert.Empty(t, jobs.upserted)
}

func TestRunBreakerSwitchesToShortDelay(t *testing.T) {
	notices := []domain.Notice{testNotice(), {
		Title: "Clerk Vacancy", URL: "https://a.gov/2", Source: "a", Department: "Dept",
	}, {
		Title: "Steno Vacancy", URL: "https://a.gov/3", Source: "a", Department: "Dept",
	}}

	archive := newFakeArchive()
	jobs := newFakeJobs()
	ext := &fakeExtractor{result: freshExtraction(), tripBreaker: true}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw"}}

	cfg := config.IngestConfig{
		NoticeDelay:  5 * time.Second,
		BreakerDelay: time.Millisecond,
	}

	r := newTestRunner(notices, fetcher, ext, archive, jobs, cfg)

	start := time.Now()
	rc := r.Run(context.Background())

	// With the breaker tripped on notice one, the remaining pauses use the
	// short delay; a full NoticeDelay would blow way past this bound.
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, rc.IsAIGenerationSuspended())
	assert.Equal(t, 3, rc.Snapshot().Failed)
	assert.Equal(t, 3, ext.calls)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	notices := []domain.Notice{testNotice(), {
		Title: "Clerk Vacancy", URL: "https://a.gov/2", Source: "a", Department: "Dept",
	}}

	archive := newFakeArchive()
	jobs := newFakeJobs()
	ext := &fakeExtractor{result: freshExtraction()}
	fetcher := &fakeFetcher{content: &domain.Content{RawText: "raw"}}

	cfg := config.IngestConfig{
		NoticeDelay:  10 * time.Second,
		BreakerDelay: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := newTestRunner(notices, fetcher, ext, archive, jobs, cfg)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	rc := r.Run(ctx)

	// Canceled during the first pause: only one notice processed.
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, rc.Snapshot().Inserted)
	assert.Equal(t, 1, ext.calls)
}
