package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/pipeline"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/scheduler"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/service"
)

type stubCatalog struct {
	jobs   []*domain.JobRecord
	byID   map[string]*domain.JobRecord
	bySlug map[string]*domain.JobRecord
}

func (s *stubCatalog) List(context.Context, int, int) ([]*domain.JobRecord, error) {
	return s.jobs, nil
}

func (s *stubCatalog) GetByID(_ context.Context, id string) (*domain.JobRecord, error) {
	return s.byID[id], nil
}

func (s *stubCatalog) GetBySlug(_ context.Context, slug string) (*domain.JobRecord, error) {
	return s.bySlug[slug], nil
}

func (s *stubCatalog) Search(context.Context, string, int) ([]*domain.JobRecord, error) {
	return s.jobs, nil
}

type stubLauncher struct {
	runID string
	err   error
}

func (s *stubLauncher) Trigger() (string, error) { return s.runID, s.err }

type stubReporter struct {
	report *scheduler.RunReport
	err    error
}

func (s *stubReporter) LastRun(context.Context) (*scheduler.RunReport, error) {
	return s.report, s.err
}

func newTestRouter(catalog *stubCatalog, launcher *stubLauncher, reporter *stubReporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewHandler(
		service.NewJobService(catalog, logger.NewNop()),
		launcher, reporter,
		logger.NewNop(),
	)
	RegisterRoutes(router, h)
	return router
}

func performRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, http.NoBody)
	router.ServeHTTP(w, req)
	return w
}

func TestTriggerRunAccepted(t *testing.T) {
	router := newTestRouter(&stubCatalog{}, &stubLauncher{runID: "run-42"}, &stubReporter{})

	w := performRequest(router, http.MethodPost, "/api/v1/ingest/runs")

	assert.Equal(t, http.StatusAccepted, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "run-42", body["run_id"])
}

func TestTriggerRunConflict(t *testing.T) {
	launcher := &stubLauncher{err: scheduler.ErrRunInProgress}
	router := newTestRouter(&stubCatalog{}, launcher, &stubReporter{})

	w := performRequest(router, http.MethodPost, "/api/v1/ingest/runs")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLastRun(t *testing.T) {
	reporter := &stubReporter{report: &scheduler.RunReport{
		RunID:      "run-7",
		StartedAt:  time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 1, 6, 40, 0, 0, time.UTC),
		Stats:      pipeline.Stats{Collected: 12, Inserted: 3, Skipped: 9},
	}}
	router := newTestRouter(&stubCatalog{}, &stubLauncher{}, reporter)

	w := performRequest(router, http.MethodGet, "/api/v1/ingest/runs/last")

	assert.Equal(t, http.StatusOK, w.Code)
	var report scheduler.RunReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "run-7", report.RunID)
	assert.Equal(t, 3, report.Stats.Inserted)
}

func TestLastRunNotFound(t *testing.T) {
	reporter := &stubReporter{err: scheduler.ErrNoRunYet}
	router := newTestRouter(&stubCatalog{}, &stubLauncher{}, reporter)

	w := performRequest(router, http.MethodGet, "/api/v1/ingest/runs/last")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListJobs(t *testing.T) {
	catalog := &stubCatalog{jobs: []*domain.JobRecord{
		{ID: "job-1", Title: "Constable Recruitment 2026"},
		{ID: "job-2", Title: "Junior Engineer Recruitment"},
	}}
	router := newTestRouter(catalog, &stubLauncher{}, &stubReporter{})

	w := performRequest(router, http.MethodGet, "/api/v1/jobs?limit=10")

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Jobs  []domain.JobRecord `json:"jobs"`
		Count int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Constable Recruitment 2026", body.Jobs[0].Title)
}

func TestGetJobNotFound(t *testing.T) {
	router := newTestRouter(&stubCatalog{byID: map[string]*domain.JobRecord{}}, &stubLauncher{}, &stubReporter{})

	w := performRequest(router, http.MethodGet, "/api/v1/jobs/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJobBySlug(t *testing.T) {
	catalog := &stubCatalog{bySlug: map[string]*domain.JobRecord{
		"constable-recruitment-2026": {ID: "job-1", Title: "Constable Recruitment 2026"},
	}}
	router := newTestRouter(catalog, &stubLauncher{}, &stubReporter{})

	w := performRequest(router, http.MethodGet, "/api/v1/jobs/slug/constable-recruitment-2026")

	assert.Equal(t, http.StatusOK, w.Code)
	var job domain.JobRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "job-1", job.ID)
}

func TestSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(&stubCatalog{}, &stubLauncher{}, &stubReporter{})

	w := performRequest(router, http.MethodGet, "/api/v1/jobs/search")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchJobs(t *testing.T) {
	catalog := &stubCatalog{jobs: []*domain.JobRecord{{ID: "job-1", Title: "Constable Recruitment 2026"}}}
	router := newTestRouter(catalog, &stubLauncher{}, &stubReporter{})

	w := performRequest(router, http.MethodGet, "/api/v1/jobs/search?q=constable")

	assert.Equal(t, http.StatusOK, w.Code)
}
