// Package api exposes the HTTP surface: the job catalog read endpoints and
// the ingestion run controls.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/scheduler"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/service"
)

// RunLauncher starts an ingestion run on demand.
type RunLauncher interface {
	Trigger() (string, error)
}

// RunReporter loads the last completed run report.
type RunReporter interface {
	LastRun(ctx context.Context) (*scheduler.RunReport, error)
}

// Handler carries the dependencies for all API endpoints.
type Handler struct {
	jobs     *service.JobService
	launcher RunLauncher
	reporter RunReporter
	log      logger.Logger
}

// NewHandler creates the API handler set.
func NewHandler(jobs *service.JobService, launcher RunLauncher, reporter RunReporter, log logger.Logger) *Handler {
	return &Handler{jobs: jobs, launcher: launcher, reporter: reporter, log: log}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// TriggerRun starts an ingestion run and returns its ID immediately.
func (h *Handler) TriggerRun(c *gin.Context) {
	runID, err := h.launcher.Trigger()
	if errors.Is(err, scheduler.ErrRunInProgress) {
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.log.Error("Failed to trigger run", logger.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to start run"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": runID})
}

// LastRun returns the most recent completed run report.
func (h *Handler) LastRun(c *gin.Context) {
	report, err := h.reporter.LastRun(c.Request.Context())
	if errors.Is(err, scheduler.ErrNoRunYet) {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.log.Error("Failed to load run report", logger.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load run report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListJobs returns a page of jobs, most recently updated first.
func (h *Handler) ListJobs(c *gin.Context) {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	jobs, err := h.jobs.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("Failed to list jobs", logger.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

// GetJob returns one job by ID.
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "job not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to get job", logger.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetJobBySlug returns one job by its SEO slug.
func (h *Handler) GetJobBySlug(c *gin.Context) {
	job, err := h.jobs.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "job not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to get job by slug", logger.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// SearchJobs matches jobs by title or department substring.
func (h *Handler) SearchJobs(c *gin.Context) {
	q := c.Query("q")
	limit := queryInt(c, "limit", 0)

	jobs, err := h.jobs.Search(c.Request.Context(), q, limit)
	if errors.Is(err, service.ErrEmptyQuery) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
		return
	}
	if err != nil {
		h.log.Error("Failed to search jobs", logger.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to search jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
