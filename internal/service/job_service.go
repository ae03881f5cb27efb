// Package service implements the read-side business logic over the job
// catalog: listing, lookup and search with sanitized paging.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

// Paging bounds.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service errors.
var (
	ErrNotFound   = errors.New("job not found")
	ErrEmptyQuery = errors.New("search query must not be empty")
)

// JobReader is the catalog read surface the service needs.
type JobReader interface {
	List(ctx context.Context, limit, offset int) ([]*domain.JobRecord, error)
	GetByID(ctx context.Context, id string) (*domain.JobRecord, error)
	GetBySlug(ctx context.Context, slug string) (*domain.JobRecord, error)
	Search(ctx context.Context, q string, limit int) ([]*domain.JobRecord, error)
}

// JobService serves read requests against the job catalog.
type JobService struct {
	repo JobReader
	log  logger.Logger
}

// NewJobService creates a job read service.
func NewJobService(repo JobReader, log logger.Logger) *JobService {
	return &JobService{repo: repo, log: log}
}

// List returns a page of jobs, most recently updated first. Out-of-range
// paging values are clamped rather than rejected.
func (s *JobService) List(ctx context.Context, limit, offset int) ([]*domain.JobRecord, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	jobs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// GetByID returns one job or ErrNotFound.
func (s *JobService) GetByID(ctx context.Context, id string) (*domain.JobRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// GetBySlug returns one job by its SEO slug or ErrNotFound.
func (s *JobService) GetBySlug(ctx context.Context, slug string) (*domain.JobRecord, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, ErrNotFound
	}

	job, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get job by slug: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// Search matches jobs whose title or department contains the query.
func (s *JobService) Search(ctx context.Context, q string, limit int) ([]*domain.JobRecord, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	jobs, err := s.repo.Search(ctx, q, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
