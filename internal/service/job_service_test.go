package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

type stubReader struct {
	jobs      []*domain.JobRecord
	byID      map[string]*domain.JobRecord
	bySlug    map[string]*domain.JobRecord
	lastLimit int
	lastQuery string
	err       error
}

func (s *stubReader) List(_ context.Context, limit, _ int) ([]*domain.JobRecord, error) {
	s.lastLimit = limit
	return s.jobs, s.err
}

func (s *stubReader) GetByID(_ context.Context, id string) (*domain.JobRecord, error) {
	return s.byID[id], s.err
}

func (s *stubReader) GetBySlug(_ context.Context, slug string) (*domain.JobRecord, error) {
	return s.bySlug[slug], s.err
}

func (s *stubReader) Search(_ context.Context, q string, limit int) ([]*domain.JobRecord, error) {
	s.lastQuery = q
	s.lastLimit = limit
	return s.jobs, s.err
}

func TestListClampsPaging(t *testing.T) {
	reader := &stubReader{jobs: []*domain.JobRecord{{ID: "job-1"}}}
	svc := NewJobService(reader, logger.NewNop())

	jobs, err := svc.List(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, defaultPageSize, reader.lastLimit)

	_, err = svc.List(context.Background(), 9999, 0)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, reader.lastLimit)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewJobService(&stubReader{byID: map[string]*domain.JobRecord{}}, logger.NewNop())

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByID(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBySlug(t *testing.T) {
	job := &domain.JobRecord{ID: "job-1", Title: "Constable Recruitment"}
	reader := &stubReader{bySlug: map[string]*domain.JobRecord{"constable-recruitment": job}}
	svc := NewJobService(reader, logger.NewNop())

	got, err := svc.GetBySlug(context.Background(), "constable-recruitment")
	require.NoError(t, err)
	assert.Equal(t, job, got)

	_, err = svc.GetBySlug(context.Background(), "unknown-slug")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchRequiresQuery(t *testing.T) {
	svc := NewJobService(&stubReader{}, logger.NewNop())

	_, err := svc.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchTrimsQuery(t *testing.T) {
	reader := &stubReader{jobs: []*domain.JobRecord{{ID: "job-1"}}}
	svc := NewJobService(reader, logger.NewNop())

	jobs, err := svc.Search(context.Background(), "  constable ", 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, "constable", reader.lastQuery)
}

func TestListPropagatesRepositoryError(t *testing.T) {
	reader := &stubReader{err: errors.New("db down")}
	svc := NewJobService(reader, logger.NewNop())

	_, err := svc.List(context.Background(), 10, 0)
	assert.Error(t, err)
}
