package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
)

// JobExistence is the cheap existence probe result for a URL. HasSeoContent
// distinguishes fully processed records from partial ones that still warrant
// reprocessing.
type JobExistence struct {
	ID            string
	HasSeoContent bool
}

// JobRepository persists the job catalog. Jobs carry two identities: the URL,
// unique at the storage layer, and the fingerprint used to merge duplicate
// sources of one announcement.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a repository backed by the given connection.
func NewJobRepository(conn *Connection) *JobRepository {
	return &JobRepository{db: conn.DB}
}

const jobColumns = `id, title, department, source, url, pdf_url, raw_text,
	structured, hindi_summary, summary, fingerprint, source_links, seo_content,
	created_at, updated_at`

// ExistsByURL probes for a job by source URL. Returns nil when absent.
func (r *JobRepository) ExistsByURL(ctx context.Context, url string) (*JobExistence, error) {
	query := `SELECT id, seo_content IS NOT NULL FROM jobs WHERE url = $1`

	var probe JobExistence
	err := r.db.QueryRowContext(ctx, query, url).Scan(&probe.ID, &probe.HasSeoContent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("probe job by url: %w", err)
	}
	return &probe, nil
}

// FindByFingerprint loads the job carrying the given logical identity.
// Returns nil when no job matches.
func (r *JobRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE fingerprint = $1 LIMIT 1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, fingerprint))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find job by fingerprint: %w", err)
	}
	return job, nil
}

// UpsertJob writes a job keyed on URL. A conflicting URL updates the existing
// row in place. The record's ID and timestamps are assigned on return.
func (r *JobRepository) UpsertJob(ctx context.Context, job *domain.JobRecord) error {
	structured, err := json.Marshal(job.Structured)
	if err != nil {
		return fmt.Errorf("marshal structured extraction: %w", err)
	}

	var seo []byte
	if job.SeoContent != nil {
		if seo, err = json.Marshal(job.SeoContent); err != nil {
			return fmt.Errorf("marshal seo content: %w", err)
		}
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO jobs (id, title, department, source, url, pdf_url, raw_text,
			structured, hindi_summary, summary, fingerprint, source_links, seo_content,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			department = EXCLUDED.department,
			source = EXCLUDED.source,
			pdf_url = EXCLUDED.pdf_url,
			raw_text = EXCLUDED.raw_text,
			structured = EXCLUDED.structured,
			hindi_summary = EXCLUDED.hindi_summary,
			summary = EXCLUDED.summary,
			fingerprint = EXCLUDED.fingerprint,
			source_links = EXCLUDED.source_links,
			seo_content = EXCLUDED.seo_content,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query,
		uuid.NewString(), job.Title, job.Department, job.Source, job.URL,
		job.PDFURL, job.RawText, structured, job.HindiSummary, job.Summary,
		job.Fingerprint, pq.Array(job.SourceLinks), nullableJSON(seo), now,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert job: %w", err)
	}

	job.UpdatedAt = now
	return nil
}

// UpdateSourceLinks replaces a job's source link list. Used by the merge path;
// no other column is touched so a merge never degrades an enriched record.
func (r *JobRepository) UpdateSourceLinks(ctx context.Context, id string, links []string) error {
	query := `UPDATE jobs SET source_links = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, pq.Array(links), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update source links: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}

// GetByID loads one job. Returns nil when absent.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	return job, nil
}

// GetBySlug loads one job by its SEO slug. Returns nil when absent.
func (r *JobRepository) GetBySlug(ctx context.Context, slug string) (*domain.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE seo_content->>'slug' = $1 LIMIT 1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job by slug: %w", err)
	}
	return job, nil
}

// List returns jobs ordered by most recently updated.
func (r *JobRepository) List(ctx context.Context, limit, offset int) ([]*domain.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY updated_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// Search matches the query as a case-insensitive substring of the title or
// department, most recent first.
func (r *JobRepository) Search(ctx context.Context, q string, limit int) ([]*domain.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE title ILIKE '%' || $1 || '%' OR department ILIKE '%' || $1 || '%'
		ORDER BY updated_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.JobRecord, error) {
	var (
		job        domain.JobRecord
		structured []byte
		seo        []byte
	)

	err := row.Scan(
		&job.ID, &job.Title, &job.Department, &job.Source, &job.URL,
		&job.PDFURL, &job.RawText, &structured, &job.HindiSummary, &job.Summary,
		&job.Fingerprint, pq.Array(&job.SourceLinks), &seo,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(structured) > 0 {
		if err := json.Unmarshal(structured, &job.Structured); err != nil {
			return nil, fmt.Errorf("unmarshal structured extraction: %w", err)
		}
	}
	if len(seo) > 0 {
		job.SeoContent = &domain.SeoContent{}
		if err := json.Unmarshal(seo, job.SeoContent); err != nil {
			return nil, fmt.Errorf("unmarshal seo content: %w", err)
		}
	}

	return &job, nil
}

func collectJobs(rows *sql.Rows) ([]*domain.JobRecord, error) {
	var jobs []*domain.JobRecord
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job rows: %w", err)
	}
	return jobs, nil
}

// nullableJSON maps an empty payload to SQL NULL so jsonb columns stay null
// instead of holding empty strings.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
