package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
)

// ArchiveRepository persists raw notice records. The archive is append-only:
// rows are inserted once and later flipped to processed, never deleted.
type ArchiveRepository struct {
	db *sql.DB
}

// NewArchiveRepository creates a repository backed by the given connection.
func NewArchiveRepository(conn *Connection) *ArchiveRepository {
	return &ArchiveRepository{db: conn.DB}
}

// SaveRaw inserts one archive record and assigns its ID.
func (r *ArchiveRepository) SaveRaw(ctx context.Context, rec *domain.RawRecord) error {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO raw_notices (id, source_url, portal, html_content, raw_text, title, department, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.SourceURL, rec.Portal, rec.HTMLContent, rec.RawText,
		rec.Title, rec.Department, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert raw notice: %w", err)
	}
	return nil
}

// MarkProcessed flags an archive record as handled. masterJobID is nil when
// the notice was skipped or failed without producing a job.
func (r *ArchiveRepository) MarkProcessed(ctx context.Context, id string, masterJobID *string) error {
	query := `
		UPDATE raw_notices
		SET processed = TRUE, processed_at = $2, master_job_id = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC(), masterJobID)
	if err != nil {
		return fmt.Errorf("mark raw notice processed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("raw notice not found: %s", id)
	}
	return nil
}
