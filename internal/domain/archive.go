package domain

import "time"

// RawRecord is one row in the append-only raw archive. Every notice the
// pipeline encounters produces exactly one record, whether or not it became
// a job — the archive is an audit trail, not a deduplicated store.
type RawRecord struct {
	ID          string     `json:"id"`
	SourceURL   string     `json:"source_url"`
	Portal      string     `json:"portal"`
	HTMLContent string     `json:"html_content,omitempty"`
	RawText     string     `json:"raw_text,omitempty"`
	Title       string     `json:"title"`
	Department  string     `json:"department"`
	Processed   bool       `json:"processed"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	MasterJobID *string    `json:"master_job_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewRawRecord creates the archive record for a freshly collected notice.
func NewRawRecord(n Notice) *RawRecord {
	return &RawRecord{
		SourceURL:  n.URL,
		Portal:     n.Source,
		Title:      n.Title,
		Department: n.Department,
	}
}
