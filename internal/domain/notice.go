// Package domain contains the core domain models for the announcement
// ingestion pipeline.
package domain

import "time"

// Notice is a single source-reported job announcement reference, prior to
// any enrichment. Collectors emit notices; the pipeline never mutates them.
type Notice struct {
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Source     string     `json:"source"`
	Department string     `json:"department"`
	PostedDate *time.Time `json:"posted_date,omitempty"`
}

// Content is the raw material fetched for one notice.
type Content struct {
	RawText     string `json:"raw_text"`
	HTMLContent string `json:"html_content,omitempty"`
}
