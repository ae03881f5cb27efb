package domain

import (
	"strings"
	"time"
)

// AgeLimits holds the numeric age bands per reservation category.
// Relaxations follow the standard central-government table when the source
// text defers to "as per government rules": OBC +3 years, SC/ST +5 years.
type AgeLimits struct {
	Min        int `json:"min"`
	MaxGeneral int `json:"max_general"`
	MaxOBC     int `json:"max_obc"`
	MaxSCST    int `json:"max_sc_st"`
}

// PhysicalStandards holds physical eligibility requirements where a
// recruitment defines them (police, railways, defence).
type PhysicalStandards struct {
	Height  string `json:"height,omitempty"`
	Chest   string `json:"chest,omitempty"`
	Vision  string `json:"vision,omitempty"`
	Details string `json:"details,omitempty"`
}

// Eligibility groups the extracted eligibility rules for one announcement.
type Eligibility struct {
	Qualification string            `json:"qualification"`
	Age           AgeLimits         `json:"age"`
	Physical      PhysicalStandards `json:"physical"`
}

// DecisionFactors is the apply/avoid guidance produced by the normalization
// stage.
type DecisionFactors struct {
	WhoShouldApply    []string `json:"who_should_apply"`
	WhoShouldNotApply []string `json:"who_should_not_apply"`
}

// RawSections holds the seven verbatim sections lifted from the announcement
// text by the document-reader stage. Missing sections stay nil.
type RawSections struct {
	Education *string `json:"education"`
	Age       *string `json:"age"`
	Physical  *string `json:"physical"`
	Selection *string `json:"selection"`
	Dates     *string `json:"dates"`
	Location  *string `json:"location"`
	Notes     *string `json:"notes"`
}

// StructuredExtraction is the assembled output of the AI pipeline, embedded
// into a JobRecord. When rule extraction failed on both models, Eligibility
// and SelectionProcess stay zero and RawSections carries the upstream data.
type StructuredExtraction struct {
	Eligibility      Eligibility     `json:"eligibility"`
	SelectionProcess []string        `json:"selection_process"`
	JobType          string          `json:"job_type"`
	DecisionFactors  DecisionFactors `json:"decision_factors"`
	RawSections      *RawSections    `json:"raw_sections,omitempty"`
}

// Extraction is the full per-notice result of the extraction orchestrator.
// The identity and freshness fields ride alongside the structured payload
// because the fingerprint and the expiry check are computed from them.
type Extraction struct {
	Structured         StructuredExtraction `json:"structured"`
	HindiSummary       string               `json:"hindi_summary,omitempty"`
	Summary            string               `json:"summary,omitempty"`
	Title              string               `json:"title,omitempty"`
	AdvertisementNo    string               `json:"advertisement_no,omitempty"`
	ApplicationEndDate string               `json:"application_end_date,omitempty"`
}

// SeoContent is the presentation metadata attached to a job record.
type SeoContent struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	ArticleBody     *string  `json:"article_body"`
}

// JobRecord is one logical government-job announcement in the catalog.
// It carries two independent identities: URL (unique at the storage layer)
// and Fingerprint (logical identity used to merge duplicate sources).
type JobRecord struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Department   string               `json:"department"`
	Source       string               `json:"source"`
	URL          string               `json:"url"`
	PDFURL       string               `json:"pdf_url,omitempty"`
	RawText      string               `json:"raw_text,omitempty"`
	Structured   StructuredExtraction `json:"structured"`
	HindiSummary string               `json:"hindi_summary,omitempty"`
	Summary      string               `json:"summary,omitempty"`
	Fingerprint  string               `json:"fingerprint"`
	SourceLinks  []string             `json:"source_links"`
	SeoContent   *SeoContent          `json:"seo_content,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// genericMetaDescription is used when a record has no summary to describe it.
const genericMetaDescription = "Latest government job announcement with eligibility, age limits and selection process."

// EnsureSeoContent synthesizes missing SEO metadata before a write.
// An existing seo_content is kept as-is except for a missing slug, which is
// always filled in; the slug is set at most once.
func (j *JobRecord) EnsureSeoContent() {
	if j.SeoContent == nil {
		meta := j.Summary
		if meta == "" {
			meta = genericMetaDescription
		}
		j.SeoContent = &SeoContent{
			Title:           j.Title,
			Slug:            Slugify(j.Title),
			MetaDescription: meta,
			Keywords:        []string{},
		}
		return
	}

	if j.SeoContent.Slug == "" {
		j.SeoContent.Slug = Slugify(j.Title)
	}
}

// HasSourceLink reports whether url is already recorded on this job.
func (j *JobRecord) HasSourceLink(url string) bool {
	for _, link := range j.SourceLinks {
		if link == url {
			return true
		}
	}
	return false
}

// JoinRoadmap builds the short career summary from normalization roadmap
// bullets.
func JoinRoadmap(bullets []string) string {
	trimmed := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if s := strings.TrimSpace(b); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return strings.Join(trimmed, " ")
}
