package extraction

import (
	"context"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/ai"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

// maxDocumentChars bounds how much raw text the document reader sees.
// Announcements front-load the relevant sections; the tail is boilerplate.
const maxDocumentChars = 30000

// Config holds orchestrator settings.
type Config struct {
	// PrimaryModel serves the high-capability stages (rules, normalization).
	PrimaryModel string
	// FallbackModel is the faster model used for verbatim extraction and
	// validation, and as the one-shot fallback for the primary stages.
	FallbackModel string
	MaxTokens     int
	// RejectInvalid drops the extraction when the validation stage flags it.
	// Default false: flagged data is logged and kept.
	RejectInvalid bool
}

// Orchestrator runs the four-stage extraction pipeline over one notice's
// raw text. Stages are strictly sequential; each declares its own model and
// fallback policy. Only a document-reader failure aborts the whole
// extraction — everything downstream degrades instead.
type Orchestrator struct {
	gen ai.Generator
	log logger.Logger
	cfg Config
}

// New creates an extraction orchestrator.
func New(gen ai.Generator, log logger.Logger, cfg Config) *Orchestrator {
	return &Orchestrator{gen: gen, log: log, cfg: cfg}
}

// Extract runs the pipeline and assembles the final extraction.
// It returns nil when stage 1 produced nothing to build on (including when
// the breaker is already tripped); every other stage failure degrades.
func (o *Orchestrator) Extract(ctx context.Context, br Breaker, noticeTitle, rawText string) *domain.Extraction {
	if len(rawText) > maxDocumentChars {
		rawText = rawText[:maxDocumentChars]
	}

	// Stage 1: verbatim section extraction. Nothing downstream can run
	// without it.
	docStage := Stage[documentPayload]{
		Name:      stageDocumentReader,
		Model:     o.cfg.FallbackModel,
		System:    documentReaderSystem,
		MaxTokens: o.cfg.MaxTokens,
	}
	docRes := runStage(ctx, o.gen, br, o.log, docStage, documentReaderPrompt(rawText))
	if docRes.Failed() {
		o.log.Warn("Document reader failed, aborting extraction",
			logger.String("title", noticeTitle),
			logger.Error(docRes.Err()),
		)
		return nil
	}
	doc := docRes.Value()

	// Stage 2: structured rules on the primary model, one fallback retry.
	rulesStage := Stage[rulesPayload]{
		Name:          stageRuleExtraction,
		Model:         o.cfg.PrimaryModel,
		FallbackModel: o.cfg.FallbackModel,
		System:        ruleExtractionSystem,
		MaxTokens:     o.cfg.MaxTokens,
	}
	rulesRes := runStage(ctx, o.gen, br, o.log, rulesStage, ruleExtractionPrompt(doc))

	structured := domain.StructuredExtraction{RawSections: doc.rawSections()}
	advtNo := doc.AdvertisementNo

	if rulesRes.Failed() {
		// Degrade: raw sections stand in for rules.
		o.log.Warn("Rule extraction failed on both models, continuing with raw sections",
			logger.String("title", noticeTitle),
			logger.Error(rulesRes.Err()),
		)
	} else {
		rules := rulesRes.Value()
		structured.Eligibility = domain.Eligibility{
			Qualification: rules.Qualification,
			Age:           rules.Age,
			Physical:      rules.Physical,
		}
		structured.SelectionProcess = rules.SelectionProcess
		structured.JobType = rules.JobType
		if rules.AdvertisementNo != "" {
			advtNo = rules.AdvertisementNo
		}

		// Stage 3: audit. Flagged data is a logged policy decision, not an
		// automatic rejection, unless RejectInvalid is set.
		if !o.validate(ctx, br, noticeTitle, rules) && o.cfg.RejectInvalid {
			return nil
		}
	}

	// Stage 4: normalization on the primary model, one fallback retry.
	normStage := Stage[normalizationPayload]{
		Name:          stageNormalization,
		Model:         o.cfg.PrimaryModel,
		FallbackModel: o.cfg.FallbackModel,
		System:        normalizationSystem,
		MaxTokens:     o.cfg.MaxTokens,
	}
	normRes := runStage(ctx, o.gen, br, o.log, normStage, normalizationPrompt(structured))

	extraction := &domain.Extraction{
		Structured:         structured,
		Title:              doc.Title,
		AdvertisementNo:    advtNo,
		ApplicationEndDate: doc.ApplicationEndDate,
	}

	if normRes.Failed() {
		o.log.Warn("Normalization failed on both models, storing un-normalized extraction",
			logger.String("title", noticeTitle),
			logger.Error(normRes.Err()),
		)
		return extraction
	}

	norm := normRes.Value()
	extraction.Structured.DecisionFactors = domain.DecisionFactors{
		WhoShouldApply:    norm.WhoShouldApply,
		WhoShouldNotApply: norm.WhoShouldNotApply,
	}
	extraction.HindiSummary = norm.HindiSummary
	extraction.Summary = domain.JoinRoadmap(norm.Roadmap)
	if extraction.Summary == "" {
		extraction.Summary = norm.SimpleExplanation
	}

	return extraction
}

// validate runs the audit stage and reports whether the rules passed.
// A failed stage call counts as passed — validation is advisory and must
// never block on its own infrastructure.
func (o *Orchestrator) validate(ctx context.Context, br Breaker, noticeTitle string, rules rulesPayload) bool {
	valStage := Stage[validationPayload]{
		Name:      stageValidation,
		Model:     o.cfg.FallbackModel,
		System:    validationSystem,
		MaxTokens: o.cfg.MaxTokens,
	}
	valRes := runStage(ctx, o.gen, br, o.log, valStage, validationPrompt(rules))
	if valRes.Failed() {
		return true
	}

	verdict := valRes.Value()
	if verdict.Status == validationStatusValid {
		return true
	}

	o.log.Warn("Validation flagged extracted rules",
		logger.String("title", noticeTitle),
		logger.Strings("issues", verdict.Issues),
		logger.Bool("rejected", o.cfg.RejectInvalid),
	)
	return false
}
