// Package ai provides the model-provider client used by the extraction
// pipeline. The pipeline only depends on the Generator interface; the
// Anthropic implementation lives behind it.
package ai

import (
	"context"
	"errors"
)

// ErrRateLimited marks a provider quota failure. The run governor treats it
// as a run-scoped breaker signal, not a per-call retry.
var ErrRateLimited = errors.New("ai provider rate limited")

// ErrEmptyResponse is returned when the provider produced no text output.
var ErrEmptyResponse = errors.New("ai provider returned empty response")

// GenerateRequest is one synchronous text-generation call.
type GenerateRequest struct {
	// Model is the provider model identifier for this call.
	Model string
	// System is the system prompt; empty means none.
	System string
	// Prompt is the user prompt.
	Prompt string
	// MaxTokens bounds the response length.
	MaxTokens int
}

// Generator produces text from a prompt, synchronously.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
