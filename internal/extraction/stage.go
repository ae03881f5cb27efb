package extraction

import (
	"context"
	"errors"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/ai"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/metrics"
)

// Stage errors. ErrMalformedResponse covers unparseable model output;
// ErrGenerationSuspended marks calls skipped because the run breaker
// already tripped.
var (
	ErrMalformedResponse   = errors.New("malformed model response")
	ErrGenerationSuspended = errors.New("ai generation suspended for this run")
)

// Breaker is the run-scoped AI suspension flag, owned by the run governor
// and threaded through every stage call.
type Breaker interface {
	IsAIGenerationSuspended() bool
	SuspendAIGeneration()
}

// Stage declares one model call: its prompt identity, which models serve it,
// and whether a failure retries once on the fallback model. The failure
// policy is a property of the stage, not ad hoc control flow at call sites.
type Stage[Out any] struct {
	Name string
	// Model is the primary model for this stage.
	Model string
	// FallbackModel, when set, is tried once after a primary failure.
	FallbackModel string
	System        string
	MaxTokens     int
}

// runStage executes a stage against the generator, honoring the breaker and
// the stage's declared fallback policy. A rate-limit failure trips the
// breaker before returning; all other failures are returned for the
// orchestrator's degrade-or-abort decision.
func runStage[Out any](
	ctx context.Context,
	gen ai.Generator,
	br Breaker,
	log logger.Logger,
	st Stage[Out],
	prompt string,
) Result[Out] {
	if br.IsAIGenerationSuspended() {
		return Fail[Out](ErrGenerationSuspended)
	}

	out, err := callModel[Out](ctx, gen, st, st.Model, prompt)
	if err == nil {
		return Ok(out)
	}

	if errors.Is(err, ai.ErrRateLimited) {
		br.SuspendAIGeneration()
		log.Warn("Rate limit hit, suspending AI generation for this run",
			logger.String("stage", st.Name),
			logger.String("model", st.Model),
		)
		return Fail[Out](err)
	}

	log.Warn("Stage call failed",
		logger.String("stage", st.Name),
		logger.String("model", st.Model),
		logger.Bool("has_fallback", st.FallbackModel != ""),
		logger.Error(err),
	)

	if st.FallbackModel == "" {
		return Fail[Out](err)
	}

	out, err = callModel[Out](ctx, gen, st, st.FallbackModel, prompt)
	if err == nil {
		return Ok(out)
	}

	if errors.Is(err, ai.ErrRateLimited) {
		br.SuspendAIGeneration()
	}

	log.Warn("Fallback model failed",
		logger.String("stage", st.Name),
		logger.String("model", st.FallbackModel),
		logger.Error(err),
	)

	return Fail[Out](err)
}

func callModel[Out any](
	ctx context.Context,
	gen ai.Generator,
	st Stage[Out],
	model, prompt string,
) (Out, error) {
	text, err := gen.Generate(ctx, ai.GenerateRequest{
		Model:     model,
		System:    st.System,
		Prompt:    prompt,
		MaxTokens: st.MaxTokens,
	})
	if err != nil {
		status := metrics.StatusError
		if errors.Is(err, ai.ErrRateLimited) {
			status = metrics.StatusRateLimited
		}
		metrics.AICalls.WithLabelValues(st.Name, model, status).Inc()

		var zero Out
		return zero, err
	}

	out, err := decodeStage[Out](text)
	if err != nil {
		metrics.AICalls.WithLabelValues(st.Name, model, metrics.StatusError).Inc()
		return out, err
	}

	metrics.AICalls.WithLabelValues(st.Name, model, metrics.StatusOK).Inc()
	return out, nil
}
