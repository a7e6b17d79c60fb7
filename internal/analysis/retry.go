package analysis

import (
	"context"

	"github.com/saywise/saywise-ai-platform/internal/modelruntime"
	"github.com/saywise/saywise-ai-platform/internal/observability/metrics"
	"github.com/saywise/saywise-ai-platform/internal/schema"
)

// maxAttempts bounds one logical generation: the initial attempt plus one
// corrective retry. Model calls are latency-dominant, so there is no backoff
// between attempts.
const maxAttempts = 2

// generateWithRetry wraps generate with the corrective-retry policy. Parse,
// validation, and truncation failures are recovered once by rebuilding the
// prompt with structured feedback; a second failure of any kind surfaces as
// an ExhaustedError. Non-generation errors (runtime/transport) pass through
// unretried.
func generateWithRetry[T any](
	ctx context.Context,
	lane *modelruntime.Lane,
	sessionID string,
	kind Kind,
	message string,
	priorContext string,
	sch *schema.Schema,
	opts modelruntime.DecodeOptions,
	prompts Prompts,
	sink EventSink,
	m *metrics.AnalysisMetrics,
) (T, error) {
	var zero T

	builder := prompts.For(kind)
	if builder == nil {
		return zero, &GenerationError{Kind: FailureParse, cause: errNoPromptBuilder(kind)}
	}
	prompt := builder(message, priorContext)

	out, err := generate[T](ctx, lane, sessionID, kind, prompt, sch, opts, sink, 1)
	if err == nil {
		m.ObserveGeneration(string(kind), "ok")
		return out, nil
	}

	genErr, ok := retryable(err)
	if !ok {
		m.ObserveGeneration(string(kind), "runtime_error")
		return zero, err
	}
	m.ObserveRetry(string(kind), string(genErr.Kind))

	retryPrompt := prompts.Retry(prompt, err)
	out, err = generate[T](ctx, lane, sessionID, kind, retryPrompt, sch, opts, sink, 2)
	if err == nil {
		m.ObserveGeneration(string(kind), "ok_after_retry")
		return out, nil
	}

	m.ObserveGeneration(string(kind), "exhausted")
	return zero, &ExhaustedError{Attempts: maxAttempts, Last: err}
}

type errNoPromptBuilder Kind

func (e errNoPromptBuilder) Error() string {
	return "analysis: no prompt builder for kind " + string(e)
}
