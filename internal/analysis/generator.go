package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/saywise/saywise-ai-platform/internal/modelruntime"
	"github.com/saywise/saywise-ai-platform/internal/schema"
)

// generate runs one schema-constrained generation on a lane and decodes the
// result into T. On success the returned value has passed both schema
// validation and the truncation check; on failure no partial value escapes.
func generate[T any](
	ctx context.Context,
	lane *modelruntime.Lane,
	sessionID string,
	kind Kind,
	prompt string,
	sch *schema.Schema,
	opts modelruntime.DecodeOptions,
	sink EventSink,
	attempt int,
) (T, error) {
	var zero T
	sink = sinkOrNop(sink)

	sink.OnRequest(ctx, sessionID, kind, prompt, opts)

	raw, err := lane.Decode(ctx, prompt, sch, opts)
	if err != nil {
		sink.OnError(ctx, sessionID, kind, err.Error(), attempt)
		return zero, err
	}
	sink.OnResponse(ctx, sessionID, kind, raw)

	text, generic, err := parseConstrained(raw)
	if err != nil {
		genErr := &GenerationError{Kind: FailureParse, cause: err}
		sink.OnError(ctx, sessionID, kind, genErr.Error(), attempt)
		return zero, genErr
	}

	if fields := sch.Validate(generic); len(fields) > 0 {
		genErr := &GenerationError{Kind: FailureValidation, Fields: fields}
		sink.OnError(ctx, sessionID, kind, genErr.Error(), attempt)
		return zero, genErr
	}

	if trunc := schema.DetectTruncation(generic); trunc != nil {
		genErr := &GenerationError{Kind: FailureTruncation, Path: trunc.Path, Fragment: trunc.Fragment}
		sink.OnError(ctx, sessionID, kind, genErr.Error(), attempt)
		return zero, genErr
	}

	var out T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		// The generic decode succeeded, so this only fires on a schema/type
		// mismatch between the declared Schema and T.
		genErr := &GenerationError{Kind: FailureParse, cause: err}
		sink.OnError(ctx, sessionID, kind, genErr.Error(), attempt)
		return zero, genErr
	}
	return out, nil
}

// parseConstrained parses raw model output. The strict parse expects the
// constrained decoder to have produced bare JSON; when it fails, a permissive
// secondary parse trims markdown code fences and extracts the outermost JSON
// object before trying again.
func parseConstrained(raw string) (string, any, error) {
	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err == nil {
		return raw, generic, nil
	}

	text := extractJSONObject(stripCodeFence(raw))
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		return "", nil, err
	}
	return text, generic, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func extractJSONObject(text string) string {
	if strings.HasPrefix(text, "{") {
		return text
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
