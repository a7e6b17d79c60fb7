package analysis

import (
	"errors"
	"fmt"

	"github.com/saywise/saywise-ai-platform/internal/schema"
)

// FailureKind tags what went wrong with one generation attempt. The retry
// layer selects corrective guidance by this tag and the attached field-error
// codes, never by matching error message text.
type FailureKind string

const (
	// FailureParse: model output not decodable as the target shape even
	// after the permissive fallback parse.
	FailureParse FailureKind = "parse"
	// FailureValidation: decodable but schema-invalid.
	FailureValidation FailureKind = "validation"
	// FailureTruncation: schema-valid but a string leaf appears cut off.
	FailureTruncation FailureKind = "truncation"
)

// GenerationError is a single failed generation attempt. Exactly one of the
// detail groups is populated, depending on Kind.
type GenerationError struct {
	Kind FailureKind

	// Validation details.
	Fields []schema.FieldError

	// Truncation details.
	Path     string
	Fragment string

	cause error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case FailureParse:
		return fmt.Sprintf("analysis: output not parseable as target shape: %v", e.cause)
	case FailureValidation:
		return "analysis: output failed schema validation: " + schema.JoinFieldErrors(e.Fields)
	case FailureTruncation:
		return fmt.Sprintf("analysis: output truncated at %s near %q", e.Path, e.Fragment)
	default:
		return "analysis: generation failed"
	}
}

func (e *GenerationError) Unwrap() error { return e.cause }

// ExhaustedError reports that all retry attempts failed. It wraps the last
// underlying error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("analysis: generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// BatchError reports that one of the concurrent analysis lanes failed,
// failing the whole batch. Callers see a single aggregate failure.
type BatchError struct {
	Kind Kind
	Err  error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("analysis: %s lane failed: %v", e.Kind, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// ErrNotInitialized signals the service was invoked before a model runtime
// was configured. It is a caller-misuse signal and is never retried.
var ErrNotInitialized = errors.New("analysis: model runtime not initialized")

// retryable reports whether err is a generation failure the retry layer can
// recover with a corrective prompt.
func retryable(err error) (*GenerationError, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr, true
	}
	return nil, false
}
