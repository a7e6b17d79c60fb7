package modelruntime

import (
	"context"

	"github.com/saywise/saywise-ai-platform/internal/schema"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

// FallbackRuntime wraps a primary runtime with a fallback provider. If the
// primary fails, the decode is retried once against the fallback.
type FallbackRuntime struct {
	primary  Runtime
	fallback Runtime
	logger   *logging.Logger
}

// NewFallbackRuntime creates a fallback-enabled runtime. If fallback is nil,
// only the primary provider is used.
func NewFallbackRuntime(primary, fallback Runtime, logger *logging.Logger) *FallbackRuntime {
	if primary == nil {
		panic("modelruntime: primary runtime cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackRuntime{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Decode tries the primary runtime and falls back to the secondary on error.
func (r *FallbackRuntime) Decode(ctx context.Context, prompt string, grammar *schema.Schema, opts DecodeOptions) (string, error) {
	text, err := r.primary.Decode(ctx, prompt, grammar, opts)
	if err == nil {
		return text, nil
	}

	r.logger.Warn("primary model runtime failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", r.fallback != nil,
	)

	if r.fallback == nil {
		return "", err
	}

	text, fallbackErr := r.fallback.Decode(ctx, prompt, grammar, opts)
	if fallbackErr != nil {
		r.logger.Error("fallback model runtime also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return "", fallbackErr
	}

	r.logger.Info("fallback model runtime succeeded after primary failure")
	return text, nil
}
