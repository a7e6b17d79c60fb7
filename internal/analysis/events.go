package analysis

import (
	"context"

	"github.com/saywise/saywise-ai-platform/internal/modelruntime"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

// EventSink observes the generation pipeline. Implementations are
// fire-and-forget: they are called at fixed points but never affect control
// flow, and errors inside a sink stay inside the sink.
type EventSink interface {
	OnRequest(ctx context.Context, sessionID string, kind Kind, prompt string, opts modelruntime.DecodeOptions)
	OnResponse(ctx context.Context, sessionID string, kind Kind, raw string)
	OnError(ctx context.Context, sessionID string, kind Kind, message string, attempt int)
}

// LogSink emits pipeline events as structured log records.
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink creates a log-backed event sink.
func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) OnRequest(_ context.Context, sessionID string, kind Kind, prompt string, opts modelruntime.DecodeOptions) {
	s.logger.Debug("model request",
		"session_id", sessionID,
		"kind", string(kind),
		"prompt_len", len(prompt),
		"temperature", opts.Temperature,
		"max_tokens", opts.MaxTokens,
	)
}

func (s *LogSink) OnResponse(_ context.Context, sessionID string, kind Kind, raw string) {
	s.logger.Debug("model response",
		"session_id", sessionID,
		"kind", string(kind),
		"raw_len", len(raw),
	)
}

func (s *LogSink) OnError(_ context.Context, sessionID string, kind Kind, message string, attempt int) {
	s.logger.Warn("generation attempt failed",
		"session_id", sessionID,
		"kind", string(kind),
		"attempt", attempt,
		"error", message,
	)
}

// MultiSink fans events out to several sinks.
type MultiSink []EventSink

func (m MultiSink) OnRequest(ctx context.Context, sessionID string, kind Kind, prompt string, opts modelruntime.DecodeOptions) {
	for _, s := range m {
		s.OnRequest(ctx, sessionID, kind, prompt, opts)
	}
}

func (m MultiSink) OnResponse(ctx context.Context, sessionID string, kind Kind, raw string) {
	for _, s := range m {
		s.OnResponse(ctx, sessionID, kind, raw)
	}
}

func (m MultiSink) OnError(ctx context.Context, sessionID string, kind Kind, message string, attempt int) {
	for _, s := range m {
		s.OnError(ctx, sessionID, kind, message, attempt)
	}
}

// sinkOrNop returns a usable sink even when the caller passed nil.
func sinkOrNop(sink EventSink) EventSink {
	if sink == nil {
		return nopSink{}
	}
	return sink
}

type nopSink struct{}

func (nopSink) OnRequest(context.Context, string, Kind, string, modelruntime.DecodeOptions) {}
func (nopSink) OnResponse(context.Context, string, Kind, string)                            {}
func (nopSink) OnError(context.Context, string, Kind, string, int)                          {}
