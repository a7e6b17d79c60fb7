package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/saywise/saywise-ai-platform/internal/modelruntime"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

const eventLogCap = 200

// PipelineEvent is one recorded pipeline event, stored newest-first.
type PipelineEvent struct {
	Time    string `json:"time"`
	Event   string `json:"event"`
	Kind    string `json:"kind"`
	Attempt int    `json:"attempt,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// RedisEventLog mirrors pipeline events into Redis so recent generations can
// be inspected per session. It implements EventSink; failures are logged and
// swallowed, never surfaced to the pipeline.
type RedisEventLog struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	tracer trace.Tracer
}

// NewRedisEventLog creates a Redis-backed event log with the given retention.
func NewRedisEventLog(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisEventLog {
	if client == nil {
		panic("analysis: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisEventLog{
		redis:  client,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("saywise.internal.analysis.eventlog"),
	}
}

func eventLogKey(sessionID string) string {
	return fmt.Sprintf("analysis_events:%s", sessionID)
}

func (l *RedisEventLog) OnRequest(ctx context.Context, sessionID string, kind Kind, prompt string, opts modelruntime.DecodeOptions) {
	l.push(ctx, sessionID, PipelineEvent{
		Event:  "request",
		Kind:   string(kind),
		Detail: fmt.Sprintf("prompt_len=%d temperature=%.2f max_tokens=%d", len(prompt), opts.Temperature, opts.MaxTokens),
	})
}

func (l *RedisEventLog) OnResponse(ctx context.Context, sessionID string, kind Kind, raw string) {
	detail := raw
	if len(detail) > 500 {
		detail = detail[:500] + "..."
	}
	l.push(ctx, sessionID, PipelineEvent{
		Event:  "response",
		Kind:   string(kind),
		Detail: detail,
	})
}

func (l *RedisEventLog) OnError(ctx context.Context, sessionID string, kind Kind, message string, attempt int) {
	l.push(ctx, sessionID, PipelineEvent{
		Event:   "error",
		Kind:    string(kind),
		Attempt: attempt,
		Detail:  message,
	})
}

func (l *RedisEventLog) push(ctx context.Context, sessionID string, evt PipelineEvent) {
	if sessionID == "" {
		return
	}
	ctx, span := l.tracer.Start(ctx, "analysis.eventlog.push")
	defer span.End()

	evt.Time = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(evt)
	if err != nil {
		span.RecordError(err)
		l.logger.Warn("failed to marshal pipeline event", "error", err)
		return
	}

	key := eventLogKey(sessionID)
	pipe := l.redis.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, eventLogCap-1)
	pipe.Expire(ctx, key, l.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		l.logger.Warn("failed to persist pipeline event", "error", err, "session_id", sessionID)
	}
}

// Recent returns up to limit most recent events for a session, newest first.
func (l *RedisEventLog) Recent(ctx context.Context, sessionID string, limit int) ([]PipelineEvent, error) {
	ctx, span := l.tracer.Start(ctx, "analysis.eventlog.recent")
	defer span.End()

	if limit <= 0 || limit > eventLogCap {
		limit = eventLogCap
	}
	raw, err := l.redis.LRange(ctx, eventLogKey(sessionID), 0, int64(limit-1)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("analysis: failed to read event log: %w", err)
	}

	events := make([]PipelineEvent, 0, len(raw))
	for _, item := range raw {
		var evt PipelineEvent
		if err := json.Unmarshal([]byte(item), &evt); err != nil {
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}
