package analysis

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/saywise/saywise-ai-platform/internal/modelruntime"
	"github.com/saywise/saywise-ai-platform/internal/observability/metrics"
	"github.com/saywise/saywise-ai-platform/internal/schema"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

// Options carries the per-kind sampling configuration. Intent and impact run
// cool for determinism, tone slightly warmer, alternatives warm for variety.
type Options struct {
	IntentTemperature       float32
	ToneTemperature         float32
	ImpactTemperature       float32
	AlternativesTemperature float32

	// AlternativesMaxTokens overrides the lane default for the alternatives
	// generation, which produces the longest output of the four.
	AlternativesMaxTokens int32
}

// DefaultOptions returns the sampling configuration used when none is set.
func DefaultOptions() Options {
	return Options{
		IntentTemperature:       0.2,
		ToneTemperature:         0.3,
		ImpactTemperature:       0.2,
		AlternativesTemperature: 0.7,
		AlternativesMaxTokens:   1024,
	}
}

// Service runs message analyses against a lane pool. The four-way batch is
// all-or-nothing: one failed lane fails the whole batch.
type Service struct {
	pool    *modelruntime.Pool
	prompts Prompts
	sink    EventSink
	metrics *metrics.AnalysisMetrics
	logger  *logging.Logger
	tracer  trace.Tracer
	opts    Options
}

// NewService creates the analysis service. A nil pool is allowed so the HTTP
// surface can come up before a model runtime is configured; operations then
// fail with ErrNotInitialized. metrics and sink may be nil.
func NewService(pool *modelruntime.Pool, prompts Prompts, sink EventSink, m *metrics.AnalysisMetrics, logger *logging.Logger, opts Options) *Service {
	if prompts.Retry == nil {
		prompts = DefaultPrompts()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	return &Service{
		pool:    pool,
		prompts: prompts,
		sink:    sinkOrNop(sink),
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("saywise.internal.analysis"),
		opts:    opts,
	}
}

func (s *Service) decodeOptions(kind Kind) modelruntime.DecodeOptions {
	switch kind {
	case KindIntent:
		return modelruntime.DecodeOptions{Temperature: s.opts.IntentTemperature}
	case KindTone:
		return modelruntime.DecodeOptions{Temperature: s.opts.ToneTemperature}
	case KindImpact:
		return modelruntime.DecodeOptions{Temperature: s.opts.ImpactTemperature}
	case KindAlternatives:
		return modelruntime.DecodeOptions{
			Temperature: s.opts.AlternativesTemperature,
			MaxTokens:   s.opts.AlternativesMaxTokens,
		}
	default:
		return modelruntime.DecodeOptions{}
	}
}

// AnalyzeBatched runs all four analyses concurrently on dedicated lanes and
// joins them into one bundle. Lanes are held for the whole batch and released
// together, success or failure.
func (s *Service) AnalyzeBatched(ctx context.Context, sessionID, message, priorContext string) (*Bundle, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	ctx, span := s.tracer.Start(ctx, "analysis.batch")
	defer span.End()
	start := time.Now()

	lanes, release, err := s.pool.Acquire(ctx, len(Kinds()))
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBatch("lane_acquire_failed", time.Since(start).Seconds())
		return nil, err
	}
	defer release()

	var bundle Bundle
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := generateWithRetry[IntentResult](gctx, lanes[0], sessionID, KindIntent,
			message, priorContext, intentSchema(), s.decodeOptions(KindIntent), s.prompts, s.sink, s.metrics)
		if err != nil {
			return &BatchError{Kind: KindIntent, Err: err}
		}
		bundle.Intent = out
		return nil
	})
	g.Go(func() error {
		out, err := generateWithRetry[ToneResult](gctx, lanes[1], sessionID, KindTone,
			message, priorContext, toneSchema(), s.decodeOptions(KindTone), s.prompts, s.sink, s.metrics)
		if err != nil {
			return &BatchError{Kind: KindTone, Err: err}
		}
		CleanTone(&out)
		bundle.Tone = out
		return nil
	})
	g.Go(func() error {
		out, err := generateWithRetry[ImpactResult](gctx, lanes[2], sessionID, KindImpact,
			message, priorContext, impactSchema(), s.decodeOptions(KindImpact), s.prompts, s.sink, s.metrics)
		if err != nil {
			return &BatchError{Kind: KindImpact, Err: err}
		}
		NormalizeImpact(&out)
		bundle.Impact = out
		return nil
	})
	g.Go(func() error {
		out, err := generateWithRetry[alternativesPayload](gctx, lanes[3], sessionID, KindAlternatives,
			message, priorContext, alternativesSchema(), s.decodeOptions(KindAlternatives), s.prompts, s.sink, s.metrics)
		if err != nil {
			return &BatchError{Kind: KindAlternatives, Err: err}
		}
		bundle.Alternatives = FilterAlternatives(out.Alternatives)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		s.metrics.ObserveBatch("error", time.Since(start).Seconds())
		s.logger.Error("analysis batch failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	s.metrics.ObserveBatch("ok", time.Since(start).Seconds())
	s.logger.Info("analysis batch complete",
		"session_id", sessionID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &bundle, nil
}

// AnalyzeIntent runs the intent analysis alone on a single lane.
func (s *Service) AnalyzeIntent(ctx context.Context, sessionID, message, priorContext string) (*IntentResult, error) {
	out, err := runSingle[IntentResult](ctx, s, KindIntent, sessionID, message, priorContext, intentSchema())
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeTone runs the tone analysis alone and applies the tone cleaner.
func (s *Service) AnalyzeTone(ctx context.Context, sessionID, message, priorContext string) (*ToneResult, error) {
	out, err := runSingle[ToneResult](ctx, s, KindTone, sessionID, message, priorContext, toneSchema())
	if err != nil {
		return nil, err
	}
	CleanTone(out)
	return out, nil
}

// PredictImpact runs the impact prediction alone and normalizes the scores.
func (s *Service) PredictImpact(ctx context.Context, sessionID, message, priorContext string) (*ImpactResult, error) {
	out, err := runSingle[ImpactResult](ctx, s, KindImpact, sessionID, message, priorContext, impactSchema())
	if err != nil {
		return nil, err
	}
	NormalizeImpact(out)
	return out, nil
}

// GenerateAlternatives runs the alternatives generation alone and filters the
// suggestions.
func (s *Service) GenerateAlternatives(ctx context.Context, sessionID, message, priorContext string) ([]Alternative, error) {
	out, err := runSingle[alternativesPayload](ctx, s, KindAlternatives, sessionID, message, priorContext, alternativesSchema())
	if err != nil {
		return nil, err
	}
	return FilterAlternatives(out.Alternatives), nil
}

func runSingle[T any](ctx context.Context, s *Service, kind Kind, sessionID, message, priorContext string, sch *schema.Schema) (*T, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	ctx, span := s.tracer.Start(ctx, "analysis."+string(kind))
	defer span.End()

	lanes, release, err := s.pool.Acquire(ctx, 1)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer release()

	out, err := generateWithRetry[T](ctx, lanes[0], sessionID, kind,
		message, priorContext, sch, s.decodeOptions(kind), s.prompts, s.sink, s.metrics)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &out, nil
}
