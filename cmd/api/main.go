package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/saywise/saywise-ai-platform/cmd/mainconfig"
	"github.com/saywise/saywise-ai-platform/internal/analysis"
	"github.com/saywise/saywise-ai-platform/internal/api/router"
	appconfig "github.com/saywise/saywise-ai-platform/internal/config"
	"github.com/saywise/saywise-ai-platform/internal/http/handlers"
	"github.com/saywise/saywise-ai-platform/internal/modelruntime"
	"github.com/saywise/saywise-ai-platform/internal/observability/metrics"
	"github.com/saywise/saywise-ai-platform/internal/session"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting saywise-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	analysisMetrics := metrics.NewAnalysisMetrics(prometheus.DefaultRegisterer)

	ctx := context.Background()
	runtime, cleanup := buildRuntime(ctx, cfg, logger)
	defer cleanup()

	var pool *modelruntime.Pool
	if runtime != nil {
		pool = modelruntime.NewPool(runtime, cfg.AnalysisLanes, int32(cfg.AnalysisMaxTokens))
	} else {
		logger.Warn("no model runtime configured, analysis endpoints will return 503")
	}

	sink := buildEventSink(cfg, logger)

	svc := analysis.NewService(pool, analysis.DefaultPrompts(), sink, analysisMetrics, logger, analysis.Options{
		IntentTemperature:       float32(cfg.IntentTemperature),
		ToneTemperature:         float32(cfg.ToneTemperature),
		ImpactTemperature:       float32(cfg.ImpactTemperature),
		AlternativesTemperature: float32(cfg.AlternativesTemp),
		AlternativesMaxTokens:   int32(cfg.AlternativesTokens),
	})

	store := session.NewStore(session.Config{
		TTL:           cfg.SessionTTL,
		SweepInterval: cfg.SessionSweepInterval,
		HistoryLimit:  cfg.SessionHistoryLimit,
	}, analysisMetrics, logger)
	store.StartSweeper()

	r := router.New(&router.Config{
		Logger:         logger,
		Analysis:       handlers.NewAnalysisHandler(svc, store, logger),
		Sessions:       handlers.NewSessionHandler(store, logger),
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AnalysisTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	store.StopSweeper()
	logger.Info("server stopped")
}

// buildRuntime assembles the model runtime from configuration. With both
// providers configured, Bedrock is primary and Gemini rescues its failures.
// Returns a nil runtime when neither provider is configured.
func buildRuntime(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (modelruntime.Runtime, func()) {
	cleanup := func() {}

	var bedrock modelruntime.Runtime
	if cfg.LLMProvider != "gemini" && cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		bedrock = modelruntime.NewBedrockRuntime(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
		logger.Info("bedrock runtime configured", "model_id", cfg.BedrockModelID)
	}

	var gemini *modelruntime.GeminiRuntime
	if cfg.LLMProvider != "bedrock" && cfg.GeminiAPIKey != "" {
		g, err := modelruntime.NewGeminiRuntime(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini runtime", "error", err)
			os.Exit(1)
		}
		gemini = g
		cleanup = func() { _ = g.Close() }
		logger.Info("gemini runtime configured", "model_id", cfg.GeminiModelID)
	}

	switch {
	case bedrock != nil && gemini != nil:
		return modelruntime.NewFallbackRuntime(bedrock, gemini, logger), cleanup
	case bedrock != nil:
		return bedrock, cleanup
	case gemini != nil:
		return gemini, cleanup
	default:
		return nil, cleanup
	}
}

// buildEventSink composes the pipeline event sinks: structured logs always,
// plus a Redis mirror when an address is configured.
func buildEventSink(cfg *appconfig.Config, logger *logging.Logger) analysis.EventSink {
	logSink := analysis.NewLogSink(logger)
	if cfg.RedisAddr == "" {
		return logSink
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	logger.Info("redis event log enabled", "addr", cfg.RedisAddr)
	return analysis.MultiSink{logSink, analysis.NewRedisEventLog(client, cfg.EventLogTTL, logger)}
}
