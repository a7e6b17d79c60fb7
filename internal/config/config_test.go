package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AnalysisLanes != 4 {
		t.Errorf("expected 4 analysis lanes, got %d", cfg.AnalysisLanes)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.SessionHistoryLimit != 10 {
		t.Errorf("expected history limit 10, got %d", cfg.SessionHistoryLimit)
	}
	if cfg.AlternativesTokens <= cfg.AnalysisMaxTokens {
		t.Errorf("alternatives budget %d should exceed base budget %d",
			cfg.AlternativesTokens, cfg.AnalysisMaxTokens)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("ANALYSIS_LANES", "2")
	t.Setenv("TONE_TEMPERATURE", "0.55")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9191" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.LLMProvider != "gemini" {
		t.Errorf("expected provider normalized to lowercase, got %s", cfg.LLMProvider)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.SessionTTL)
	}
	if cfg.AnalysisLanes != 2 {
		t.Errorf("expected 2 lanes, got %d", cfg.AnalysisLanes)
	}
	if cfg.ToneTemperature != 0.55 {
		t.Errorf("expected tone temperature 0.55, got %f", cfg.ToneTemperature)
	}
	if !cfg.RedisTLS {
		t.Error("expected RedisTLS true")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ANALYSIS_LANES", "not-a-number")
	t.Setenv("SESSION_SWEEP_INTERVAL", "soon")

	cfg := Load()

	if cfg.AnalysisLanes != 4 {
		t.Errorf("expected fallback to 4 lanes, got %d", cfg.AnalysisLanes)
	}
	if cfg.SessionSweepInterval != 10*time.Minute {
		t.Errorf("expected fallback sweep interval, got %s", cfg.SessionSweepInterval)
	}
}
