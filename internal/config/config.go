package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// LLM provider selection and credentials
	LLMProvider        string // "bedrock", "gemini", or "auto"
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	BedrockModelID     string
	GeminiAPIKey       string
	GeminiModelID      string

	// Analysis pipeline tuning
	AnalysisLanes        int
	AnalysisMaxTokens    int
	AlternativesTokens   int
	AnalysisTimeout      time.Duration
	IntentTemperature    float64
	ToneTemperature      float64
	ImpactTemperature    float64
	AlternativesTemp     float64

	// Session store
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SessionHistoryLimit  int

	// Analysis event log (optional Redis mirror of pipeline events)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	EventLogTTL   time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:        strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "auto"))),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		BedrockModelID:     getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:      getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		AnalysisLanes:      getEnvAsInt("ANALYSIS_LANES", 4),
		AnalysisMaxTokens:  getEnvAsInt("ANALYSIS_MAX_TOKENS", 512),
		AlternativesTokens: getEnvAsInt("ALTERNATIVES_MAX_TOKENS", 1024),
		AnalysisTimeout:    getEnvAsDuration("ANALYSIS_TIMEOUT", 60*time.Second),
		IntentTemperature:  getEnvAsFloat("INTENT_TEMPERATURE", 0.2),
		ToneTemperature:    getEnvAsFloat("TONE_TEMPERATURE", 0.3),
		ImpactTemperature:  getEnvAsFloat("IMPACT_TEMPERATURE", 0.2),
		AlternativesTemp:   getEnvAsFloat("ALTERNATIVES_TEMPERATURE", 0.7),

		SessionTTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		SessionSweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		SessionHistoryLimit:  getEnvAsInt("SESSION_HISTORY_LIMIT", 10),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		EventLogTTL:   getEnvAsDuration("EVENT_LOG_TTL", 24*time.Hour),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
