package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	APIKey             string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Primary speech provider (OpenAI-compatible endpoint)
	OpenAIKey    string
	OpenAITTSURL string // Override base URL for the primary provider (empty = api.openai.com)

	// Local fallback provider — same API surface, no auth token.
	// Tried only when the primary is unreachable at the connection level.
	LocalTTSURL string

	// Gemini (optional extra provider appended to the fallback chain)
	GeminiKey string

	// Translation-engine TTS fallback
	TranslateLang string

	// Redis (optional — when set, audio records live in Redis with TTL eviction
	// instead of the in-process map)
	RedisURL string

	// Limits and retention
	MaxTextLength int
	Retention     time.Duration // Audio records older than this are evicted
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		APIKey:             getEnv("API_KEY", ""),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAITTSURL:       getEnv("OPENAI_TTS_URL", ""),
		LocalTTSURL:        getEnv("LOCAL_TTS_URL", ""),
		GeminiKey:          getEnv("GEMINI_API_KEY", ""),
		TranslateLang:      getEnv("TRANSLATE_TTS_LANG", "es"),
		RedisURL:           getEnv("REDIS_URL", ""),
		MaxTextLength:      getEnvInt("MAX_TEXT_LENGTH", 500000),
		Retention:          getEnvDuration("RETENTION_WINDOW", time.Hour),
		SweepInterval:      getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),
	}

	// All providers are optional — with nothing configured the service still
	// answers every request from the translation fallback or the placeholder.
	if cfg.MaxTextLength <= 0 {
		return nil, fmt.Errorf("MAX_TEXT_LENGTH must be positive")
	}

	if cfg.Retention <= 0 {
		return nil, fmt.Errorf("RETENTION_WINDOW must be positive")
	}

	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
