package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifiers accepted by the analysis pipeline.
const (
	ProviderGemini     = "gemini"
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string

	GeminiAPIKey     string
	GroqAPIKey       string
	OpenRouterAPIKey string

	DefaultProvider string
	DefaultModel    string
	DefaultLanguage string

	// RequestDelay is the pause between consecutive provider calls within
	// one run, to stay under free-tier rate limits.
	RequestDelay time.Duration
	MaxAttempts  int

	// Fallback segmentation is triggered when the deterministic pass finds
	// fewer than MinQuestions valid units and the input is longer than
	// MinTextLen characters.
	SegmentMinQuestions int
	SegmentMinTextLen   int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		Env:             env,

		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GroqAPIKey:       strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		OpenRouterAPIKey: strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),

		DefaultProvider: normalizeProvider(getEnv("LLM_PROVIDER", ProviderGemini)),
		DefaultModel:    getEnv("LLM_MODEL", "gemini-2.0-flash"),
		DefaultLanguage: normalizeLanguage(getEnv("ANALYSIS_LANGUAGE", "th")),

		RequestDelay: getEnvDuration("ANALYSIS_REQUEST_DELAY", 1500*time.Millisecond),
		MaxAttempts:  getEnvInt("ANALYSIS_MAX_ATTEMPTS", 3),

		SegmentMinQuestions: getEnvInt("SEGMENT_MIN_QUESTIONS", 2),
		SegmentMinTextLen:   getEnvInt("SEGMENT_MIN_TEXT_LEN", 300),
	}
}

// GeminiAvailable reports whether the Gemini key looks usable.
// Key length checks mirror the providers' observed key formats.
func (c Config) GeminiAvailable() bool { return len(c.GeminiAPIKey) > 30 }

// GroqAvailable reports whether the Groq key looks usable.
func (c Config) GroqAvailable() bool { return len(c.GroqAPIKey) > 20 }

// OpenRouterAvailable reports whether the OpenRouter key looks usable.
func (c Config) OpenRouterAvailable() bool { return len(c.OpenRouterAPIKey) > 20 }

// ModelFor returns the model to use with a provider. LLM_MODEL applies to
// the configured default provider; other providers fall back to their
// free-tier workhorse models.
func (c Config) ModelFor(provider string) string {
	if provider == c.DefaultProvider && c.DefaultModel != "" {
		return c.DefaultModel
	}
	switch provider {
	case ProviderGroq:
		return "llama-3.3-70b-versatile"
	case ProviderOpenRouter:
		return "meta-llama/llama-3.3-70b-instruct:free"
	default:
		return "gemini-2.0-flash"
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config env %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val < 0 {
		log.Printf("config env %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ProviderGroq:
		return ProviderGroq
	case ProviderOpenRouter:
		return ProviderOpenRouter
	default:
		return ProviderGemini
	}
}

func normalizeLanguage(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "en") {
		return "en"
	}
	return "th"
}
