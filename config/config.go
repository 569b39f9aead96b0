package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type Config struct {
	Env  string
	Port string

	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	RDAPBaseURL  string
	RedisAddr    string
	DomainAgeTTL time.Duration
	ChromePath   string
	SkipChromedp bool
	HistorySize  int
}

func (c Config) IsDevelopment() bool { return c.Env == "development" }
func (c Config) IsProduction() bool  { return c.Env == "production" }

// Load reads configuration from the environment. Credentials for the selected
// AI provider are required; a missing key is returned as an error so the
// process can refuse to start.
func Load() (Config, error) {
	cfg := Config{
		Env:  getenv("APP_ENV", "development"),
		Port: getenv("PORT", "8080"),

		AIProvider:    strings.ToLower(getenv("AI_PROVIDER", ProviderGemini)),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		RDAPBaseURL:  getenv("RDAP_BASE_URL", "https://rdap.org"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		DomainAgeTTL: getenvDuration("DOMAIN_AGE_CACHE_TTL", 24*time.Hour),
		ChromePath:   os.Getenv("CHROME_PATH"),
		SkipChromedp: os.Getenv("SKIP_CHROMEDP") == "true",
		HistorySize:  getenvInt("HISTORY_SIZE", 50),
	}

	switch cfg.AIProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return cfg, fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=%s", ProviderGemini)
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return cfg, fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=%s", ProviderOpenAI)
		}
	case ProviderNone:
	default:
		return cfg, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}

	if cfg.HistorySize <= 0 {
		return cfg, fmt.Errorf("HISTORY_SIZE must be > 0, got %d", cfg.HistorySize)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
