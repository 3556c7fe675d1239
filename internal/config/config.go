package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SummarizerMock   = "mock"
	SummarizerOpenAI = "openai"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Summaries
	Summarizer          string
	SummaryDelay        time.Duration
	SummaryTemplateFile string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	Model               string
	// Sessions
	SeedDemoHistory    bool
	SessionIdleTimeout time.Duration
	// Query log: database when DB_URL is set, else the file when set
	DatabaseURL   string
	RunMigrations bool
	QueryLogFile  string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:                getEnvDefault("PORT", "8080"),
		AllowedOrigin:       getEnvDefault("ALLOWED_ORIGIN", "*"),
		Summarizer:          strings.ToLower(getEnvDefault("SUMMARIZER", SummarizerMock)),
		SummaryDelay:        getEnvDurationDefault("SUMMARY_DELAY", 2*time.Second),
		SummaryTemplateFile: os.Getenv("SUMMARY_TEMPLATE_FILE"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		Model:               getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		SeedDemoHistory:     getEnvBoolDefault("SEED_DEMO_HISTORY", true),
		SessionIdleTimeout:  getEnvDurationDefault("SESSION_IDLE_TIMEOUT", 24*time.Hour),
		DatabaseURL:         os.Getenv("DB_URL"),
		RunMigrations:       getEnvBoolDefault("DB_RUN_MIGRATIONS", true),
		QueryLogFile:        os.Getenv("QUERY_LOG_FILE"),
	}
	if cfg.Summarizer == SummarizerOpenAI && cfg.OpenAIAPIKey == "" {
		log.Println("warning: SUMMARIZER=openai but OPENAI_API_KEY is not set; falling back to mock summaries")
		cfg.Summarizer = SummarizerMock
	}
	if cfg.Summarizer != SummarizerOpenAI && cfg.Summarizer != SummarizerMock {
		log.Printf("warning: unknown SUMMARIZER %q; using mock summaries", cfg.Summarizer)
		cfg.Summarizer = SummarizerMock
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d >= 0 {
			return d
		}
		log.Printf("warning: invalid %s=%q, using %s", key, v, def)
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
