package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Topic source strategies.
const (
	TopicSourceFeeds = "feeds"
	TopicSourceModel = "model"
)

// LLM rewrite providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is built once at startup and passed into component constructors.
// Nothing re-reads the environment after Load returns.
type Config struct {
	// Scheduling
	Schedules []string // cron expressions, one run per trigger
	RunOnce   bool     // execute a single run immediately and exit

	// Topic selection
	TopicSource     string // "feeds" or "model"
	FeedsConfigPath string
	Topic           string // optional filter/search query

	// Rewrite settings
	LLMProvider       string // "openai" or "gemini"
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAISearchModel string // web-search capable model for topic discovery
	GeminiAPIKey      string
	GeminiModel       string
	PostLanguage      string   // "id" or "en"
	AllowedSlugs      []string // category slugs the model may emit
	ForcedCategory    string   // overrides the model's slug when set

	// Image generation (disabled when RunwareAPIKey is empty)
	RunwareAPIKey string

	// WordPress target
	WordPressURL      string
	WordPressUser     string
	WordPressPassword string

	// Duplicate store
	UsedTitlesPath string
	DatabaseURL    string // when set, titles live in Postgres instead of the file

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Schedules:         []string{"0 13 * * *"},
		TopicSource:       TopicSourceModel,
		FeedsConfigPath:   "configs/feeds.yaml",
		LLMProvider:       ProviderOpenAI,
		OpenAIModel:       "o3-mini",
		OpenAISearchModel: "gpt-4o-mini-search-preview",
		GeminiModel:       "gemini-1.5-flash",
		PostLanguage:      "id",
		AllowedSlugs:      []string{"ai", "tech", "animanga", "game"},
		UsedTitlesPath:    "used_titles.json",
		RequestTimeout:    60 * time.Second,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Second,
	}

	if v := os.Getenv("SCHEDULE"); v != "" {
		cfg.Schedules = splitAndTrim(v)
	}
	if os.Getenv("RUN_ONCE") == "true" {
		cfg.RunOnce = true
	}

	cfg.TopicSource = getEnvOrDefault("TOPIC_SOURCE", cfg.TopicSource)
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.Topic = os.Getenv("TOPIC")

	cfg.LLMProvider = getEnvOrDefault("LLM_PROVIDER", cfg.LLMProvider)
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = getEnvOrDefault("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAISearchModel = getEnvOrDefault("OPENAI_SEARCH_MODEL", cfg.OpenAISearchModel)
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	cfg.PostLanguage = getEnvOrDefault("POST_LANGUAGE", cfg.PostLanguage)
	if v := os.Getenv("ALLOWED_SLUGS"); v != "" {
		cfg.AllowedSlugs = splitAndTrim(v)
	}
	cfg.ForcedCategory = os.Getenv("CATEGORY")

	cfg.RunwareAPIKey = os.Getenv("RUNWARE_API_KEY")

	cfg.WordPressURL = strings.TrimRight(os.Getenv("WP_URL"), "/")
	cfg.WordPressUser = os.Getenv("WP_USER")
	cfg.WordPressPassword = os.Getenv("WP_PASSWORD")

	cfg.UsedTitlesPath = getEnvOrDefault("USED_TITLES_PATH", cfg.UsedTitlesPath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	if v := os.Getenv("RETRY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RetryDelay = d
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.WordPressURL == "" {
		return fmt.Errorf("WP_URL is required")
	}
	if c.WordPressUser == "" || c.WordPressPassword == "" {
		return fmt.Errorf("WP_USER and WP_PASSWORD are required")
	}
	if c.TopicSource != TopicSourceFeeds && c.TopicSource != TopicSourceModel {
		return fmt.Errorf("TOPIC_SOURCE must be %q or %q", TopicSourceFeeds, TopicSourceModel)
	}
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q", ProviderOpenAI, ProviderGemini)
	}
	if c.TopicSource == TopicSourceModel && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for the model topic source")
	}
	if c.PostLanguage != "id" && c.PostLanguage != "en" {
		return fmt.Errorf("POST_LANGUAGE must be 'id' or 'en'")
	}
	if len(c.AllowedSlugs) == 0 {
		return fmt.Errorf("ALLOWED_SLUGS must not be empty")
	}
	if len(c.Schedules) == 0 && !c.RunOnce {
		return fmt.Errorf("SCHEDULE must not be empty")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
