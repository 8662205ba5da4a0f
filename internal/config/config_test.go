package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WP_URL", "https://blog.example")
	t.Setenv("WP_USER", "admin")
	t.Setenv("WP_PASSWORD", "secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	// Clear optional knobs that may leak from the host environment.
	for _, key := range []string{
		"SCHEDULE", "RUN_ONCE", "TOPIC_SOURCE", "TOPIC", "LLM_PROVIDER",
		"POST_LANGUAGE", "ALLOWED_SLUGS", "CATEGORY", "RUNWARE_API_KEY",
		"DATABASE_URL", "DEBUG", "REQUEST_TIMEOUT", "RETRY_ATTEMPTS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"0 13 * * *"}, cfg.Schedules)
	assert.Equal(t, TopicSourceModel, cfg.TopicSource)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "id", cfg.PostLanguage)
	assert.Equal(t, []string{"ai", "tech", "animanga", "game"}, cfg.AllowedSlugs)
	assert.Equal(t, "used_titles.json", cfg.UsedTitlesPath)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCHEDULE", "0 8 * * *, 0 18 * * *")
	t.Setenv("ALLOWED_SLUGS", "news, reviews")
	t.Setenv("POST_LANGUAGE", "en")
	t.Setenv("TOPIC_SOURCE", "feeds")
	t.Setenv("REQUEST_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"0 8 * * *", "0 18 * * *"}, cfg.Schedules)
	assert.Equal(t, []string{"news", "reviews"}, cfg.AllowedSlugs)
	assert.Equal(t, "en", cfg.PostLanguage)
	assert.Equal(t, TopicSourceFeeds, cfg.TopicSource)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
}

func TestValidate_MissingWordPressCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("WP_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_GeminiProviderNeedsKey(t *testing.T) {
	setRequired(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_UnknownTopicSource(t *testing.T) {
	setRequired(t)
	t.Setenv("TOPIC_SOURCE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_UnknownLanguage(t *testing.T) {
	setRequired(t)
	t.Setenv("POST_LANGUAGE", "fr")

	_, err := Load()
	require.Error(t, err)
}
