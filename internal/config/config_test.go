package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefing-server/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("SERPAPI_API_KEY", "serp-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 600*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.AIModel)
	assert.InDelta(t, 0.7, cfg.AITemperature, 0.001)
	assert.Equal(t, 2000, cfg.AIMaxTokens)
	assert.Equal(t, "prompts", cfg.PromptsDir)
	assert.Equal(t, []string{"serpapi", "brave"}, cfg.SearchProviderOrder)
	assert.Equal(t, 1500, cfg.SearchResultTokenBudget)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AI_MODEL", "gpt-4o")
	t.Setenv("SEARCH_PROVIDER_ORDER", "brave")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "gpt-4o", cfg.AIModel)
	assert.Equal(t, []string{"brave"}, cfg.SearchProviderOrder)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("AI API key is required", func(t *testing.T) {
		t.Setenv("AI_API_KEY", "")
		t.Setenv("SERPAPI_API_KEY", "serp-test")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AI_API_KEY")
	})

	t.Run("at least one search key is required", func(t *testing.T) {
		t.Setenv("AI_API_KEY", "sk-test")
		t.Setenv("SERPAPI_API_KEY", "")
		t.Setenv("BRAVE_API_KEY", "")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search API key")
	})

	t.Run("brave key alone is enough", func(t *testing.T) {
		t.Setenv("AI_API_KEY", "sk-test")
		t.Setenv("SERPAPI_API_KEY", "")
		t.Setenv("BRAVE_API_KEY", "brave-test")

		_, err := config.Load()
		assert.NoError(t, err)
	})

	t.Run("unknown search provider is rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SEARCH_PROVIDER_ORDER", "serpapi,bing")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bing")
	})

	t.Run("token budget must be positive", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SEARCH_RESULT_TOKEN_BUDGET", "0")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
