package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/batchgen/internal/config"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.APIKeyEnv)
	assert.Equal(t, 8192, cfg.MaxOutputTokens)
	assert.InDelta(t, 0.4, cfg.Temperature, 1e-9)
	assert.True(t, cfg.JSONMode)
	assert.Equal(t, 5, cfg.MaxBatches)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 1000, cfg.RetryBaseDelayMs)
	assert.Equal(t, 20, cfg.TargetedPreviewLimit)
	assert.Equal(t, 120, cfg.InactivityTimeout)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, ".batchgen", cfg.StateDir)
	assert.Equal(t, "http://127.0.0.1:18789/webhook", cfg.NotifyWebhook)
	assert.Equal(t, "telegram", cfg.NotifyChannel)
	assert.Empty(t, cfg.NotifyChatID)
	assert.False(t, cfg.Verbose)
}

func TestDurations(t *testing.T) {
	cfg := config.NewDefaultConfig()
	assert.Equal(t, time.Second, cfg.RetryBaseDelay())
	assert.Equal(t, 2*time.Minute, cfg.InactivityTimeoutDuration())
}

func TestWhitelistHasNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range config.WhitelistedVars {
		assert.False(t, seen[v], "duplicate whitelist entry %s", v)
		seen[v] = true
	}
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, ".batchgen/config", config.ProjectConfigPath(".batchgen"))
}
