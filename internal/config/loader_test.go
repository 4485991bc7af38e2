package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/batchgen/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "PROVIDER=ollama\nMODEL=llama3.1\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", m["PROVIDER"])
	assert.Equal(t, "llama3.1", m["MODEL"])
}

func TestLoadFileSkipsCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# comment\n\nPROVIDER=openai\n   \n# another\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.Equal(t, "openai", m["PROVIDER"])
}

func TestLoadFileTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "  MODEL  =  gpt-4o  \n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", m["MODEL"])
}

func TestLoadFileIgnoresUnknownKeysAndLinesWithoutEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "UNKNOWN=x\nnot a pair\nMAX_BATCHES=7\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"MAX_BATCHES": "7"}, m)
}

func TestLoadFileSplitsOnFirstEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "BASE_URL=http://host/v1?a=b\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://host/v1?a=b", m["BASE_URL"])
}

func TestLoadFileMissing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig tests
// ---------------------------------------------------------------------------

func TestApplyMapToConfigAllKeys(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"PROVIDER":               "ollama",
		"MODEL":                  "qwen2.5-coder",
		"BASE_URL":               "http://localhost:11434",
		"API_KEY_ENV":            "MY_KEY",
		"MAX_OUTPUT_TOKENS":      "4096",
		"TEMPERATURE":            "0.1",
		"MAX_BATCHES":            "8",
		"MAX_RETRIES":            "2",
		"RETRY_BASE_DELAY_MS":    "250",
		"TARGETED_PREVIEW_LIMIT": "5",
		"INACTIVITY_TIMEOUT":     "30",
		"OUTPUT_DIR":             "out",
		"PROJECT_DIR":            "src",
		"INCLUDE":                "**/*.go, go.mod ,",
		"STATE_DIR":              ".state",
		"LOG_FILE":               "run.log",
		"TRANSCRIPT_FILE":        "t.md",
		"JSON_MODE":              "false",
		"VERBOSE":                "yes",
		"NOTIFY_WEBHOOK":         "http://hook",
		"NOTIFY_CHANNEL":         "slack",
		"NOTIFY_CHAT_ID":         "42",
	})

	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "qwen2.5-coder", cfg.Model)
	assert.Equal(t, "http://localhost:11434", cfg.BaseURL)
	assert.Equal(t, "MY_KEY", cfg.APIKeyEnv)
	assert.Equal(t, 4096, cfg.MaxOutputTokens)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-9)
	assert.Equal(t, 8, cfg.MaxBatches)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 250, cfg.RetryBaseDelayMs)
	assert.Equal(t, 5, cfg.TargetedPreviewLimit)
	assert.Equal(t, 30, cfg.InactivityTimeout)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "src", cfg.ProjectDir)
	assert.Equal(t, []string{"**/*.go", "go.mod"}, cfg.Include)
	assert.Equal(t, ".state", cfg.StateDir)
	assert.Equal(t, "run.log", cfg.LogFile)
	assert.Equal(t, "t.md", cfg.TranscriptFile)
	assert.False(t, cfg.JSONMode)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "http://hook", cfg.NotifyWebhook)
	assert.Equal(t, "slack", cfg.NotifyChannel)
	assert.Equal(t, "42", cfg.NotifyChatID)
}

func TestApplyMapToConfigBadNumbersKeepPrevious(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"MAX_BATCHES": "lots",
		"TEMPERATURE": "warm",
	})
	assert.Equal(t, 5, cfg.MaxBatches)
	assert.InDelta(t, 0.4, cfg.Temperature, 1e-9)
}

// ---------------------------------------------------------------------------
// LoadWithPrecedence tests
// ---------------------------------------------------------------------------

func TestLoadWithPrecedenceOrder(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global", "MODEL=global-model\nMAX_BATCHES=6\nMAX_RETRIES=4\n")
	project := writeFile(t, dir, "project", "MODEL=project-model\nMAX_BATCHES=7\n")
	explicit := writeFile(t, dir, "explicit", "MODEL=explicit-model\n")

	cfg, err := config.LoadWithPrecedence(global, project, explicit, map[string]string{"VERBOSE": "true"})
	require.NoError(t, err)

	assert.Equal(t, "explicit-model", cfg.Model)
	assert.Equal(t, 7, cfg.MaxBatches)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.True(t, cfg.Verbose)
}

func TestLoadWithPrecedenceCLIWins(t *testing.T) {
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit", "MODEL=file-model\n")

	cfg, err := config.LoadWithPrecedence("", "", explicit, map[string]string{"MODEL": "cli-model"})
	require.NoError(t, err)
	assert.Equal(t, "cli-model", cfg.Model)
}

func TestLoadWithPrecedenceMissingOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadWithPrecedence(filepath.Join(dir, "none1"), filepath.Join(dir, "none2"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestLoadWithPrecedenceMissingExplicitFails(t *testing.T) {
	_, err := config.LoadWithPrecedence("", "", filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit config")
}
