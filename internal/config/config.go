// Package config defines the batchgen configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [22]string{
	"PROVIDER",
	"MODEL",
	"BASE_URL",
	"API_KEY_ENV",
	"MAX_OUTPUT_TOKENS",
	"TEMPERATURE",
	"MAX_BATCHES",
	"MAX_RETRIES",
	"RETRY_BASE_DELAY_MS",
	"TARGETED_PREVIEW_LIMIT",
	"INACTIVITY_TIMEOUT",
	"OUTPUT_DIR",
	"PROJECT_DIR",
	"INCLUDE",
	"STATE_DIR",
	"LOG_FILE",
	"TRANSCRIPT_FILE",
	"JSON_MODE",
	"VERBOSE",
	"NOTIFY_WEBHOOK",
	"NOTIFY_CHANNEL",
	"NOTIFY_CHAT_ID",
}

// Config holds every configuration field for the batchgen CLI.
type Config struct {
	// Generation backend.
	Provider  string
	Model     string
	BaseURL   string
	APIKeyEnv string

	// Request shaping.
	MaxOutputTokens int
	Temperature     float64
	JSONMode        bool

	// Session limits.
	MaxBatches           int
	MaxRetries           int
	RetryBaseDelayMs     int
	TargetedPreviewLimit int
	InactivityTimeout    int // seconds

	// Paths.
	OutputDir      string
	ProjectDir     string
	Include        []string
	StateDir       string
	LogFile        string
	TranscriptFile string

	// Runtime flags.
	Verbose bool

	// Notification settings.
	NotifyWebhook string
	NotifyChannel string
	NotifyChatID  string

	// CLI-only flags (not loaded from config files).
	ConfigFile  string
	Prompt      string
	PromptFile  string
	PlanFile    string
	Label       string
	Resume      bool
	ResumeForce bool
	Clean       bool
	Status      bool
	DryRun      bool
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Provider:             "openai",
		Model:                "gpt-4o-mini",
		APIKeyEnv:            "OPENAI_API_KEY",
		MaxOutputTokens:      8192,
		Temperature:          0.4,
		JSONMode:             true,
		MaxBatches:           5,
		MaxRetries:           3,
		RetryBaseDelayMs:     1000,
		TargetedPreviewLimit: 20,
		InactivityTimeout:    120,
		OutputDir:            ".",
		StateDir:             ".batchgen",
		TranscriptFile:       ".batchgen/transcript.md",
		NotifyWebhook:        "http://127.0.0.1:18789/webhook",
		NotifyChannel:        "telegram",
	}
}

// RetryBaseDelay returns RetryBaseDelayMs as a duration.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

// InactivityTimeoutDuration returns InactivityTimeout as a duration.
func (c *Config) InactivityTimeoutDuration() time.Duration {
	return time.Duration(c.InactivityTimeout) * time.Second
}

// GlobalConfigPath returns ~/.config/batchgen/config, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "batchgen", "config")
}

// ProjectConfigPath returns the config file inside the state directory.
func ProjectConfigPath(stateDir string) string {
	return filepath.Join(stateDir, "config")
}
