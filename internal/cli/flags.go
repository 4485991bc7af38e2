// Package cli provides flag binding and validation for the batchgen CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/batchgen/internal/config"
	"github.com/CodexForgeBR/batchgen/internal/model"
)

// BindFlags registers all CLI flags on the given cobra command, using the
// current cfg values as defaults. The flags directly modify fields in cfg.
// Call ValidateFlags after parsing to check flag combinations.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Request
	flags.StringVarP(&cfg.Prompt, "prompt", "p", "", "Generation request text")
	flags.StringVar(&cfg.PromptFile, "prompt-file", "", "Read the generation request from a file")
	flags.StringVar(&cfg.PlanFile, "plan", "", "Path to a generation plan (YAML)")
	flags.StringVar(&cfg.Label, "label", "", "Label recorded with applied files and notifications")

	// Backend
	flags.StringVar(&cfg.Provider, "provider", cfg.Provider, "Generation backend: openai or ollama")
	flags.StringVarP(&cfg.Model, "model", "m", cfg.Model, "Model name")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Override the backend endpoint")
	flags.StringVar(&cfg.APIKeyEnv, "api-key-env", cfg.APIKeyEnv, "Environment variable holding the API key")
	flags.IntVar(&cfg.MaxOutputTokens, "max-output-tokens", cfg.MaxOutputTokens, "Output token cap per batch")
	flags.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Sampling temperature")
	var noJSONMode bool
	flags.BoolVar(&noJSONMode, "no-json-mode", false, "Do not request a JSON response format")

	// Session limits
	flags.IntVar(&cfg.MaxBatches, "max-batches", cfg.MaxBatches, "Batches before completion is forced")
	flags.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "Retries per batch")
	flags.IntVar(&cfg.RetryBaseDelayMs, "retry-base-delay-ms", cfg.RetryBaseDelayMs, "Linear backoff step in milliseconds")
	flags.IntVar(&cfg.TargetedPreviewLimit, "targeted-preview-limit", cfg.TargetedPreviewLimit, "Accumulated filenames shown in a targeted fetch")
	flags.IntVar(&cfg.InactivityTimeout, "inactivity-timeout", cfg.InactivityTimeout, "Seconds without stream output before a batch is abandoned")

	// Paths
	flags.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "Directory generated files are written to")
	flags.StringVar(&cfg.ProjectDir, "project", cfg.ProjectDir, "Existing project whose files are sent as context")
	flags.StringSliceVar(&cfg.Include, "include", cfg.Include, "Glob patterns selecting context files (repeatable)")
	flags.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "Directory for session state")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Mirror log output to a rotating file")
	flags.StringVar(&cfg.TranscriptFile, "transcript-file", cfg.TranscriptFile, "Markdown transcript of session outcomes")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")

	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable debug output")

	// Notifications
	flags.StringVar(&cfg.NotifyWebhook, "notify-webhook", cfg.NotifyWebhook, "OpenClaw webhook URL")
	flags.StringVar(&cfg.NotifyChannel, "notify-channel", cfg.NotifyChannel, "Notification channel")
	flags.StringVar(&cfg.NotifyChatID, "notify-chat-id", cfg.NotifyChatID, "Recipient chat ID")

	// Session management
	flags.BoolVar(&cfg.Resume, "resume", false, "Resume the last interrupted session")
	flags.BoolVar(&cfg.ResumeForce, "resume-force", false, "Resume even if the plan changed (implies --resume)")
	flags.BoolVar(&cfg.Clean, "clean", false, "Clear the saved session; exits unless a request is given")
	flags.BoolVar(&cfg.Status, "status", false, "Show session status and exit")
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "Generate but do not write files")
}

// ValidateFlags checks for invalid flag combinations after parsing.
// Must be called after cmd.Execute() or cmd.ParseFlags().
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.Prompt != "" && cfg.PromptFile != "" {
		return fmt.Errorf("--prompt and --prompt-file are mutually exclusive")
	}

	for flag, path := range map[string]string{
		"--prompt-file": cfg.PromptFile,
		"--plan":        cfg.PlanFile,
		"--config":      cfg.ConfigFile,
		"--project":     cfg.ProjectDir,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s: %w", flag, err)
		}
	}

	// --resume-force implies --resume
	if cfg.ResumeForce {
		cfg.Resume = true
	}

	if cmd.Flags().Changed("no-json-mode") {
		cfg.JSONMode = false
	}

	sessionOnly := cfg.Resume || cfg.Status || cfg.Clean
	if !sessionOnly && cfg.Prompt == "" && cfg.PromptFile == "" && cfg.PlanFile == "" {
		return fmt.Errorf("one of --prompt, --prompt-file or --plan is required")
	}

	if !model.IsKnownProvider(cfg.Provider) {
		return fmt.Errorf("--provider must be 'openai' or 'ollama', got: %s", cfg.Provider)
	}
	if cfg.MaxBatches < 1 {
		return fmt.Errorf("--max-batches must be at least 1, got: %d", cfg.MaxBatches)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("--max-retries must not be negative, got: %d", cfg.MaxRetries)
	}
	if cfg.MaxOutputTokens < 1 {
		return fmt.Errorf("--max-output-tokens must be positive, got: %d", cfg.MaxOutputTokens)
	}

	return nil
}

// BuildOverrides creates a map of CLI flag overrides from cfg.
// Uses cmd.Flags().Changed() to only include flags explicitly set by the user,
// ensuring config file values are not accidentally overridden by default values.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	changed := cmd.Flags().Changed

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"provider":        {"PROVIDER", cfg.Provider},
		"model":           {"MODEL", cfg.Model},
		"base-url":        {"BASE_URL", cfg.BaseURL},
		"api-key-env":     {"API_KEY_ENV", cfg.APIKeyEnv},
		"output-dir":      {"OUTPUT_DIR", cfg.OutputDir},
		"project":         {"PROJECT_DIR", cfg.ProjectDir},
		"include":         {"INCLUDE", strings.Join(cfg.Include, ",")},
		"state-dir":       {"STATE_DIR", cfg.StateDir},
		"log-file":        {"LOG_FILE", cfg.LogFile},
		"transcript-file": {"TRANSCRIPT_FILE", cfg.TranscriptFile},
		"notify-webhook":  {"NOTIFY_WEBHOOK", cfg.NotifyWebhook},
		"notify-channel":  {"NOTIFY_CHANNEL", cfg.NotifyChannel},
		"notify-chat-id":  {"NOTIFY_CHAT_ID", cfg.NotifyChatID},
	}
	for flag, mapping := range stringFlags {
		if changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"max-output-tokens":      {"MAX_OUTPUT_TOKENS", cfg.MaxOutputTokens},
		"max-batches":            {"MAX_BATCHES", cfg.MaxBatches},
		"max-retries":            {"MAX_RETRIES", cfg.MaxRetries},
		"retry-base-delay-ms":    {"RETRY_BASE_DELAY_MS", cfg.RetryBaseDelayMs},
		"targeted-preview-limit": {"TARGETED_PREVIEW_LIMIT", cfg.TargetedPreviewLimit},
		"inactivity-timeout":     {"INACTIVITY_TIMEOUT", cfg.InactivityTimeout},
	}
	for flag, mapping := range intFlags {
		if changed(flag) {
			overrides[mapping.key] = strconv.Itoa(mapping.val)
		}
	}

	if changed("temperature") {
		overrides["TEMPERATURE"] = strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)
	}
	if changed("verbose") {
		overrides["VERBOSE"] = strconv.FormatBool(cfg.Verbose)
	}
	if changed("no-json-mode") {
		overrides["JSON_MODE"] = "false"
	}

	return overrides
}
