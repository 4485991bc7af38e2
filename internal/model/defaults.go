// Package model provides provider and model helpers for the batchgen CLI.
//
// It centralises default model names per generation backend and validation
// that a requested model is plausible for the chosen backend.
package model

// Backend identifiers used throughout the CLI.
const (
	OpenAI = "openai"
	Ollama = "ollama"
)

// DefaultModel returns the default model for the given provider.
func DefaultModel(provider string) string {
	if provider == Ollama {
		return "qwen2.5-coder"
	}
	return "gpt-4o-mini"
}

// DefaultAPIKeyEnv returns the environment variable holding the provider's
// API key. Ollama needs none.
func DefaultAPIKeyEnv(provider string) string {
	if provider == Ollama {
		return ""
	}
	return "OPENAI_API_KEY"
}

// IsKnownProvider reports whether provider names a supported backend.
func IsKnownProvider(provider string) bool {
	return provider == OpenAI || provider == Ollama
}
