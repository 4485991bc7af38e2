package model

import (
	"fmt"
	"regexp"
	"strings"
)

// openAIModelRe matches OpenAI-family model prefixes: o1, o3, gpt-*, etc.
var openAIModelRe = regexp.MustCompile(`^(o[0-9]|gpt|chatgpt|text-|ft:|davinci|babbage)`)

// ollamaTagRe matches Ollama "name:tag" references such as llama3.1:8b.
var ollamaTagRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*:[a-z0-9._-]+$`)

// ValidateModelProvider checks whether model is plausible for provider.
// baseURL is the configured endpoint override; OpenAI-compatible servers
// behind a custom endpoint may serve any model name, so no opinion is
// given there.
//
// Rules:
//   - Empty model is always allowed (the caller will apply defaults).
//   - OpenAI-style names (gpt*, o[0-9]*, chatgpt*, text-*, ft:*) are
//     invalid with ollama.
//   - Ollama name:tag references are invalid with openai's own endpoint.
//   - Unknown providers are rejected.
func ValidateModelProvider(provider, model, baseURL string) error {
	if !IsKnownProvider(provider) {
		return fmt.Errorf("provider must be %q or %q, got: %s", OpenAI, Ollama, provider)
	}
	if model == "" {
		return nil
	}

	if provider == Ollama && IsOpenAIModelHint(model) {
		return fmt.Errorf("model %q looks like an openai model but provider=%s", model, provider)
	}
	if provider == OpenAI && baseURL == "" && IsOllamaModelHint(model) {
		return fmt.Errorf("model %q looks like an ollama model but provider=%s", model, provider)
	}
	return nil
}

// IsOpenAIModelHint returns true when model appears to target an OpenAI
// backend.
func IsOpenAIModelHint(model string) bool {
	return openAIModelRe.MatchString(strings.ToLower(model))
}

// IsOllamaModelHint returns true when model is an Ollama name:tag reference.
func IsOllamaModelHint(model string) bool {
	lower := strings.ToLower(model)
	if strings.HasPrefix(lower, "ft:") {
		return false
	}
	return ollamaTagRe.MatchString(lower)
}
