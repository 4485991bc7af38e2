package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateModelProvider_EmptyModelAlwaysOK(t *testing.T) {
	assert.NoError(t, ValidateModelProvider(OpenAI, "", ""))
	assert.NoError(t, ValidateModelProvider(Ollama, "", ""))
}

func TestValidateModelProvider_UnknownProvider(t *testing.T) {
	err := ValidateModelProvider("codex", "gpt-4", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codex")
}

func TestValidateModelProvider_OpenAIWithOpenAIModels(t *testing.T) {
	for _, m := range []string{"gpt-4o", "gpt-4o-mini", "o1", "o3-mini", "chatgpt-4o-latest", "ft:gpt-4o-mini:org:x:1"} {
		assert.NoError(t, ValidateModelProvider(OpenAI, m, ""), "openai + %q should be ok", m)
	}
}

func TestValidateModelProvider_OllamaWithOllamaModels(t *testing.T) {
	for _, m := range []string{"llama3.1", "llama3.1:8b", "qwen2.5-coder:14b", "mistral"} {
		assert.NoError(t, ValidateModelProvider(Ollama, m, ""), "ollama + %q should be ok", m)
	}
}

func TestValidateModelProvider_OllamaWithOpenAIModel_Error(t *testing.T) {
	for _, m := range []string{"gpt-4o", "o1", "chatgpt-4o"} {
		err := ValidateModelProvider(Ollama, m, "")
		require.Error(t, err, "ollama + %q should error", m)
		assert.Contains(t, err.Error(), "openai")
	}
}

func TestValidateModelProvider_OpenAIWithOllamaTag(t *testing.T) {
	err := ValidateModelProvider(OpenAI, "llama3.1:8b", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama")

	assert.NoError(t, ValidateModelProvider(OpenAI, "llama3.1:8b", "http://localhost:8000/v1"),
		"custom endpoints may serve any model")
}

func TestModelHints(t *testing.T) {
	assert.True(t, IsOpenAIModelHint("GPT-4"))
	assert.False(t, IsOpenAIModelHint("llama3"))
	assert.True(t, IsOllamaModelHint("llama3:latest"))
	assert.False(t, IsOllamaModelHint("ft:gpt-4o:org"))
	assert.False(t, IsOllamaModelHint("gpt-4o"))
}
