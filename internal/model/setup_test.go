package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{"empty uses openai default", OpenAI, "", "gpt-4o-mini"},
		{"empty uses ollama default", Ollama, "", "qwen2.5-coder"},
		{"openai default swapped for ollama", Ollama, "gpt-4o-mini", "qwen2.5-coder"},
		{"ollama default swapped for openai", OpenAI, "qwen2.5-coder", "gpt-4o-mini"},
		{"explicit model kept", Ollama, "llama3.1:8b", "llama3.1:8b"},
		{"explicit openai model kept", OpenAI, "gpt-4o", "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveModel(tt.provider, tt.model))
		})
	}
}

func TestResolveAPIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", ResolveAPIKeyEnv(OpenAI, ""))
	assert.Empty(t, ResolveAPIKeyEnv(Ollama, "OPENAI_API_KEY"))
	assert.Equal(t, "GROQ_KEY", ResolveAPIKeyEnv(OpenAI, "GROQ_KEY"))
	assert.Equal(t, "GROQ_KEY", ResolveAPIKeyEnv(Ollama, "GROQ_KEY"))
}
