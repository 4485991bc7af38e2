// Package ai talks to the text-generation backends that produce batches.
package ai

import (
	"context"
	"fmt"
	"time"
)

// Provider names accepted by New.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Request is a single streaming generation call.
type Request struct {
	System          string
	Prompt          string
	MaxOutputTokens int
	Temperature     float32

	// JSONMode asks the backend to constrain output to a JSON object.
	JSONMode bool
}

// Completion summarizes a finished stream.
type Completion struct {
	PromptTokens     int
	CompletionTokens int

	// FinishReason is the backend's stop reason. "length" means the
	// output token cap was hit.
	FinishReason string
}

// Truncated reports whether the backend stopped on the token cap.
func (c *Completion) Truncated() bool {
	return c != nil && c.FinishReason == FinishReasonLength
}

// FinishReasonLength is the normalized stop reason for a token-capped stream.
const FinishReasonLength = "length"

// Generator streams model output. onChunk is called for every non-empty
// text fragment in arrival order.
type Generator interface {
	Name() string
	StreamComplete(ctx context.Context, req Request, onChunk func(string)) (*Completion, error)
}

// Config selects and configures a backend.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string

	// Timeout bounds a whole stream. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// New builds the Generator for cfg.Provider.
func New(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, NewFatalError(fmt.Errorf("openai: no API key configured"))
		}
		return NewOpenAIGenerator(cfg), nil
	case ProviderOllama:
		return NewOllamaGenerator(cfg)
	default:
		return nil, NewFatalError(fmt.Errorf("unknown provider %q", cfg.Provider))
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
