package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// OllamaGenerator streams chat responses from a local Ollama server.
type OllamaGenerator struct {
	client *api.Client
	config Config
}

// NewOllamaGenerator uses BaseURL when set, otherwise OLLAMA_HOST.
func NewOllamaGenerator(cfg Config) (*OllamaGenerator, error) {
	client, err := newOllamaClient(cfg.BaseURL)
	if err != nil {
		return nil, NewFatalError(err)
	}
	return &OllamaGenerator{client: client, config: cfg}, nil
}

// newOllamaClient targets baseURL, or OLLAMA_HOST when baseURL is empty.
func newOllamaClient(baseURL string) (*api.Client, error) {
	if baseURL == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
		return client, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", baseURL, err)
	}
	return api.NewClient(base, http.DefaultClient), nil
}

func (g *OllamaGenerator) Name() string { return ProviderOllama + ":" + g.config.Model }

// StreamComplete implements Generator.
func (g *OllamaGenerator) StreamComplete(ctx context.Context, req Request, onChunk func(string)) (*Completion, error) {
	ctx, cancel := withTimeout(ctx, g.config.Timeout)
	defer cancel()

	messages := make([]api.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.Prompt})

	stream := true
	creq := &api.ChatRequest{
		Model:    g.config.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}
	if req.MaxOutputTokens > 0 {
		creq.Options["num_predict"] = req.MaxOutputTokens
	}
	if req.JSONMode {
		creq.Format = json.RawMessage(`"json"`)
	}

	completion := &Completion{}
	err := g.client.Chat(ctx, creq, func(res api.ChatResponse) error {
		if res.Message.Content != "" && onChunk != nil {
			onChunk(res.Message.Content)
		}
		if res.Done {
			completion.PromptTokens = res.PromptEvalCount
			completion.CompletionTokens = res.EvalCount
			completion.FinishReason = res.DoneReason
		}
		return nil
	})
	if err != nil {
		return completion, classifyOllamaError(ctx, err)
	}
	return completion, nil
}

func classifyOllamaError(ctx context.Context, err error) error {
	if ctxErr := contextError(ctx, err); ctxErr != nil {
		return ctxErr
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return Classify(statusErr.StatusCode, fmt.Errorf("ollama chat failed: %w", err))
	}
	return NewTransientError(fmt.Errorf("ollama chat failed: %w", err))
}
