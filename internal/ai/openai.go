package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator streams chat completions from an OpenAI-compatible API.
type OpenAIGenerator struct {
	client *openai.Client
	config Config
}

// NewOpenAIGenerator creates a generator. A non-empty BaseURL points it at
// any OpenAI-compatible server.
func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

func (o *OpenAIGenerator) Name() string { return ProviderOpenAI + ":" + o.config.Model }

// StreamComplete implements Generator.
func (o *OpenAIGenerator) StreamComplete(ctx context.Context, req Request, onChunk func(string)) (*Completion, error) {
	ctx, cancel := withTimeout(ctx, o.config.Timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	creq := openai.ChatCompletionRequest{
		Model:         o.config.Model,
		Messages:      messages,
		MaxTokens:     req.MaxOutputTokens,
		Temperature:   req.Temperature,
		Stream:        true,
		StreamOptions: &openai.StreamOptions{IncludeUsage: true},
	}
	if req.JSONMode {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	stream, err := o.client.CreateChatCompletionStream(ctx, creq)
	if err != nil {
		return nil, classifyOpenAIError(ctx, err)
	}
	defer stream.Close()

	completion := &Completion{}
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return completion, nil
		}
		if err != nil {
			return completion, classifyOpenAIError(ctx, err)
		}

		if resp.Usage != nil {
			completion.PromptTokens = resp.Usage.PromptTokens
			completion.CompletionTokens = resp.Usage.CompletionTokens
		}
		if len(resp.Choices) == 0 {
			continue
		}
		choice := resp.Choices[0]
		if choice.FinishReason != "" {
			completion.FinishReason = string(choice.FinishReason)
		}
		if choice.Delta.Content != "" && onChunk != nil {
			onChunk(choice.Delta.Content)
		}
	}
}

func classifyOpenAIError(ctx context.Context, err error) error {
	if ctxErr := contextError(ctx, err); ctxErr != nil {
		return ctxErr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return Classify(apiErr.HTTPStatusCode, fmt.Errorf("openai: %w", err))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return Classify(reqErr.HTTPStatusCode, fmt.Errorf("openai: %w", err))
	}
	// Transport failures mid-stream are worth another attempt.
	return NewTransientError(fmt.Errorf("openai stream: %w", err))
}
