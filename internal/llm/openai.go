package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"feedsanity/internal/metrics"
)

// OpenAIProvider speaks the OpenAI chat completions protocol. It also
// serves LM Studio, whose local server exposes the same API.
type OpenAIProvider struct {
	name   string
	client *openai.Client
	logger *zap.Logger
}

// NewOpenAI builds a provider for the hosted OpenAI API.
func NewOpenAI(apiKey string, timeout time.Duration, logger *zap.Logger) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIProvider{
		name:   "openai",
		client: openai.NewClientWithConfig(cfg),
		logger: logger,
	}
}

// NewLMStudio builds a provider for a local LM Studio server. The server
// ignores API keys but the client requires a non-empty one.
func NewLMStudio(baseURL string, timeout time.Duration, logger *zap.Logger) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "http://localhost:1234/v1"
	}
	cfg := openai.DefaultConfig("lm-studio")
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIProvider{
		name:   "lm_studio",
		client: openai.NewClientWithConfig(cfg),
		logger: logger,
	}
}

// Name returns "openai" or "lm_studio".
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Generate runs a chat completion with the system and user prompt.
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	start := time.Now()
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	metrics.ObserveLLMRequest(p.name, time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.name)
	}

	p.logger.Debug("chat completion done",
		zap.String("provider", p.name),
		zap.String("model", req.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)))
	return resp.Choices[0].Message.Content, nil
}

// Healthy probes the models endpoint.
func (p *OpenAIProvider) Healthy(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%s health: %w", p.name, err)
	}
	return nil
}

// Models lists the model identifiers the endpoint offers.
func (p *OpenAIProvider) Models(ctx context.Context) ([]string, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s list models: %w", p.name, err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}
