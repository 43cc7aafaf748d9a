package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"feedsanity/internal/metrics"
)

const anthropicVersion = "2023-06-01"

// ClaudeProvider talks to the Anthropic messages API.
type ClaudeProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewClaude builds a provider for the Anthropic API.
func NewClaude(apiKey string, timeout time.Duration, logger *zap.Logger) *ClaudeProvider {
	return &ClaudeProvider{
		baseURL: "https://api.anthropic.com",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name returns "claude".
func (p *ClaudeProvider) Name() string {
	return "claude"
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float32            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Generate runs a single-turn message exchange. The system prompt moves
// into the API's top-level system field.
func (p *ClaudeProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	start := time.Now()
	body, err := json.Marshal(anthropicRequest{
		Model:       req.Model,
		MaxTokens:   1024,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode anthropic request: %w", err)
	}

	respBody, err := p.do(ctx, http.MethodPost, "/v1/messages", body)
	metrics.ObserveLLMRequest(p.Name(), time.Since(start), err == nil)
	if err != nil {
		return "", err
	}

	var out anthropicResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	var text []string
	for _, block := range out.Content {
		if block.Type == "text" {
			text = append(text, block.Text)
		}
	}
	p.logger.Debug("anthropic message done",
		zap.String("model", req.Model), zap.Duration("duration", time.Since(start)))
	return strings.Join(text, ""), nil
}

// Healthy probes the models endpoint.
func (p *ClaudeProvider) Healthy(ctx context.Context) error {
	if _, err := p.do(ctx, http.MethodGet, "/v1/models", nil); err != nil {
		return fmt.Errorf("anthropic health: %w", err)
	}
	return nil
}

type anthropicModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Models lists the model identifiers the API offers.
func (p *ClaudeProvider) Models(ctx context.Context) ([]string, error) {
	respBody, err := p.do(ctx, http.MethodGet, "/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("anthropic list models: %w", err)
	}
	var out anthropicModelsResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode anthropic models: %w", err)
	}
	names := make([]string, 0, len(out.Data))
	for _, m := range out.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

func (p *ClaudeProvider) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read anthropic response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic status %d: %s", resp.StatusCode, firstBytes(respBody, 200))
	}
	return respBody, nil
}
