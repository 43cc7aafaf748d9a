package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"feedsanity/internal/metrics"
)

// GeminiProvider talks to the Google Generative Language API.
type GeminiProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewGemini builds a provider for the Gemini API.
func NewGemini(apiKey string, timeout time.Duration, logger *zap.Logger) *GeminiProvider {
	return &GeminiProvider{
		baseURL: "https://generativelanguage.googleapis.com",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name returns "gemini".
func (p *GeminiProvider) Name() string {
	return "gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	Temperature float32 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate runs a single generateContent call.
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	start := time.Now()
	payload := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{Temperature: req.Temperature},
	}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode gemini request: %w", err)
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(req.Model))
	respBody, err := p.do(ctx, http.MethodPost, path, body)
	metrics.ObserveLLMRequest(p.Name(), time.Since(start), err == nil)
	if err != nil {
		return "", err
	}

	var out geminiResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var text []string
	for _, part := range out.Candidates[0].Content.Parts {
		text = append(text, part.Text)
	}
	p.logger.Debug("gemini generate done",
		zap.String("model", req.Model), zap.Duration("duration", time.Since(start)))
	return strings.Join(text, ""), nil
}

// Healthy probes the models endpoint.
func (p *GeminiProvider) Healthy(ctx context.Context) error {
	if _, err := p.do(ctx, http.MethodGet, "/v1beta/models", nil); err != nil {
		return fmt.Errorf("gemini health: %w", err)
	}
	return nil
}

type geminiModelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models lists available model names, stripped of the "models/" prefix.
func (p *GeminiProvider) Models(ctx context.Context) ([]string, error) {
	respBody, err := p.do(ctx, http.MethodGet, "/v1beta/models", nil)
	if err != nil {
		return nil, fmt.Errorf("gemini list models: %w", err)
	}
	var out geminiModelsResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode gemini models: %w", err)
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return names, nil
}

func (p *GeminiProvider) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	endpoint := p.baseURL + path + "?key=" + url.QueryEscape(p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, firstBytes(respBody, 200))
	}
	return respBody, nil
}
