// Package llm provides language model providers behind a single Generate
// interface, covering local servers (Ollama, LM Studio) and cloud APIs
// (OpenAI, Gemini, Claude).
package llm

import "context"

// GenerateRequest is a single-turn text generation request.
type GenerateRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
}

// Provider is the surface every language model backend implements.
type Provider interface {
	// Name returns the provider identifier, e.g. "ollama".
	Name() string

	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Healthy probes whether the backend is reachable and serving.
	Healthy(ctx context.Context) error

	// Models lists the model identifiers the backend offers.
	Models(ctx context.Context) ([]string, error)
}
