package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Options selects and configures one provider backend. URL only applies
// to self-hosted providers, APIKey only to cloud ones.
type Options struct {
	Provider string
	URL      string
	APIKey   string
	Timeout  time.Duration
}

// New builds the provider named in opts. Cloud providers fail without an
// API key.
func New(opts Options, logger *zap.Logger) (Provider, error) {
	switch opts.Provider {
	case "", "ollama":
		return NewOllama(opts.URL, opts.Timeout, logger), nil
	case "lm_studio":
		return NewLMStudio(opts.URL, opts.Timeout, logger), nil
	case "openai":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai requires an API key")
		}
		return NewOpenAI(opts.APIKey, opts.Timeout, logger), nil
	case "gemini":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("gemini requires an API key")
		}
		return NewGemini(opts.APIKey, opts.Timeout, logger), nil
	case "claude":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("claude requires an API key")
		}
		return NewClaude(opts.APIKey, opts.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", opts.Provider)
	}
}

// NewWithFallback builds the configured provider and probes it, falling
// back to Ollama when construction or the probe fails. The returned
// provider may still be unreachable; callers treat per-request failures
// as soft errors.
func NewWithFallback(ctx context.Context, opts Options, ollama Options, logger *zap.Logger) Provider {
	if opts.Provider != "" && opts.Provider != "ollama" {
		p, err := New(opts, logger)
		if err != nil {
			logger.Warn("building AI provider failed, falling back to ollama",
				zap.String("provider", opts.Provider), zap.Error(err))
		} else if err := p.Healthy(ctx); err != nil {
			logger.Warn("AI provider unhealthy, falling back to ollama",
				zap.String("provider", opts.Provider), zap.Error(err))
		} else {
			return p
		}
	}

	fallback := NewOllama(ollama.URL, ollama.Timeout, logger)
	if err := fallback.Healthy(ctx); err != nil {
		logger.Warn("ollama is not reachable, AI detection and summaries will fall back to defaults",
			zap.Error(err))
	}
	return fallback
}
