package fetch

import (
	"context"

	"go.uber.org/zap"
)

// Promoting runs every fetch through the plain fetcher first and
// retries with the headless renderer when the result looks like an
// unrendered app shell. With a nil renderer it degrades to the plain
// fetcher.
type Promoting struct {
	base      Fetcher
	heuristic *Heuristic
	renderer  *Renderer
	logger    *zap.Logger
}

// NewPromoting wraps base with the headless promotion step.
func NewPromoting(base Fetcher, heuristic *Heuristic, renderer *Renderer, logger *zap.Logger) *Promoting {
	if heuristic == nil {
		heuristic = NewHeuristic(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Promoting{
		base:      base,
		heuristic: heuristic,
		renderer:  renderer,
		logger:    logger,
	}
}

// Fetch retrieves pageURL, promoting to the renderer when the plain
// response needs scripts to produce its content. A failed render keeps
// the plain result rather than failing the fetch.
func (p *Promoting) Fetch(ctx context.Context, pageURL string) (Result, error) {
	res, err := p.base.Fetch(ctx, pageURL)
	if err != nil {
		return res, err
	}
	if p.renderer == nil || !p.heuristic.ShouldPromote(res) {
		return res, nil
	}

	p.logger.Debug("promoting fetch to headless renderer", zap.String("url", pageURL))
	rendered, err := p.renderer.Fetch(ctx, pageURL)
	if err != nil {
		p.logger.Warn("headless promotion failed, keeping plain result",
			zap.String("url", pageURL), zap.Error(err))
		return res, nil
	}
	return rendered, nil
}
