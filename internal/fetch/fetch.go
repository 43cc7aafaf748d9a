// Package fetch retrieves pages and images over HTTP with per-domain
// politeness, retries with backoff, and an optional headless browser
// pass for script-heavy sites.
package fetch

import (
	"context"
	"net/http"
	"time"
)

// Result is the outcome of a single fetch.
type Result struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	Rendered   bool
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (Result, error)
}
