package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"feedsanity/internal/metrics"
)

// Config controls the plain HTTP fetcher.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	RetryBackoff float64
	RateLimitRPS float64
}

// PageFetcher implements Fetcher with a Colly collector. Each fetch
// clones the base collector so concurrent fetches never share hooks.
type PageFetcher struct {
	cfg           Config
	retry         *RetryPolicy
	limiter       *Limiter
	transport     http.RoundTripper
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a PageFetcher.
func New(cfg Config, logger *zap.Logger) *PageFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	// Retries and repeat runs revisit the same URL.
	c.AllowURLRevisit = true

	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &PageFetcher{
		cfg:           cfg,
		retry:         NewRetryPolicy(cfg.MaxRetries, cfg.RetryDelay, cfg.RetryBackoff),
		limiter:       NewLimiter(cfg.RateLimitRPS),
		transport:     transport,
		baseCollector: c,
		logger:        logger,
	}
}

// Fetch retrieves pageURL, retrying transient failures.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (Result, error) {
	var result Result
	site := metrics.SanitizeSite(pageURL)

	err := f.retry.Do(ctx, func() error {
		if err := f.limiter.Wait(ctx, pageURL); err != nil {
			return err
		}
		res, err := f.fetchOnce(ctx, pageURL)
		if err != nil {
			f.logger.Debug("fetch attempt failed",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		metrics.ObserveFetch(site, "error", 0)
		return Result{}, err
	}
	metrics.ObserveFetch(site, strconv.Itoa(result.StatusCode), len(result.Body))
	return result, nil
}

func (f *PageFetcher) fetchOnce(ctx context.Context, pageURL string) (Result, error) {
	var (
		result   Result
		fetchErr error
	)
	start := time.Now()

	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = true
	collector.AllowURLRevisit = true
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(f.transport)

	collector.OnResponse(func(r *colly.Response) {
		result = Result{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    r.Headers.Clone(),
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := f.runCollector(ctx, collector, pageURL); err != nil {
		return Result{}, err
	}
	if fetchErr != nil {
		return Result{}, fmt.Errorf("fetch %s: %w", pageURL, fetchErr)
	}
	return result, nil
}

func (f *PageFetcher) runCollector(ctx context.Context, collector *colly.Collector, pageURL string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("visit %s: %w", pageURL, err)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
