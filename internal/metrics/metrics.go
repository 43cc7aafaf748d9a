// Package metrics exposes Prometheus collectors for the digest pipeline.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	feedsTotal                 *prometheus.CounterVec
	entriesSummarizedTotal     *prometheus.CounterVec
	comicsDownloadedTotal      *prometheus.CounterVec
	detectorCallsTotal         *prometheus.CounterVec
	llmRequestDurationSeconds  *prometheus.HistogramVec
	fetchRequestsTotal         *prometheus.CounterVec
	fetchBytesTotal            *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	activeWorkers              prometheus.Gauge
	rateLimitDelaysSeconds     *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		feedsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedsanity_feeds_total",
				Help: "Total number of feeds processed, labeled by kind and status.",
			},
			[]string{"kind", "status"},
		)

		entriesSummarizedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedsanity_entries_summarized_total",
				Help: "Total number of article entries summarized, labeled by site.",
			},
			[]string{"site"},
		)

		comicsDownloadedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedsanity_comics_downloaded_total",
				Help: "Total number of comic images downloaded, labeled by site.",
			},
			[]string{"site"},
		)

		detectorCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedsanity_detector_calls_total",
				Help: "Total AI detector invocations, labeled by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		llmRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feedsanity_llm_request_duration_seconds",
				Help:    "Histogram of language model request latencies, labeled by provider and outcome.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "outcome"},
		)

		fetchRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedsanity_fetch_requests_total",
				Help: "Total outbound fetches, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedsanity_fetch_bytes_total",
				Help: "Total number of bytes fetched, labeled by site.",
			},
			[]string{"site"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "feedsanity_active_workers",
				Help: "Number of workers currently processing a feed.",
			},
		)

		rateLimitDelaysSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feedsanity_rate_limit_delays_seconds",
				Help:    "Histogram of rate limit wait durations.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"domain"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFeed counts one processed feed.
func ObserveFeed(kind, status string) {
	Init()
	feedsTotal.WithLabelValues(kind, status).Inc()
}

// ObserveEntrySummarized counts one summarized article.
func ObserveEntrySummarized(site string) {
	Init()
	entriesSummarizedTotal.WithLabelValues(SanitizeSite(site)).Inc()
}

// ObserveComicsDownloaded counts downloaded comic images.
func ObserveComicsDownloaded(site string, count int) {
	Init()
	if count > 0 {
		comicsDownloadedTotal.WithLabelValues(SanitizeSite(site)).Add(float64(count))
	}
}

// ObserveDetectorCall counts one AI detector invocation.
func ObserveDetectorCall(kind string, ok bool) {
	Init()
	detectorCallsTotal.WithLabelValues(kind, outcome(ok)).Inc()
}

// ObserveLLMRequest records the duration of a language model request.
func ObserveLLMRequest(provider string, duration time.Duration, ok bool) {
	Init()
	llmRequestDurationSeconds.WithLabelValues(provider, outcome(ok)).Observe(duration.Seconds())
}

// ObserveFetch counts one outbound fetch.
func ObserveFetch(site, status string, bytesFetched int) {
	Init()
	sanitized := SanitizeSite(site)
	fetchRequestsTotal.WithLabelValues(sanitized, status).Inc()
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(sanitized).Add(float64(bytesFetched))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	activeWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	activeWorkers.Dec()
}

// ObserveRateLimitDelay records the duration of a rate limit wait.
func ObserveRateLimitDelay(domain string, duration time.Duration) {
	Init()
	rateLimitDelaysSeconds.WithLabelValues(domain).Observe(duration.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
