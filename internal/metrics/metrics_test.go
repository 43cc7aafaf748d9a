package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSanitizeSite(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard http", "http://example.com/path", "example.com"},
		{"standard https", "https://Example.com/path", "example.com"},
		{"no scheme", "example.com/path", "example.com"},
		{"just host", "example.com", "example.com"},
		{"host with port", "example.com:8080", "example.com"},
		{"ip address", "192.168.1.1", "192.168.1.1"},
		{"invalid url", "http://%", "unknown"},
		{"empty string", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeSite(tc.input); got != tc.expected {
				t.Errorf("SanitizeSite(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestInit(t *testing.T) {
	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if feedsTotal == nil || detectorCallsTotal == nil ||
		httpRequestsTotal == nil || llmRequestDurationSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	// A simple check to see if a metric can be used.
	ObserveFeed("comic", "success")
	if val := testutil.ToFloat64(feedsTotal.WithLabelValues("comic", "success")); val != 1 {
		t.Errorf("Expected feedsTotal to be 1, got %f", val)
	}
}

func TestObserveHelpers(t *testing.T) {
	Init()

	ObserveDetectorCall("type", true)
	ObserveDetectorCall("type", false)
	if val := testutil.ToFloat64(detectorCallsTotal.WithLabelValues("type", "success")); val < 1 {
		t.Errorf("Expected detector success counter >= 1, got %f", val)
	}
	if val := testutil.ToFloat64(detectorCallsTotal.WithLabelValues("type", "failure")); val < 1 {
		t.Errorf("Expected detector failure counter >= 1, got %f", val)
	}

	ObserveLLMRequest("ollama", 120*time.Millisecond, true)
	if val := testutil.CollectAndCount(llmRequestDurationSeconds); val <= 0 {
		t.Errorf("Expected llmRequestDurationSeconds to be observed, got %d", val)
	}

	ObserveFetch("https://example.com/feed", "success", 1024)
	if val := testutil.ToFloat64(fetchBytesTotal.WithLabelValues("example.com")); val != 1024 {
		t.Errorf("Expected fetchBytesTotal 1024, got %f", val)
	}

	ObserveComicsDownloaded("https://xkcd.com/rss", 2)
	if val := testutil.ToFloat64(comicsDownloadedTotal.WithLabelValues("xkcd.com")); val != 2 {
		t.Errorf("Expected comicsDownloadedTotal 2, got %f", val)
	}

	IncActiveWorkers()
	if val := testutil.ToFloat64(activeWorkers); val != 1 {
		t.Errorf("Expected activeWorkers 1, got %f", val)
	}
	DecActiveWorkers()
	if val := testutil.ToFloat64(activeWorkers); val != 0 {
		t.Errorf("Expected activeWorkers 0, got %f", val)
	}
}

// Fuzz test for SanitizeSite.
func FuzzSanitizeSite(f *testing.F) {
	testcases := []string{"http://example.com", "https://google.com", "ftp://example.com"}
	for _, tc := range testcases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		sanitized := SanitizeSite(orig)
		if sanitized == "" {
			t.Errorf("SanitizeSite(%q) returned an empty string", orig)
		}
	})
}
