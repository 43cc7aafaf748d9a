package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"feedsanity/internal/store"
)

func TestRenderListsFeedOutcomes(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 8, 22, 6, 0, 0, 0, time.UTC)
	finished := started.Add(42 * time.Second)
	snap := store.RunSnapshot{
		RunID:      uuid.New(),
		StartedAt:  started,
		FinishedAt: &finished,
		Status:     store.RunDone,
		FeedsTotal: 3,
		Feeds: []store.FeedResult{
			{URL: "https://www.ilpost.it/feed", Kind: "news", Items: 4, Duration: 31 * time.Second},
			{URL: "https://xkcd.com/rss.xml", Kind: "comic", Items: 1, Duration: 3 * time.Second},
			{URL: "https://unreachable.net/rss", Error: "fetch feed: connection refused", Duration: 8 * time.Second},
		},
		Comics:   1,
		Articles: 4,
		Failures: 1,
	}

	var out strings.Builder
	Render(&out, snap, "output/2026-08-22/index.html")
	got := out.String()

	assert.Contains(t, got, "Xkcd")
	assert.Contains(t, got, "Ilpost")
	assert.Contains(t, got, "Unreachable")
	assert.Contains(t, got, "comic")
	assert.Contains(t, got, "fetch feed: connection refused")
	assert.Contains(t, got, "ok")
	assert.Contains(t, got, "TOTAL")
	assert.Contains(t, got, "comics: 1  articles: 4  failures: 1")
	assert.Contains(t, got, "elapsed: 42s")
	assert.Contains(t, got, "digest: output/2026-08-22/index.html")

	// Feeds that failed before classification get a placeholder kind.
	assert.Contains(t, got, "-")
}

func TestRenderWithoutDigestOrFinish(t *testing.T) {
	t.Parallel()

	snap := store.RunSnapshot{
		RunID:     uuid.New(),
		StartedAt: time.Date(2026, 8, 22, 6, 0, 0, 0, time.UTC),
		Status:    store.RunRunning,
	}

	var out strings.Builder
	Render(&out, snap, "")
	got := out.String()

	assert.Contains(t, got, "comics: 0  articles: 0  failures: 0")
	assert.NotContains(t, got, "elapsed:")
	assert.NotContains(t, got, "digest:")
}
