package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedsanity/internal/feed"
	"feedsanity/internal/fetch"
)

type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, pageURL string) (fetch.Result, error) {
	s.calls = append(s.calls, pageURL)
	if err, ok := s.errs[pageURL]; ok {
		return fetch.Result{}, err
	}
	body, ok := s.pages[pageURL]
	if !ok {
		return fetch.Result{}, errors.New("no page for " + pageURL)
	}
	return fetch.Result{URL: pageURL, StatusCode: 200, Body: []byte(body)}, nil
}

func articlePage() string {
	var b strings.Builder
	b.WriteString("<html><head><title>Rate Decision Keeps Markets Guessing</title></head><body><article>")
	b.WriteString("<h1>Rate Decision Keeps Markets Guessing</h1>")
	for i := 0; i < 8; i++ {
		b.WriteString(fmt.Sprintf(
			"<p>Paragraph %d: the central bank left its benchmark rate unchanged on Thursday, "+
				"pointing to a slow but steady decline in inflation and a labor market that has cooled "+
				"without cracking. Officials said they want several more months of data before moving.</p>", i+1))
	}
	b.WriteString("</article></body></html>")
	return b.String()
}

func TestFromEntryExtractsReadablePage(t *testing.T) {
	t.Parallel()

	const link = "https://news.example.com/rates"
	fetcher := &stubFetcher{pages: map[string]string{link: articlePage()}}
	x := NewExtractor(fetcher, zap.NewNop())

	got := x.FromEntry(context.Background(), feed.Entry{
		Link:    link,
		Title:   "RSS Title",
		Author:  "Wire Desk",
		Content: "short rss blurb",
	})

	require.Equal(t, SourceExtracted, got.Source)
	require.Equal(t, link, got.URL)
	require.Contains(t, got.Text, "central bank left its benchmark rate unchanged")
	require.NotContains(t, got.Text, "<p>")
	require.Equal(t, "Rate Decision Keeps Markets Guessing", got.Title)
	require.Equal(t, "Wire Desk", got.Author)
}

func TestFromEntryFallsBackOnFetchError(t *testing.T) {
	t.Parallel()

	const link = "https://news.example.com/down"
	fetcher := &stubFetcher{errs: map[string]error{link: errors.New("connection refused")}}
	x := NewExtractor(fetcher, zap.NewNop())

	entry := feed.Entry{
		Link:    link,
		Title:   "Fallback Title",
		Author:  "Wire Desk",
		Content: "The feed itself carried the whole story text.",
	}
	got := x.FromEntry(context.Background(), entry)

	require.Equal(t, SourceRSSFallback, got.Source)
	require.Equal(t, entry.Content, got.Text)
	require.Equal(t, entry.Title, got.Title)
	require.Equal(t, entry.Author, got.Author)
}

func TestFromEntryFallsBackWithoutLink(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{}
	x := NewExtractor(fetcher, zap.NewNop())

	got := x.FromEntry(context.Background(), feed.Entry{Title: "No Link", Content: "body"})

	require.Equal(t, SourceRSSFallback, got.Source)
	require.Equal(t, "body", got.Text)
	require.Empty(t, fetcher.calls)
}

func TestFromEntryFallsBackOnEmptyPage(t *testing.T) {
	t.Parallel()

	const link = "https://news.example.com/shell"
	fetcher := &stubFetcher{pages: map[string]string{
		link: `<html><head><script src="/app.js"></script></head><body><div id="root"></div></body></html>`,
	}}
	x := NewExtractor(fetcher, zap.NewNop())

	entry := feed.Entry{Link: link, Title: "Shell", Content: "rss body survives"}
	got := x.FromEntry(context.Background(), entry)

	require.Equal(t, SourceRSSFallback, got.Source)
	require.Equal(t, "rss body survives", got.Text)
}
