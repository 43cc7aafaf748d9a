package news

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"feedsanity/internal/feed"
	"feedsanity/internal/fetch"
)

// Extracted is the raw article material before cleaning, with entry
// metadata merged in wherever the page itself had none.
type Extracted struct {
	URL    string
	Title  string
	Author string
	Text   string
	Source string
}

// Extractor pulls readable article text out of web pages.
type Extractor struct {
	fetcher fetch.Fetcher
	logger  *zap.Logger
}

// NewExtractor builds an Extractor over the given page fetcher.
func NewExtractor(fetcher fetch.Fetcher, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{fetcher: fetcher, logger: logger}
}

// FromEntry fetches the page behind the entry and distills it to
// readable text. When the page cannot be fetched or readability finds
// nothing, the entry's own RSS content serves as fallback.
func (x *Extractor) FromEntry(ctx context.Context, entry feed.Entry) Extracted {
	if entry.Link == "" {
		return x.fallback(entry, "entry has no link")
	}
	res, err := x.fetcher.Fetch(ctx, entry.Link)
	if err != nil {
		return x.fallback(entry, err.Error())
	}
	pageURL, err := url.Parse(res.URL)
	if err != nil || pageURL.Host == "" {
		pageURL, _ = url.Parse(entry.Link)
	}
	article, err := readability.FromReader(bytes.NewReader(res.Body), pageURL)
	if err != nil {
		return x.fallback(entry, err.Error())
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return x.fallback(entry, "readability found no text")
	}
	return Extracted{
		URL:    entry.Link,
		Title:  firstNonEmpty(article.Title, entry.Title),
		Author: firstNonEmpty(article.Byline, entry.Author),
		Text:   text,
		Source: SourceExtracted,
	}
}

func (x *Extractor) fallback(entry feed.Entry, reason string) Extracted {
	x.logger.Warn("article extraction fell back to feed content",
		zap.String("url", entry.Link),
		zap.String("reason", reason),
	)
	return Extracted{
		URL:    entry.Link,
		Title:  entry.Title,
		Author: entry.Author,
		Text:   entry.Content,
		Source: SourceRSSFallback,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
