package feed

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"feedsanity/internal/fetch"
)

// Parser fetches and normalizes feeds. One HTTP client is shared
// across fetches while each fetch builds its own gofeed parser, so
// concurrent fetches never share parser state.
type Parser struct {
	client *http.Client
	retry  *fetch.RetryPolicy
	agent  string
	logger *zap.Logger
}

// NewParser builds a Parser.
func NewParser(cfg fetch.Config, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Parser{
		client: &http.Client{Timeout: timeout},
		retry:  fetch.NewRetryPolicy(cfg.MaxRetries, cfg.RetryDelay, cfg.RetryBackoff),
		agent:  cfg.UserAgent,
		logger: logger,
	}
}

// Fetch retrieves and parses feedURL, retrying transient failures.
func (p *Parser) Fetch(ctx context.Context, feedURL string) (*Feed, error) {
	var parsed *gofeed.Feed
	err := p.retry.Do(ctx, func() error {
		fp := gofeed.NewParser()
		fp.Client = p.client
		fp.UserAgent = p.agent

		f, err := fp.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			p.logger.Debug("feed fetch attempt failed",
				zap.String("feed", feedURL),
				zap.Error(err),
			)
			return err
		}
		parsed = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	result := convert(feedURL, parsed)
	p.logger.Info("feed parsed",
		zap.String("feed", feedURL),
		zap.Int("entries", len(result.Entries)),
	)
	return result, nil
}

func convert(feedURL string, src *gofeed.Feed) *Feed {
	out := &Feed{URL: feedURL, Title: "Unknown Feed"}
	if src.Title != "" {
		out.Title = html.UnescapeString(src.Title)
	}
	for _, item := range src.Items {
		if item == nil {
			continue
		}
		out.Entries = append(out.Entries, convertItem(item))
	}
	return out
}

func convertItem(item *gofeed.Item) Entry {
	e := Entry{
		Title:       "Untitled",
		Link:        item.Link,
		Author:      itemAuthor(item),
		Description: html.UnescapeString(item.Description),
		Content:     html.UnescapeString(item.Content),
		Published:   itemPublished(item),
	}
	if item.Title != "" {
		e.Title = html.UnescapeString(item.Title)
	}
	if e.Content == "" {
		e.Content = e.Description
	}
	return e
}

func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}

func itemPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}
