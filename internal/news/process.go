package news

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"feedsanity/internal/feed"
	"feedsanity/internal/metrics"
)

// Processor runs the full extract, clean, validate, summarize pipeline
// for news entries.
type Processor struct {
	extractor  *Extractor
	cleaner    *Cleaner
	summarizer *Summarizer
	logger     *zap.Logger
}

// NewProcessor wires the pipeline stages together.
func NewProcessor(extractor *Extractor, cleaner *Cleaner, summarizer *Summarizer, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		extractor:  extractor,
		cleaner:    cleaner,
		summarizer: summarizer,
		logger:     logger,
	}
}

// ProcessEntry turns one feed entry into a summarized Article. The
// language is resolved once per feed by the caller and passed down to
// every model call.
func (p *Processor) ProcessEntry(ctx context.Context, feedName, language string, entry feed.Entry) (Article, error) {
	extracted := p.extractor.FromEntry(ctx, entry)

	text := p.cleaner.CleanText(extracted.Text)
	validation := p.cleaner.Validate(text)
	if !validation.Valid {
		p.logger.Warn("article rejected",
			zap.String("feed", feedName),
			zap.String("url", extracted.URL),
			zap.String("reason", validation.Reason),
		)
		return Article{}, fmt.Errorf("validate %s: %s", extracted.URL, validation.Reason)
	}

	title := p.cleaner.CleanTitle(extracted.Title)
	summary, err := p.summarizer.Summarize(ctx, text, title, extracted.Author, language)
	if err != nil {
		return Article{}, fmt.Errorf("summarize %s: %w", extracted.URL, err)
	}

	metrics.ObserveEntrySummarized(metrics.SanitizeSite(entry.Link))
	p.logger.Info("article summarized",
		zap.String("feed", feedName),
		zap.String("title", summary.Title),
		zap.String("source", extracted.Source),
		zap.Int("words", validation.WordCount),
	)
	return Article{
		FeedName:       feedName,
		OriginalTitle:  title,
		GeneratedTitle: summary.Title,
		Summary:        summary.Text,
		URL:            extracted.URL,
		Author:         extracted.Author,
		Published:      entry.Published,
		Language:       language,
		WordCount:      validation.WordCount,
		Source:         extracted.Source,
		Clickbait:      summary.Clickbait,
		DetectedBy:     summary.DetectedBy,
	}, nil
}
