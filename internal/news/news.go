// Package news turns feed entries into cleaned, summarized articles.
// The pipeline is extract, clean, validate, summarize; entries that
// fail validation or summarization surface as errors for the run
// report rather than half-finished articles.
package news

import "time"

// Detection sources for the clickbait flag.
const (
	DetectedByAuthor = "author"
	DetectedByAI     = "ai"
	DetectedByBoth   = "both"
)

// Article text origins.
const (
	SourceExtracted   = "extracted"
	SourceRSSFallback = "rss_fallback"
)

// Article is a fully processed news item.
type Article struct {
	FeedName       string
	OriginalTitle  string
	GeneratedTitle string
	Summary        string
	URL            string
	Author         string
	Published      *time.Time
	Language       string
	WordCount      int
	Source         string
	Clickbait      bool
	DetectedBy     string
}
