// Package comics extracts webcomic images from feed entries and
// downloads them for the digest. Most comics embed the image in the
// entry markup, but a handful of sites need their own extraction
// strategy keyed by domain.
package comics

import (
	"strings"
	"time"

	"feedsanity/internal/classify"
	"feedsanity/internal/feed"
)

// Comic is a downloaded comic ready for the digest.
type Comic struct {
	FeedName  string
	Title     string
	Link      string
	Published *time.Time
	Images    []string
}

var specialHandlers = map[string]string{
	"penny-arcade.com":     "penny_arcade",
	"widdershinscomic.com": "widdershins",
	"gunnerkrigg.com":      "gunnerkrigg",
	"oglaf.com":            "oglaf",
	"savestatecomic.com":   "savestate",
	"wondermark.com":       "wondermark",
	"evil-inc.com":         "evil_inc",
	"buttsmithy.com":       "incase",
}

// HandlerFor returns the special extraction strategy for a feed URL,
// or the empty string when the default extractor applies.
func HandlerFor(feedURL string) string {
	domain := classify.Domain(feedURL)
	if domain == "" {
		return ""
	}
	for special, name := range specialHandlers {
		if strings.Contains(domain, special) {
			return name
		}
	}
	return ""
}

// SelectEntry picks the entry holding the actual comic. Most feeds
// put it first, but a few mix news posts in with their comics.
func SelectEntry(feedURL string, entries []feed.Entry) (feed.Entry, bool) {
	if len(entries) == 0 {
		return feed.Entry{}, false
	}
	switch {
	case strings.Contains(feedURL, "penny-arcade.com"):
		for _, e := range entries {
			if strings.Contains(e.Link, "/comic/") {
				return e, true
			}
		}
	case strings.Contains(feedURL, "wondermark.com"):
		for _, e := range entries {
			if strings.HasPrefix(strings.TrimSpace(e.Title), "#") {
				return e, true
			}
		}
	case strings.Contains(feedURL, "buttsmithy.com"):
		for _, e := range entries {
			if strings.Contains(e.Description, "<img") {
				return e, true
			}
		}
	}
	return entries[0], true
}
