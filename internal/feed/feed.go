// Package feed loads the subscription list and fetches RSS and Atom
// feeds into a normalized form.
package feed

import (
	"strings"
	"time"

	"feedsanity/internal/classify"
)

// Entry is a single normalized feed item. Published is nil when the
// feed carries no usable timestamp.
type Entry struct {
	Title       string
	Link        string
	Author      string
	Description string
	Content     string
	Published   *time.Time
}

// Feed is a parsed feed with its normalized entries.
type Feed struct {
	URL     string
	Title   string
	Entries []Entry
}

// Name derives a friendly display name from a feed URL, such as
// "Penny Arcade" for https://www.penny-arcade.com/feed.
func Name(feedURL string) string {
	name := classify.Domain(feedURL)
	for _, suffix := range []string{".com", ".net", ".it", ".org"} {
		name = strings.ReplaceAll(name, suffix, "")
	}
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	words := strings.Fields(name)
	for i, word := range words {
		words[i] = classify.Capitalize(word)
	}
	return strings.Join(words, " ")
}

// BuildSample converts a parsed feed into the bounded sample the
// detectors look at. Entries missing a description fall back to their
// content block.
func BuildSample(f *Feed) classify.Sample {
	s := classify.Sample{Title: f.Title}
	for _, e := range f.Entries {
		desc := e.Description
		if desc == "" {
			desc = e.Content
		}
		s.Entries = append(s.Entries, classify.SampleEntry{
			Title:       e.Title,
			URL:         e.Link,
			Description: desc,
		})
	}
	return s
}
