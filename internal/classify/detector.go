package classify

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"feedsanity/internal/llm"
)

// Sample is the bounded feed excerpt handed to a Detector. Callers fetch
// it lazily because most resolutions never reach the detector stage.
type Sample struct {
	Title   string
	Entries []SampleEntry
}

// SampleEntry is one feed item inside a Sample.
type SampleEntry struct {
	Title       string
	URL         string
	Description string
}

// Detector infers a classification value from a feed sample. A failed
// detection returns an error; the resolver treats it as a miss.
type Detector interface {
	Detect(ctx context.Context, feedURL string, sample Sample) (string, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, feedURL string, sample Sample) (string, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, feedURL string, sample Sample) (string, error) {
	return f(ctx, feedURL, sample)
}

const (
	detectionTemperature = 0.1

	typeSampleEntries     = 5
	languageSampleEntries = 3
	sampleDescriptionMax  = 200
)

const typeSystemPrompt = `You are a feed classifier. Analyze RSS feed content and determine if it is a COMIC feed or NEWS feed.

COMIC feeds:
- Contain webcomics, comic strips, or visual storytelling
- Entries typically link to comic pages with images
- Titles are often simple or episodic (e.g., numbered, dated)
- Descriptions may contain image tags or be minimal
- URLs often contain patterns like /comic/, /comics/, numbered episodes

NEWS feeds:
- Contain news articles, blog posts, or text-heavy content
- Entries are article headlines and summaries
- Titles are descriptive article headlines
- Descriptions contain article text or summaries
- URLs typically point to article pages with /post/, /article/, /news/, dates

Respond with ONLY one word: either 'comic' or 'news'. Do not provide explanations or additional text.`

const languageSystemPrompt = `You are a language detection expert. Analyze the provided feed content and determine what language it is written in.

Respond with ONLY the language name in English (e.g., 'English', 'Italian', 'Spanish', 'French', 'German', 'Portuguese', 'Japanese', 'Chinese', 'Korean', etc.).

Do not provide explanations or additional text. Just the language name.`

// TypeDetector asks a language model whether a feed carries comics or
// articles.
type TypeDetector struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewTypeDetector builds a feed type detector on top of an AI provider.
func NewTypeDetector(provider llm.Provider, model string, logger *zap.Logger) *TypeDetector {
	return &TypeDetector{provider: provider, model: model, logger: logger}
}

// Detect classifies the sampled feed as comic or news.
func (d *TypeDetector) Detect(ctx context.Context, feedURL string, sample Sample) (string, error) {
	entries := sample.Entries
	if len(entries) == 0 {
		return "", fmt.Errorf("no entries to analyze for %s", feedURL)
	}
	if len(entries) > typeSampleEntries {
		entries = entries[:typeSampleEntries]
	}

	reply, err := d.provider.Generate(ctx, llm.GenerateRequest{
		Model:       d.model,
		System:      typeSystemPrompt,
		Prompt:      buildTypePrompt(sample.Title, entries),
		Temperature: detectionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("classify %s: %w", feedURL, err)
	}

	value, ok := parseTypeReply(reply)
	if !ok {
		return "", fmt.Errorf("unrecognized feed type reply %q", firstLine(reply))
	}
	d.logger.Debug("feed type detected", zap.String("feed", feedURL), zap.String("type", value))
	return value, nil
}

// LanguageDetector asks a language model what language a feed's entries
// are written in.
type LanguageDetector struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewLanguageDetector builds a feed language detector on top of an AI
// provider.
func NewLanguageDetector(provider llm.Provider, model string, logger *zap.Logger) *LanguageDetector {
	return &LanguageDetector{provider: provider, model: model, logger: logger}
}

// Detect names the language of the sampled feed, e.g. "Italian".
func (d *LanguageDetector) Detect(ctx context.Context, feedURL string, sample Sample) (string, error) {
	entries := sample.Entries
	if len(entries) == 0 {
		return "", fmt.Errorf("no entries to analyze for %s", feedURL)
	}
	if len(entries) > languageSampleEntries {
		entries = entries[:languageSampleEntries]
	}

	reply, err := d.provider.Generate(ctx, llm.GenerateRequest{
		Model:       d.model,
		System:      languageSystemPrompt,
		Prompt:      buildLanguagePrompt(sample.Title, entries),
		Temperature: detectionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("detect language of %s: %w", feedURL, err)
	}

	value, ok := parseLanguageReply(reply)
	if !ok {
		return "", fmt.Errorf("unrecognized language reply %q", firstLine(reply))
	}
	d.logger.Debug("feed language detected", zap.String("feed", feedURL), zap.String("language", value))
	return value, nil
}

func buildTypePrompt(feedTitle string, entries []SampleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feed Title: %s\n\nSample Entries:\n\n", orUnknown(feedTitle))
	for i, entry := range entries {
		fmt.Fprintf(&b, "Entry %d:\n", i+1)
		fmt.Fprintf(&b, "  Title: %s\n", orUntitled(entry.Title))
		fmt.Fprintf(&b, "  URL: %s\n", entry.URL)
		if desc := truncateRunes(entry.Description, sampleDescriptionMax); desc != "" {
			fmt.Fprintf(&b, "  Description: %s...\n", desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("Based on this feed data, is this a comic/webcomic feed or a news/article feed?")
	return b.String()
}

func buildLanguagePrompt(feedTitle string, entries []SampleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feed Title: %s\n\nSample Entries:\n\n", orUnknown(feedTitle))
	for i, entry := range entries {
		fmt.Fprintf(&b, "Entry %d:\n", i+1)
		fmt.Fprintf(&b, "  Title: %s\n", orUntitled(entry.Title))
		if desc := truncateRunes(entry.Description, sampleDescriptionMax); desc != "" {
			fmt.Fprintf(&b, "  Description: %s...\n", desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("Based on these feed entries, what language are they written in?")
	return b.String()
}

// parseTypeReply extracts comic or news from a model reply. A reply
// mentioning exactly one of the two words wins; otherwise the first word
// is tried.
func parseTypeReply(reply string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(reply))
	hasComic := strings.Contains(r, TypeComic)
	hasNews := strings.Contains(r, TypeNews)
	switch {
	case hasComic && !hasNews:
		return TypeComic, true
	case hasNews && !hasComic:
		return TypeNews, true
	}
	if fields := strings.Fields(r); len(fields) > 0 {
		if fields[0] == TypeComic || fields[0] == TypeNews {
			return fields[0], true
		}
	}
	return "", false
}

// parseLanguageReply cleans a model reply into a capitalized language
// name. Replies over 50 runes are rejected as explanations.
func parseLanguageReply(reply string) (string, bool) {
	lang := strings.Trim(strings.TrimSpace(reply), `"'.,`)
	if lang == "" || len([]rune(lang)) > 50 {
		return "", false
	}
	return Capitalize(lang), true
}

// Capitalize uppercases the first rune and lowercases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orUntitled(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return truncateRunes(line, 120)
}
