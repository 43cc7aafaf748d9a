package news

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content thresholds applied when no explicit configuration is given.
const (
	DefaultMaxArticleLength = 10000
	DefaultMinWords         = 50
	DefaultMinChars         = 200
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	spaceRunPattern   = regexp.MustCompile(` +`)
	blankLinesPattern = regexp.MustCompile(`\n\s*\n\s*\n+`)
	siteSuffixPattern = regexp.MustCompile(`\s*[-|]\s*[^-|]+\s*$`)

	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Click here to.*?(?:\n|$)`),
		regexp.MustCompile(`(?i)Subscribe to.*?(?:\n|$)`),
		regexp.MustCompile(`(?i)Follow us on.*?(?:\n|$)`),
		regexp.MustCompile(`(?i)Share this.*?(?:\n|$)`),
		regexp.MustCompile(`(?i)Advertisement\s*`),
		regexp.MustCompile(`(?i)Related Articles.*?(?:\n|$)`),
		regexp.MustCompile(`(?i)Read more.*?(?:\n|$)`),
	}
)

// Cleaner normalizes extracted article text before summarization.
type Cleaner struct {
	maxArticleLength int
	minWords         int
	minChars         int
}

// NewCleaner builds a Cleaner, falling back to the default thresholds
// for any non-positive value.
func NewCleaner(maxArticleLength, minWords, minChars int) *Cleaner {
	if maxArticleLength <= 0 {
		maxArticleLength = DefaultMaxArticleLength
	}
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	return &Cleaner{
		maxArticleLength: maxArticleLength,
		minWords:         minWords,
		minChars:         minChars,
	}
}

// CleanText strips markup, normalizes whitespace, drops boilerplate
// lines, and truncates overlong articles at a sentence boundary.
func (c *Cleaner) CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = stripHTML(text)
	text = normalizeWhitespace(text)
	text = removeBoilerplate(text)

	runes := []rune(text)
	if len(runes) > c.maxArticleLength {
		runes = runes[:c.maxArticleLength]
		// Cut at the last sentence end, as long as at least 80% of
		// the budget survives.
		lastPeriod := -1
		for i := len(runes) - 1; i >= 0; i-- {
			if runes[i] == '.' {
				lastPeriod = i
				break
			}
		}
		if float64(lastPeriod) > float64(c.maxArticleLength)*0.8 {
			runes = runes[:lastPeriod+1]
		}
		text = string(runes)
	}
	return strings.TrimSpace(text)
}

// CleanTitle strips markup and the trailing site name from a headline.
func (c *Cleaner) CleanTitle(title string) string {
	if title == "" {
		return "Untitled"
	}
	title = stripHTML(title)
	title = siteSuffixPattern.ReplaceAllString(title, "")
	title = strings.Join(strings.Fields(title), " ")
	return strings.TrimSpace(title)
}

// Validation is the outcome of a content substance check.
type Validation struct {
	Valid     bool
	WordCount int
	CharCount int
	Reason    string
}

// Validate reports whether the cleaned text is substantial enough to
// be worth a model call.
func (c *Cleaner) Validate(text string) Validation {
	if text == "" {
		return Validation{Reason: "Empty text"}
	}
	v := Validation{
		WordCount: len(strings.Fields(text)),
		CharCount: len([]rune(text)),
	}
	if v.WordCount < c.minWords {
		v.Reason = fmt.Sprintf("Too few words: %d < %d", v.WordCount, c.minWords)
		return v
	}
	if v.CharCount < c.minChars {
		v.Reason = fmt.Sprintf("Too few characters: %d < %d", v.CharCount, c.minChars)
		return v
	}
	v.Valid = true
	return v
}

func stripHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return tagPattern.ReplaceAllString(text, "")
	}
	return doc.Text()
}

func normalizeWhitespace(text string) string {
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func removeBoilerplate(text string) string {
	for _, pattern := range boilerplatePatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return text
}
