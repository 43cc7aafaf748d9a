package digest

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/samber/lo"

	"feedsanity/internal/news"
)

// DefaultTitle is the page title when none is configured.
const DefaultTitle = "DailyFeedSanity"

// Page is everything the digest template needs.
type Page struct {
	Title     string
	Date      string
	Generated string
	Counts    Counts
	Comics    []comicView
	Feeds     []FeedGroup
	Failures  []Failure
}

type comicView struct {
	FeedName string
	Link     string
	Images   []string
}

// FeedGroup is one news feed's articles, rendered as a collapsible
// block.
type FeedGroup struct {
	Name     string
	Articles []news.Article
}

// Renderer turns collected results into the digest page.
type Renderer struct {
	title string
	tmpl  *template.Template
}

// NewRenderer builds a Renderer with the given page title.
func NewRenderer(title string) *Renderer {
	if title == "" {
		title = DefaultTitle
	}
	funcs := template.FuncMap{
		"badge":        badgeText,
		"plural":       pluralSuffix,
		"link":         linkOrHash,
		"displayTitle": displayTitle,
		"articleDate":  articleDate,
	}
	return &Renderer{
		title: title,
		tmpl:  template.Must(template.New("digest").Funcs(funcs).Parse(pageTemplate)),
	}
}

// Render writes the full HTML page for the results to w.
func (r *Renderer) Render(w io.Writer, results *Results, now time.Time) error {
	page := Page{
		Title:     r.title,
		Date:      now.Format("2006-01-02"),
		Generated: now.Format("2006-01-02 15:04:05"),
		Counts:    results.Counts(),
		Feeds:     groupArticles(results.Articles()),
		Failures:  results.Failures(),
	}
	for _, c := range results.Comics() {
		page.Comics = append(page.Comics, comicView{
			FeedName: c.FeedName,
			Link:     c.Link,
			Images:   c.Images,
		})
	}
	if err := r.tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("render digest: %w", err)
	}
	return nil
}

func groupArticles(articles []news.Article) []FeedGroup {
	grouped := lo.GroupBy(articles, func(a news.Article) string { return a.FeedName })
	names := lo.Keys(grouped)
	sort.Strings(names)
	out := make([]FeedGroup, 0, len(names))
	for _, name := range names {
		out = append(out, FeedGroup{Name: name, Articles: grouped[name]})
	}
	return out
}

func badgeText(detectedBy string) string {
	switch detectedBy {
	case news.DetectedByBoth:
		return "CLICKBAIT (AI + Author)"
	case news.DetectedByAI:
		return "CLICKBAIT (AI Detected)"
	case news.DetectedByAuthor:
		return "CLICKBAIT (Known Author)"
	default:
		return "CLICKBAIT"
	}
}

func pluralSuffix(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func linkOrHash(url string) string {
	if url == "" {
		return "#"
	}
	return url
}

func displayTitle(a news.Article) string {
	if a.GeneratedTitle != "" {
		return a.GeneratedTitle
	}
	if a.OriginalTitle != "" {
		return a.OriginalTitle
	}
	return "Untitled"
}

func articleDate(t *time.Time) string {
	if t == nil {
		return "Unknown date"
	}
	return t.Format("2006-01-02")
}
