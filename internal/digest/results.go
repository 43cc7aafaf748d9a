// Package digest collects the output of one run and renders it as a
// single HTML page.
package digest

import (
	"sort"
	"sync"

	"feedsanity/internal/comics"
	"feedsanity/internal/news"
)

// Failure records a feed that produced nothing usable.
type Failure struct {
	FeedURL string
	Message string
}

// Counts summarizes a run for the page header and the final report.
type Counts struct {
	Comics   int
	Articles int
	Failures int
}

// Results accumulates comics, articles and failures across workers.
type Results struct {
	mu       sync.Mutex
	comics   []comics.Comic
	articles []news.Article
	failures []Failure
}

// NewResults returns an empty collector.
func NewResults() *Results {
	return &Results{}
}

// AddComic records a downloaded comic.
func (r *Results) AddComic(c comics.Comic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comics = append(r.comics, c)
}

// AddArticle records a summarized article.
func (r *Results) AddArticle(a news.Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles = append(r.articles, a)
}

// AddFailure records a feed or entry that could not be processed.
func (r *Results) AddFailure(feedURL string, err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, Failure{FeedURL: feedURL, Message: err.Error()})
}

// Comics returns the recorded comics sorted by feed name.
func (r *Results) Comics() []comics.Comic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]comics.Comic, len(r.comics))
	copy(out, r.comics)
	sort.Slice(out, func(i, j int) bool { return out[i].FeedName < out[j].FeedName })
	return out
}

// Articles returns a copy of the recorded articles.
func (r *Results) Articles() []news.Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]news.Article, len(r.articles))
	copy(out, r.articles)
	return out
}

// Failures returns a copy of the recorded failures.
func (r *Results) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	return out
}

// Counts returns the current totals.
func (r *Results) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Counts{
		Comics:   len(r.comics),
		Articles: len(r.articles),
		Failures: len(r.failures),
	}
}
