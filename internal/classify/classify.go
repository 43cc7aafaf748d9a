// Package classify resolves a feed's type and language through a priority
// chain of manual overrides, a built-in domain table, a persistent cache,
// and an AI detector.
package classify

// Kind names one of the two classification chains.
type Kind string

// Classification kinds.
const (
	KindType     Kind = "type"
	KindLanguage Kind = "language"
)

// Feed type values.
const (
	TypeComic = "comic"
	TypeNews  = "news"
)

// Source identifies which stage of the chain produced a value.
type Source string

// Resolution sources, ordered from highest to lowest priority.
const (
	SourceOverride Source = "override"
	SourceConfig   Source = "config"
	SourceCache    Source = "cache"
	SourceDetected Source = "detected"
	SourceDefault  Source = "default"
)

// Resolution pairs a classification value with its provenance. The source
// is informational; callers branch on Value only.
type Resolution struct {
	Value  string
	Source Source
}
