package classify

import (
	"context"

	"go.uber.org/zap"
)

// SampleFunc lazily produces the feed sample used for detection. It is
// invoked only when every cheaper stage of the chain misses, because it
// usually means fetching the feed.
type SampleFunc func(ctx context.Context) (Sample, error)

// ResolverConfig assembles one classification chain. Stages may be left
// nil/empty; the chain simply skips them.
type ResolverConfig struct {
	Kind      Kind
	Overrides *OverrideStore
	Table     Table
	Cache     *Cache
	Detector  Detector
	Default   string
}

// Resolver answers "what is this feed's type/language" by walking a
// fixed priority chain: manual override, built-in table, cache, AI
// detection, default. Resolve is total; it never returns an error.
type Resolver struct {
	kind      Kind
	overrides *OverrideStore
	table     Table
	cache     *Cache
	detector  Detector
	fallback  string
	logger    *zap.Logger
}

// NewResolver builds a resolver from an explicit chain configuration.
func NewResolver(cfg ResolverConfig, logger *zap.Logger) *Resolver {
	overrides := cfg.Overrides
	if overrides == nil {
		overrides = &OverrideStore{byKey: map[string]string{}}
	}
	return &Resolver{
		kind:      cfg.Kind,
		overrides: overrides,
		table:     cfg.Table,
		cache:     cfg.Cache,
		detector:  cfg.Detector,
		fallback:  cfg.Default,
		logger:    logger,
	}
}

// NewTypeResolver builds the feed type chain: manual overrides, the
// built-in domain table, the JSON cache, then AI detection, falling back
// to comic.
func NewTypeResolver(overridePath, cachePath string, detector Detector, logger *zap.Logger) *Resolver {
	return NewResolver(ResolverConfig{
		Kind:      KindType,
		Overrides: LoadOverrides(overridePath, KindType, logger),
		Table:     BuiltinTypeTable(),
		Cache:     NewCache(cachePath, logger),
		Detector:  detector,
		Default:   TypeComic,
	}, logger)
}

// NewLanguageResolver builds the feed language chain: manual overrides,
// the JSON cache, then AI detection. The default is empty, meaning "no
// opinion"; summarization decides what to do with that.
func NewLanguageResolver(overridePath, cachePath string, detector Detector, logger *zap.Logger) *Resolver {
	return NewResolver(ResolverConfig{
		Kind:      KindLanguage,
		Overrides: LoadOverrides(overridePath, KindLanguage, logger),
		Cache:     NewCache(cachePath, logger),
		Detector:  detector,
		Default:   "",
	}, logger)
}

// Resolve walks the chain for one feed, short-circuiting at the first
// hit. A successful detection is written to the cache so the next call
// for the same domain resolves without the detector. Every failure path
// ends at the configured default.
func (r *Resolver) Resolve(ctx context.Context, feedURL string, sampleFn SampleFunc) Resolution {
	domain := Domain(feedURL)

	if v, ok := r.overrides.Lookup(feedURL); ok {
		return r.resolved(feedURL, v, SourceOverride)
	}
	if v, ok := r.table.Lookup(domain); ok {
		return r.resolved(feedURL, v, SourceConfig)
	}
	if r.cache != nil {
		if v, ok := r.cache.Get(domain); ok {
			return r.resolved(feedURL, v, SourceCache)
		}
	}

	if v, ok := r.detect(ctx, feedURL, domain, sampleFn); ok {
		return r.resolved(feedURL, v, SourceDetected)
	}

	return r.resolved(feedURL, r.fallback, SourceDefault)
}

func (r *Resolver) detect(ctx context.Context, feedURL, domain string, sampleFn SampleFunc) (string, bool) {
	if r.detector == nil || sampleFn == nil {
		return "", false
	}

	sample, err := sampleFn(ctx)
	if err != nil {
		r.logger.Warn("sampling feed for detection failed",
			zap.String("kind", string(r.kind)), zap.String("feed", feedURL), zap.Error(err))
		return "", false
	}

	value, err := r.detector.Detect(ctx, feedURL, sample)
	if err != nil {
		r.logger.Warn("detection failed",
			zap.String("kind", string(r.kind)), zap.String("feed", feedURL), zap.Error(err))
		return "", false
	}
	if value == "" {
		return "", false
	}

	if r.cache != nil && domain != "" {
		if err := r.cache.Put(domain, value); err != nil {
			r.logger.Warn("caching classification failed",
				zap.String("kind", string(r.kind)), zap.String("domain", domain), zap.Error(err))
		}
	}
	return value, true
}

func (r *Resolver) resolved(feedURL, value string, source Source) Resolution {
	r.logger.Info("feed classified",
		zap.String("kind", string(r.kind)),
		zap.String("feed", feedURL),
		zap.String("value", value),
		zap.String("source", string(source)))
	return Resolution{Value: value, Source: source}
}

// Cache exposes the chain's cache stage for maintenance commands.
func (r *Resolver) Cache() *Cache {
	return r.cache
}
