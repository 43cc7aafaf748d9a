// Package worker implements the per-feed digest pipeline execution loop.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"feedsanity/internal/classify"
	"feedsanity/internal/comics"
	"feedsanity/internal/digest"
	"feedsanity/internal/feed"
	"feedsanity/internal/metrics"
	"feedsanity/internal/news"
	"feedsanity/internal/pipeline"
	"feedsanity/internal/progress"
)

// FeedFetcher fetches and parses one feed into its normalized form.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (*feed.Feed, error)
}

// Classifier resolves one classification chain for a feed.
type Classifier interface {
	Resolve(ctx context.Context, feedURL string, sampleFn classify.SampleFunc) classify.Resolution
}

// ComicDownloader fetches the current strip of a comic feed.
type ComicDownloader interface {
	Download(ctx context.Context, feedURL string, entry feed.Entry, sink comics.Sink) (comics.Comic, error)
}

// ArticleProcessor extracts, cleans, and summarizes one news entry.
type ArticleProcessor interface {
	ProcessEntry(ctx context.Context, feedName, language string, entry feed.Entry) (news.Article, error)
}

// Config controls Worker behavior.
type Config struct {
	FeedTimeout time.Duration
	Window      feed.Window
}

// Worker consumes feed jobs and routes each feed down the comic or
// news path after classification.
type Worker struct {
	queue     pipeline.Queue
	parser    FeedFetcher
	types     Classifier
	languages Classifier
	comics    ComicDownloader
	news      ArticleProcessor
	images    comics.Sink
	results   *digest.Results
	emitter   progress.Emitter
	clock     pipeline.Clock
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Worker.
func New(
	queue pipeline.Queue,
	parser FeedFetcher,
	types Classifier,
	languages Classifier,
	downloader ComicDownloader,
	processor ArticleProcessor,
	images comics.Sink,
	results *digest.Results,
	emitter progress.Emitter,
	clock pipeline.Clock,
	cfg Config,
	logger *zap.Logger,
) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FeedTimeout <= 0 {
		cfg.FeedTimeout = 2 * time.Minute
	}
	return &Worker{
		queue:     queue,
		parser:    parser,
		types:     types,
		languages: languages,
		comics:    downloader,
		news:      processor,
		images:    images,
		results:   results,
		emitter:   emitter,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run blocks, consuming feed jobs until the queue drains or the
// context finishes.
func (w *Worker) Run(ctx context.Context) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, pipeline.ErrQueueClosed) {
				return
			}
			w.logger.Error("queue dequeue failed", zap.Error(err))
			continue
		}
		w.logger.Debug("dequeued feed", zap.String("feed", job.FeedURL))
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job pipeline.Job) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	start := w.clock.Now()
	w.emit(progress.Event{
		RunID: job.RunID,
		TS:    start,
		Stage: progress.StageFeedStart,
		Feed:  job.FeedURL,
	})

	feedCtx, cancel := context.WithTimeout(ctx, w.cfg.FeedTimeout)
	defer cancel()

	kind, items, err := w.safeProcess(feedCtx, job)
	dur := w.clock.Now().Sub(start)
	if err != nil {
		w.results.AddFailure(job.FeedURL, err)
		metrics.ObserveFeed(kindOrUnknown(kind), "error")
		w.emit(progress.Event{
			RunID: job.RunID,
			TS:    w.clock.Now(),
			Stage: progress.StageFeedError,
			Feed:  job.FeedURL,
			Kind:  kind,
			Dur:   dur,
			Note:  err.Error(),
		})
		w.logger.Warn("feed failed", zap.String("feed", job.FeedURL), zap.Error(err))
		return
	}

	metrics.ObserveFeed(kind, "ok")
	w.emit(progress.Event{
		RunID: job.RunID,
		TS:    w.clock.Now(),
		Stage: progress.StageFeedDone,
		Feed:  job.FeedURL,
		Kind:  kind,
		Items: items,
		Dur:   dur,
	})
	w.logger.Info("feed processed",
		zap.String("feed", job.FeedURL),
		zap.String("kind", kind),
		zap.Int64("items", items),
		zap.Duration("dur", dur),
	)
}

// safeProcess converts a panic in one feed into a failure so the rest
// of the run continues.
func (w *Worker) safeProcess(ctx context.Context, job pipeline.Job) (kind string, items int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("feed processing panicked: %v", r)
		}
	}()
	return w.processFeed(ctx, job)
}

func (w *Worker) processFeed(ctx context.Context, job pipeline.Job) (string, int64, error) {
	f, err := w.parser.Fetch(ctx, job.FeedURL)
	if err != nil {
		return "", 0, fmt.Errorf("fetch feed: %w", err)
	}

	sampleFn := sampleFromFeed(f)
	kind := w.types.Resolve(ctx, job.FeedURL, sampleFn).Value

	switch kind {
	case classify.TypeComic:
		items, err := w.processComic(ctx, job, f)
		return kind, items, err
	default:
		items, err := w.processNews(ctx, job, f, sampleFn)
		return kind, items, err
	}
}

func (w *Worker) processComic(ctx context.Context, job pipeline.Job, f *feed.Feed) (int64, error) {
	entry, ok := comics.SelectEntry(job.FeedURL, f.Entries)
	if !ok {
		return 0, fmt.Errorf("feed has no entries")
	}

	comic, err := w.comics.Download(ctx, job.FeedURL, entry, w.images)
	if err != nil {
		return 0, fmt.Errorf("download comic: %w", err)
	}

	w.results.AddComic(comic)
	w.emit(progress.Event{
		RunID: job.RunID,
		TS:    w.clock.Now(),
		Stage: progress.StageItemDone,
		Feed:  job.FeedURL,
		Kind:  classify.TypeComic,
		Items: 1,
	})
	return 1, nil
}

func (w *Worker) processNews(ctx context.Context, job pipeline.Job, f *feed.Feed, sampleFn classify.SampleFunc) (int64, error) {
	language := w.languages.Resolve(ctx, job.FeedURL, sampleFn).Value

	entries := w.cfg.Window.Filter(f.Entries, w.clock.Now())
	if len(entries) == 0 {
		w.logger.Debug("no recent entries", zap.String("feed", job.FeedURL))
		return 0, nil
	}

	feedName := feed.Name(job.FeedURL)
	var items int64
	for _, entry := range entries {
		article, err := w.news.ProcessEntry(ctx, feedName, language, entry)
		if err != nil {
			w.results.AddFailure(job.FeedURL, err)
			w.logger.Warn("entry skipped",
				zap.String("feed", job.FeedURL),
				zap.String("link", entry.Link),
				zap.Error(err),
			)
			continue
		}
		w.results.AddArticle(article)
		items++
		w.emit(progress.Event{
			RunID: job.RunID,
			TS:    w.clock.Now(),
			Stage: progress.StageItemDone,
			Feed:  job.FeedURL,
			Kind:  classify.TypeNews,
			Items: 1,
		})
	}
	return items, nil
}

func (w *Worker) emit(evt progress.Event) {
	if w.emitter == nil {
		return
	}
	w.emitter.Emit(evt)
}

func sampleFromFeed(f *feed.Feed) classify.SampleFunc {
	return func(context.Context) (classify.Sample, error) {
		return feed.BuildSample(f), nil
	}
}

func kindOrUnknown(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
