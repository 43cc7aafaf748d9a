// Package server assembles the digest pipeline from configuration and
// owns its long-lived resources.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"feedsanity/internal/api"
	"feedsanity/internal/app"
	"feedsanity/internal/classify"
	"feedsanity/internal/clock/system"
	"feedsanity/internal/comics"
	"feedsanity/internal/config"
	"feedsanity/internal/digest"
	"feedsanity/internal/dispatcher"
	"feedsanity/internal/feed"
	"feedsanity/internal/fetch"
	"feedsanity/internal/hash/sha256"
	"feedsanity/internal/id/uuid"
	"feedsanity/internal/llm"
	"feedsanity/internal/logging"
	"feedsanity/internal/news"
	"feedsanity/internal/pipeline"
	"feedsanity/internal/progress"
	"feedsanity/internal/progress/sinks"
	publishermem "feedsanity/internal/publisher/memory"
	gcppublisher "feedsanity/internal/publisher/pubsub"
	"feedsanity/internal/queue"
	"feedsanity/internal/report"
	"feedsanity/internal/storage"
	storagemem "feedsanity/internal/storage/memory"
	"feedsanity/internal/store"
	"feedsanity/internal/worker"
)

const (
	digestTitle      = "DailyFeedSanity"
	queueDepth       = 256
	headlessParallel = 2
	shutdownTimeout  = 10 * time.Second
)

// App holds the assembled pipeline and its long-lived resources.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	queue     *queue.Queue
	dispatch  *dispatcher.Dispatcher
	results   *digest.Results
	hub       *progress.Hub
	runs      store.RunRepository
	files     *storage.FileManager
	api       *api.Server
	runner    *app.Runner
	parser    *feed.Parser
	types     *classify.Resolver
	languages *classify.Resolver
	pubsub    *gcppublisher.Publisher
	renderer  *fetch.Renderer
}

// Build assembles a fully wired App from configuration.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)

	a := &App{cfg: cfg, logger: logger}
	logger.Info("building application",
		zap.String("feeds_file", cfg.Feeds.File),
		zap.Int("concurrency", cfg.Feeds.Concurrency),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("storage_backend", cfg.Output.Backend))

	a.runs = storagemem.NewRunStore()

	blobs, err := a.setupStorage(ctx)
	if err != nil {
		return nil, err
	}

	events, err := a.setupPublisher(ctx)
	if err != nil {
		return nil, err
	}

	emitter, err := a.setupProgress(ctx)
	if err != nil {
		return nil, err
	}

	clk := system.New()
	run := storage.NewRun(blobs, clk.Now())
	a.results = digest.NewResults()
	a.queue = queue.New(queueDepth)

	a.setupPipeline(ctx, run, emitter, clk)

	a.api = api.NewServer(a.runs, a.staticDigestDir(), cfg.Server, logger.Named("api"))

	a.runner = app.NewRunner(app.Deps{
		Queue:    a.queue,
		Dispatch: a.dispatch,
		Results:  a.results,
		Pages:    digest.NewRenderer(digestTitle),
		Run:      run,
		Files:    a.files,
		Emitter:  emitter,
		Events:   events,
		Clock:    clk,
		Hasher:   sha256.New(),
		IDs:      uuid.New(),
	}, app.Config{
		FeedsFile:  cfg.Feeds.File,
		Topic:      cfg.Events.Topic,
		CleanupAge: cfg.Output.CleanupAge,
	}, logger.Named("run"))

	return a, nil
}

// RunDigest executes one digest run, serving the ops API for its
// duration when a listen address is configured, and prints the outcome
// table to out.
func (a *App) RunDigest(ctx context.Context, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if a.cfg.Server.ListenAddr != "" {
		srv = a.startHTTP(stop)
	}

	outcome, runErr := a.runner.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown error", zap.Error(err))
		}
		cancel()
	}
	if runErr != nil {
		return runErr
	}

	// Flush buffered progress so the summary reflects the whole run.
	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.hub.Close(flushCtx); err != nil {
		a.logger.Warn("progress hub close failed", zap.Error(err))
	}

	snap, err := a.runs.GetRun(ctx, outcome.RunID)
	if err != nil {
		return fmt.Errorf("load run summary: %w", err)
	}
	report.Render(out, snap, outcome.DigestURI)
	return nil
}

// Serve runs the ops HTTP surface until a signal arrives or the
// context is canceled.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is not configured")
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := a.startHTTP(stop)
	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	return nil
}

// ClassifyFeeds resolves and prints the type and language of every
// subscribed feed without downloading anything.
func (a *App) ClassifyFeeds(ctx context.Context, out io.Writer) error {
	urls, err := feed.LoadList(a.cfg.Feeds.File)
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"FEED", "TYPE", "VIA", "LANGUAGE", "VIA"})
	for _, u := range urls {
		sample := a.sampleFor(u)
		kind := a.types.Resolve(ctx, u, sample)
		lang := a.languages.Resolve(ctx, u, sample)
		langValue := lang.Value
		if langValue == "" {
			langValue = "-"
		}
		tw.AppendRow(table.Row{u, kind.Value, kind.Source, langValue, lang.Source})
	}
	tw.Render()
	return nil
}

// Close releases the App's resources. Safe to call after RunDigest.
func (a *App) Close(ctx context.Context) error {
	a.queue.Close()
	if a.hub != nil {
		if err := a.hub.Close(ctx); err != nil {
			a.logger.Warn("progress hub close failed", zap.Error(err))
		}
	}
	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			a.logger.Warn("pubsub publisher close failed", zap.Error(err))
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if err := a.logger.Sync(); err != nil {
		a.logger.Warn("logger sync failed", zap.Error(err))
	}
	a.logger.Info("shutdown complete")
	return nil
}

// Logger exposes the application logger for the CLI layer.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

func (a *App) startHTTP(stop context.CancelFunc) *http.Server {
	srv := &http.Server{
		Addr:              a.cfg.Server.ListenAddr,
		Handler:           a.api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			if stop != nil {
				stop()
			}
		}
	}()
	return srv
}

func (a *App) setupStorage(ctx context.Context) (storage.BlobStore, error) {
	backend := a.cfg.Output.Backend
	blobs, err := storage.New(ctx, storage.Options{
		Backend: backend,
		BaseDir: a.cfg.Output.Dir,
		Bucket:  a.cfg.Output.GCSBucket,
	}, a.logger.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	if backend == "" || backend == "local" {
		a.files, err = storage.NewFileManager(a.cfg.Output.Dir, a.cfg.Output.TempDir, a.logger.Named("storage"))
		if err != nil {
			return nil, fmt.Errorf("file manager init failed: %w", err)
		}
	}
	return blobs, nil
}

func (a *App) setupPublisher(ctx context.Context) (pipeline.Publisher, error) {
	if a.cfg.Events.Topic == "" || a.cfg.Events.ProjectID == "" {
		a.logger.Info("no pub/sub topic configured, run announcements stay local")
		return publishermem.New(), nil
	}
	pub, err := gcppublisher.New(ctx, a.cfg.Events.ProjectID, a.cfg.Events.Topic, a.logger.Named("pubsub"))
	if err != nil {
		return nil, fmt.Errorf("pubsub publisher init failed: %w", err)
	}
	a.pubsub = pub
	a.logger.Info("pub/sub publisher initialized",
		zap.String("project", a.cfg.Events.ProjectID),
		zap.String("topic", a.cfg.Events.Topic))
	return pub, nil
}

func (a *App) setupProgress(ctx context.Context) (progress.Emitter, error) {
	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("prometheus sink init failed: %w", err)
	}
	hubCfg := progress.Config{
		BufferSize:     a.cfg.Progress.BufferSize,
		MaxBatchEvents: a.cfg.Progress.MaxBatchEvents,
		MaxBatchWait:   a.cfg.Progress.MaxBatchWait,
		SinkTimeout:    a.cfg.Progress.SinkTimeout,
		BaseContext:    ctx,
		Logger:         a.logger.Named("progress_hub"),
	}
	a.hub = progress.NewHub(hubCfg,
		sinks.NewLogSink(a.logger.Named("progress_log")),
		promSink,
		sinks.NewStoreSink(a.runs, a.logger.Named("progress_store")),
	)
	a.logger.Debug("progress hub initialized",
		zap.Int("buffer_size", hubCfg.BufferSize),
		zap.Int("max_batch_events", hubCfg.MaxBatchEvents),
		zap.Duration("max_batch_wait", hubCfg.MaxBatchWait),
		zap.Duration("sink_timeout", hubCfg.SinkTimeout))
	return a.hub, nil
}

func (a *App) setupPipeline(ctx context.Context, run *storage.Run, emitter progress.Emitter, clk pipeline.Clock) {
	providerOpts, model := providerSettings(a.cfg.AI)
	provider := llm.NewWithFallback(ctx, providerOpts, llm.Options{
		Provider: "ollama",
		URL:      a.cfg.AI.Ollama.URL,
		Timeout:  a.cfg.AI.Timeout,
	}, a.logger.Named("llm"))

	fetchCfg := fetch.Config{
		UserAgent:    a.cfg.Fetch.UserAgent,
		Timeout:      a.cfg.Fetch.Timeout,
		MaxRetries:   a.cfg.Fetch.MaxRetries,
		RetryDelay:   a.cfg.Fetch.RetryDelay,
		RetryBackoff: a.cfg.Fetch.RetryBackoff,
		RateLimitRPS: a.cfg.Fetch.RateLimitRPS,
	}
	pages := fetch.New(fetchCfg, a.logger.Named("fetch"))
	fetcher := a.setupFetcher(pages)

	a.parser = feed.NewParser(fetchCfg, a.logger.Named("feed"))
	a.types = classify.NewTypeResolver(
		a.cfg.Classify.TypeOverrides, a.cfg.Classify.TypeCache,
		classify.NewTypeDetector(provider, model, a.logger.Named("classify")),
		a.logger.Named("classify"))
	a.languages = classify.NewLanguageResolver(
		a.cfg.Classify.LanguageOverrides, a.cfg.Classify.LanguageCache,
		classify.NewLanguageDetector(provider, model, a.logger.Named("classify")),
		a.logger.Named("classify"))

	downloader := comics.NewDownloader(fetcher, a.cfg.Images.Validate, a.cfg.Images.MinSize, a.logger.Named("comics"))
	processor := news.NewProcessor(
		news.NewExtractor(fetcher, a.logger.Named("news")),
		news.NewCleaner(a.cfg.Articles.MaxLength, a.cfg.Articles.MinWords, a.cfg.Articles.MinChars),
		news.NewSummarizer(provider, model, a.cfg.Articles.ClickbaitAuthors, a.cfg.Articles.MaxSummaryLength, a.logger.Named("news")),
		a.logger.Named("news"))

	workerCfg := worker.Config{
		FeedTimeout: a.cfg.Feeds.Timeout,
		Window:      feed.Window{Lookback: a.cfg.Feeds.Window, AllEntries: a.cfg.Feeds.AllEntries},
	}
	workers := make([]*worker.Worker, 0, a.cfg.Feeds.Concurrency)
	for i := 0; i < a.cfg.Feeds.Concurrency; i++ {
		workers = append(workers, worker.New(
			a.queue, a.parser, a.types, a.languages,
			downloader, processor, run, a.results,
			emitter, clk, workerCfg,
			a.logger.Named("worker").With(zap.Int("index", i)),
		))
	}
	a.dispatch = dispatcher.New(a.queue, workers)
}

// setupFetcher optionally stacks the headless renderer on the page
// fetcher for script-heavy article sites.
func (a *App) setupFetcher(pages *fetch.PageFetcher) fetch.Fetcher {
	if !a.cfg.Fetch.Headless.Enabled {
		return pages
	}
	renderer, err := fetch.NewRenderer(fetch.HeadlessConfig{
		UserAgent:   a.cfg.Fetch.UserAgent,
		Timeout:     a.cfg.Fetch.Headless.Timeout,
		MaxParallel: headlessParallel,
	})
	if err != nil {
		a.logger.Warn("headless renderer init failed, staying with the plain fetcher", zap.Error(err))
		return pages
	}
	a.renderer = renderer
	a.logger.Info("headless renderer enabled", zap.Duration("timeout", a.cfg.Fetch.Headless.Timeout))
	return fetch.NewPromoting(pages, fetch.NewHeuristic(0), renderer, a.logger.Named("fetch"))
}

// staticDigestDir is the directory the API serves digests from. Only
// the local backend produces browsable files.
func (a *App) staticDigestDir() string {
	switch a.cfg.Output.Backend {
	case "", "local":
		return a.cfg.Output.Dir
	default:
		return ""
	}
}

func (a *App) sampleFor(feedURL string) classify.SampleFunc {
	return func(ctx context.Context) (classify.Sample, error) {
		f, err := a.parser.Fetch(ctx, feedURL)
		if err != nil {
			return classify.Sample{}, fmt.Errorf("fetch feed: %w", err)
		}
		return feed.BuildSample(f), nil
	}
}

// providerSettings picks the connection options and model for the
// configured AI provider.
func providerSettings(cfg config.AIConfig) (llm.Options, string) {
	pc := cfg.Ollama
	switch cfg.Provider {
	case "lm_studio":
		pc = cfg.LMStudio
	case "openai":
		pc = cfg.OpenAI
	case "gemini":
		pc = cfg.Gemini
	case "claude":
		pc = cfg.Claude
	}
	return llm.Options{
		Provider: cfg.Provider,
		URL:      pc.URL,
		APIKey:   pc.APIKey,
		Timeout:  cfg.Timeout,
	}, pc.Model
}
