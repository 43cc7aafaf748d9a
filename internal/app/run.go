// Package app orchestrates one end-to-end digest run: it feeds the
// queue, waits for the worker pool to drain it, renders and stores the
// digest page, and announces completion.
package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedsanity/internal/digest"
	"feedsanity/internal/dispatcher"
	"feedsanity/internal/feed"
	"feedsanity/internal/pipeline"
	"feedsanity/internal/progress"
	"feedsanity/internal/queue"
	"feedsanity/internal/storage"
)

// Announcement is the run-completion event published for downstream
// automation.
type Announcement struct {
	RunID        string    `json:"run_id"`
	Date         string    `json:"date"`
	DigestURI    string    `json:"digest_uri"`
	DigestSHA256 string    `json:"digest_sha256"`
	Feeds        int       `json:"feeds"`
	Comics       int       `json:"comics"`
	Articles     int       `json:"articles"`
	Failures     int       `json:"failures"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Outcome summarizes a finished run for the caller.
type Outcome struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	DigestURI  string
	Feeds      int
	Counts     digest.Counts
}

// Config carries the run-level knobs.
type Config struct {
	FeedsFile  string
	Topic      string
	CleanupAge time.Duration
}

// Deps bundles the assembled pipeline pieces one run drives. Files may
// be nil when the digest is not written to the local filesystem.
type Deps struct {
	Queue    *queue.Queue
	Dispatch *dispatcher.Dispatcher
	Results  *digest.Results
	Pages    *digest.Renderer
	Run      *storage.Run
	Files    *storage.FileManager
	Emitter  progress.Emitter
	Events   pipeline.Publisher
	Clock    pipeline.Clock
	Hasher   pipeline.Hasher
	IDs      pipeline.IDGenerator
}

// Runner executes digest runs over an assembled pipeline.
type Runner struct {
	cfg    Config
	deps   Deps
	logger *zap.Logger
}

// NewRunner constructs a Runner.
func NewRunner(deps Deps, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, deps: deps, logger: logger}
}

// Run executes one digest run and returns its outcome. Progress events
// flow through the emitter as the run advances; callers that read the
// run snapshot afterwards must flush the hub first.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	urls, err := feed.LoadList(r.cfg.FeedsFile)
	if err != nil {
		return Outcome{}, err
	}
	if len(urls) == 0 {
		return Outcome{}, fmt.Errorf("no feeds in %s", r.cfg.FeedsFile)
	}

	runID, err := r.deps.IDs.NewID()
	if err != nil {
		return Outcome{}, fmt.Errorf("generate run id: %w", err)
	}
	startedAt := r.deps.Clock.Now()

	r.logger.Info("run started",
		zap.String("run_id", runID.String()),
		zap.Int("feeds", len(urls)))
	r.emit(progress.Event{
		RunID: progress.UUIDToBytes(runID),
		TS:    startedAt,
		Stage: progress.StageRunStart,
		Items: int64(len(urls)),
	})

	r.prepareOutput(startedAt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.deps.Dispatch.Run(ctx)
	}()

	enqErr := r.enqueue(ctx, runID, urls)
	r.deps.Queue.Close()
	<-done

	if enqErr != nil {
		return Outcome{}, enqErr
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("run canceled: %w", err)
	}

	finishedAt := r.deps.Clock.Now()
	uri, sum, err := r.writeDigest(ctx, finishedAt)
	if err != nil {
		return Outcome{}, err
	}

	counts := r.deps.Results.Counts()
	r.emit(progress.Event{
		RunID: progress.UUIDToBytes(runID),
		TS:    finishedAt,
		Stage: progress.StageRunDone,
		Items: int64(counts.Comics + counts.Articles),
		Dur:   finishedAt.Sub(startedAt),
	})
	r.logger.Info("run finished",
		zap.String("run_id", runID.String()),
		zap.String("digest", uri),
		zap.Int("comics", counts.Comics),
		zap.Int("articles", counts.Articles),
		zap.Int("failures", counts.Failures),
		zap.Duration("dur", finishedAt.Sub(startedAt)))

	r.announce(ctx, runID, uri, sum, len(urls), counts, finishedAt)
	r.cleanup(finishedAt)

	return Outcome{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		DigestURI:  uri,
		Feeds:      len(urls),
		Counts:     counts,
	}, nil
}

func (r *Runner) enqueue(ctx context.Context, runID uuid.UUID, urls []string) error {
	for _, u := range urls {
		job := pipeline.Job{
			RunID:     progress.UUIDToBytes(runID),
			FeedURL:   u,
			Submitted: r.deps.Clock.Now().Unix(),
		}
		if err := r.deps.Dispatch.Enqueue(ctx, job); err != nil {
			return fmt.Errorf("enqueue %s: %w", u, err)
		}
	}
	return nil
}

// prepareOutput moves a previous digest folder for the same day into
// the trash so a rerun starts clean but remains recoverable.
func (r *Runner) prepareOutput(now time.Time) {
	if r.deps.Files == nil {
		return
	}
	stale := filepath.Join(r.deps.Files.OutputDir(), r.deps.Run.Prefix())
	if _, err := os.Stat(stale); err == nil {
		if _, err := r.deps.Files.SafeDelete(stale, now); err != nil {
			r.logger.Warn("could not move previous digest folder to trash",
				zap.String("folder", stale), zap.Error(err))
		}
	}
	if _, err := r.deps.Files.DatedFolder(now); err != nil {
		r.logger.Warn("could not create dated folder", zap.Error(err))
	}
}

func (r *Runner) writeDigest(ctx context.Context, now time.Time) (string, string, error) {
	var page bytes.Buffer
	if err := r.deps.Pages.Render(&page, r.deps.Results, now); err != nil {
		return "", "", fmt.Errorf("render digest: %w", err)
	}
	uri, err := r.deps.Run.WriteDigest(ctx, page.Bytes())
	if err != nil {
		return "", "", fmt.Errorf("write digest: %w", err)
	}
	sum, err := r.deps.Hasher.Hash(page.Bytes())
	if err != nil {
		return "", "", fmt.Errorf("hash digest: %w", err)
	}
	return uri, sum, nil
}

// announce publishes the run-completion event. Without a configured
// topic the announcement is skipped, and a failed publish does not
// fail the run.
func (r *Runner) announce(ctx context.Context, runID uuid.UUID, uri, sum string, feeds int, counts digest.Counts, finishedAt time.Time) {
	if r.cfg.Topic == "" || r.deps.Events == nil {
		return
	}
	msgID, err := r.deps.Events.Publish(ctx, r.cfg.Topic, Announcement{
		RunID:        runID.String(),
		Date:         r.deps.Run.Prefix(),
		DigestURI:    uri,
		DigestSHA256: sum,
		Feeds:        feeds,
		Comics:       counts.Comics,
		Articles:     counts.Articles,
		Failures:     counts.Failures,
		GeneratedAt:  finishedAt,
	})
	if err != nil {
		r.logger.Warn("publish run announcement failed",
			zap.String("topic", r.cfg.Topic), zap.Error(err))
		return
	}
	r.logger.Info("run announcement published",
		zap.String("topic", r.cfg.Topic), zap.String("message_id", msgID))
}

func (r *Runner) cleanup(now time.Time) {
	if r.deps.Files == nil || r.cfg.CleanupAge <= 0 {
		return
	}
	if err := r.deps.Files.CleanupTemp(now, r.cfg.CleanupAge); err != nil {
		r.logger.Warn("temp cleanup failed", zap.Error(err))
	}
}

func (r *Runner) emit(evt progress.Event) {
	if r.deps.Emitter == nil {
		return
	}
	r.deps.Emitter.Emit(evt)
}
