package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound signals that the requested run does not exist.
var ErrNotFound = errors.New("run not found")

// RunStatus tracks the lifecycle of a digest run.
type RunStatus string

// Run statuses exposed by the snapshot API.
const (
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
)

// FeedResult records the outcome of one feed within a run.
type FeedResult struct {
	// URL is the feed URL as listed in the feed file.
	URL string
	// Kind is the resolved feed type, comic or news. It may be empty when
	// the feed failed before classification.
	Kind string
	// Items counts produced artifacts: downloaded panels or summarized
	// articles.
	Items int64
	// Duration is the wall time spent on the feed.
	Duration time.Duration
	// Error holds the failure reason; empty on success.
	Error string
	// At is the completion timestamp.
	At time.Time
}

// RunSnapshot is the aggregated view of a digest run served by the API.
type RunSnapshot struct {
	// RunID identifies the run.
	RunID uuid.UUID
	// StartedAt captures when the run was first marked running.
	StartedAt time.Time
	// FinishedAt is nil until the run completes.
	FinishedAt *time.Time
	// Status is running or done.
	Status RunStatus
	// FeedsTotal is the number of feeds enqueued at run start.
	FeedsTotal int
	// Feeds lists per-feed outcomes in completion order.
	Feeds []FeedResult
	// Comics counts downloaded comic panels across the run.
	Comics int64
	// Articles counts summarized articles across the run.
	Articles int64
	// Failures counts feeds that ended in an error.
	Failures int64
}

// RunRepository persists incremental run progress and serves snapshots.
type RunRepository interface {
	// StartRun inserts (or idempotently updates) the run's start marker.
	StartRun(ctx context.Context, runID uuid.UUID, startedAt time.Time, feedsTotal int) error
	// RecordFeed appends a feed outcome, creating the run if its start
	// event was lost.
	RecordFeed(ctx context.Context, runID uuid.UUID, result FeedResult) error
	// CompleteRun marks the run finished.
	CompleteRun(ctx context.Context, runID uuid.UUID, finishedAt time.Time) error

	// GetRun loads a single run or returns ErrNotFound.
	GetRun(ctx context.Context, runID uuid.UUID) (RunSnapshot, error)
	// LatestRun returns the most recently started run or ErrNotFound.
	LatestRun(ctx context.Context) (RunSnapshot, error)
}
