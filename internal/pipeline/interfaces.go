// Package pipeline defines the contracts shared across the digest
// pipeline: the feed job queue, the completion publisher, and the
// small seams (clock, hashing, ID generation) that keep workers
// testable.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned by Dequeue once the queue has been closed
// and drained. Workers treat it as the end of the run.
var ErrQueueClosed = errors.New("queue closed")

// Job is a single feed queued for processing within a run.
type Job struct {
	RunID     [16]byte
	FeedURL   string
	Submitted int64
}

// Queue provides enqueue/dequeue semantics for feed jobs.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (Job, error)
}

// Publisher pushes run completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Hasher computes digests for deduplication/integrity.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (uuid.UUID, error)
}
