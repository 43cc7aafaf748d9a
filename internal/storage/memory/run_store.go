package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"feedsanity/internal/store"
)

// RunStore is an in-memory store.RunRepository. It backs the snapshot API
// for single-process runs, where a database would be overkill.
type RunStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*runRecord
}

type runRecord struct {
	startedAt  time.Time
	finishedAt *time.Time
	status     store.RunStatus
	feedsTotal int
	feeds      []store.FeedResult
}

// NewRunStore constructs a RunStore.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[uuid.UUID]*runRecord)}
}

// StartRun marks the run as running. Calling it twice for the same run
// keeps the original start time.
func (s *RunStore) StartRun(_ context.Context, runID uuid.UUID, startedAt time.Time, feedsTotal int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.runs[runID]
	if rec == nil {
		rec = &runRecord{startedAt: startedAt, status: store.RunRunning}
		s.runs[runID] = rec
	}
	if rec.feedsTotal == 0 {
		rec.feedsTotal = feedsTotal
	}
	return nil
}

// RecordFeed appends a feed outcome. A missing run record is created so a
// dropped start event does not lose feed results.
func (s *RunStore) RecordFeed(_ context.Context, runID uuid.UUID, result store.FeedResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensureLocked(runID, result.At)
	rec.feeds = append(rec.feeds, result)
	return nil
}

// CompleteRun marks the run finished.
func (s *RunStore) CompleteRun(_ context.Context, runID uuid.UUID, finishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensureLocked(runID, finishedAt)
	ts := finishedAt
	rec.finishedAt = &ts
	rec.status = store.RunDone
	return nil
}

// GetRun builds a snapshot for one run.
func (s *RunStore) GetRun(_ context.Context, runID uuid.UUID) (store.RunSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	if !ok {
		return store.RunSnapshot{}, store.ErrNotFound
	}
	return rec.snapshot(runID), nil
}

// LatestRun returns the most recently started run.
func (s *RunStore) LatestRun(_ context.Context) (store.RunSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		latestID  uuid.UUID
		latestRec *runRecord
	)
	for id, rec := range s.runs {
		if latestRec == nil || rec.startedAt.After(latestRec.startedAt) {
			latestID, latestRec = id, rec
		}
	}
	if latestRec == nil {
		return store.RunSnapshot{}, store.ErrNotFound
	}
	return latestRec.snapshot(latestID), nil
}

func (s *RunStore) ensureLocked(runID uuid.UUID, at time.Time) *runRecord {
	rec := s.runs[runID]
	if rec == nil {
		rec = &runRecord{startedAt: at, status: store.RunRunning}
		s.runs[runID] = rec
	}
	return rec
}

func (r *runRecord) snapshot(runID uuid.UUID) store.RunSnapshot {
	snap := store.RunSnapshot{
		RunID:      runID,
		StartedAt:  r.startedAt,
		FinishedAt: r.finishedAt,
		Status:     r.status,
		FeedsTotal: r.feedsTotal,
		Feeds:      make([]store.FeedResult, len(r.feeds)),
	}
	copy(snap.Feeds, r.feeds)
	for _, feed := range r.feeds {
		if feed.Error != "" {
			snap.Failures++
			continue
		}
		switch feed.Kind {
		case "comic":
			snap.Comics += feed.Items
		case "news":
			snap.Articles += feed.Items
		}
	}
	return snap
}
