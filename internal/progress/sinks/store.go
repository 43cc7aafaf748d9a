package sinks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"feedsanity/internal/progress"
	"feedsanity/internal/store"
)

// StoreSink persists run progress via a store.RunRepository so the API can
// serve run snapshots. ITEM_DONE events are skipped: the final per-feed
// counts arrive with FEED_DONE, so item-level writes would only add noise.
type StoreSink struct {
	repo   store.RunRepository
	logger *zap.Logger
}

// NewStoreSink constructs a StoreSink for the provided repository.
func NewStoreSink(repo store.RunRepository, logger *zap.Logger) *StoreSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreSink{repo: repo, logger: logger}
}

// Consume forwards run and feed milestones to the repository. It respects
// ctx deadlines and returns any repository errors verbatim.
func (s *StoreSink) Consume(ctx context.Context, batch []progress.Event) error {
	if s == nil || s.repo == nil {
		return nil
	}
	for _, evt := range batch {
		runID := evt.RunUUID()
		switch evt.Stage {
		case progress.StageRunStart:
			if err := s.repo.StartRun(ctx, runID, evt.TS, int(evt.Items)); err != nil {
				return fmt.Errorf("start run: %w", err)
			}
		case progress.StageRunDone:
			if err := s.repo.CompleteRun(ctx, runID, evt.TS); err != nil {
				return fmt.Errorf("complete run: %w", err)
			}
		case progress.StageFeedDone, progress.StageFeedError:
			if err := s.repo.RecordFeed(ctx, runID, feedResult(evt)); err != nil {
				return fmt.Errorf("record feed: %w", err)
			}
		}
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *StoreSink) Close(context.Context) error {
	return nil
}

func feedResult(evt progress.Event) store.FeedResult {
	result := store.FeedResult{
		URL:      evt.Feed,
		Kind:     evt.Kind,
		Items:    evt.Items,
		Duration: evt.Dur,
		At:       evt.TS,
	}
	if evt.Stage == progress.StageFeedError {
		result.Error = evt.Note
	}
	return result
}
