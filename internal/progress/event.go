// Package progress defines the event structures emitted by the digest workers.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart  Stage = "RUN_START"
	StageRunDone   Stage = "RUN_DONE"
	StageFeedStart Stage = "FEED_START"
	StageFeedDone  Stage = "FEED_DONE"
	StageFeedError Stage = "FEED_ERROR"
	StageItemDone  Stage = "ITEM_DONE"
)

// Event captures a single milestone of a digest run.
type Event struct {
	// RunID uniquely identifies a digest run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which run or feed milestone occurred.
	Stage Stage
	// Feed is the feed URL for FEED_* and ITEM_DONE events.
	Feed string
	// Kind is the resolved feed type (comic or news) once classification ran.
	Kind string
	// Items counts produced artifacts: downloaded panels or summarized
	// articles for feed events, the total feed count on RUN_START.
	Items int64
	// Dur captures execution latency for feed and run completions.
	Dur time.Duration
	// Note lets emitters attach low-volume context such as error text.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageFeedStart, StageItemDone:
		if e.Feed == "" {
			return fmt.Errorf("%s requires a feed", e.Stage)
		}
	case StageFeedDone:
		if e.Feed == "" {
			return errors.New("feed done requires a feed")
		}
		if e.Kind == "" {
			return errors.New("feed done requires a kind")
		}
	case StageFeedError:
		if e.Feed == "" {
			return errors.New("feed error requires a feed")
		}
		if e.Note == "" {
			return errors.New("feed error requires a note")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Items < 0 {
		return errors.New("items must be >= 0")
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID for repositories.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
