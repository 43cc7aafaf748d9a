package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedsanity/internal/store"
)

type exampleRunRepo struct {
	snap store.RunSnapshot
}

func (e *exampleRunRepo) StartRun(context.Context, uuid.UUID, time.Time, int) error {
	return nil
}

func (e *exampleRunRepo) RecordFeed(context.Context, uuid.UUID, store.FeedResult) error {
	return nil
}

func (e *exampleRunRepo) CompleteRun(context.Context, uuid.UUID, time.Time) error {
	return nil
}

func (e *exampleRunRepo) GetRun(context.Context, uuid.UUID) (store.RunSnapshot, error) {
	return e.snap, nil
}

func (e *exampleRunRepo) LatestRun(context.Context) (store.RunSnapshot, error) {
	return e.snap, nil
}

// ExampleRunsHandler_LatestRun shows how to serve the /v1/runs/latest endpoint.
func ExampleRunsHandler_LatestRun() {
	runID := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	repo := &exampleRunRepo{snap: store.RunSnapshot{
		RunID:     runID,
		StartedAt: time.Unix(0, 0).UTC(),
		Status:    store.RunDone,
		Comics:    2,
		Articles:  5,
	}}
	handler := NewRunsHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/latest", nil)
	rec := httptest.NewRecorder()
	handler.LatestRun(rec, req)

	var payload struct {
		Run struct {
			Comics   int64 `json:"comics"`
			Articles int64 `json:"articles"`
		} `json:"run"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		panic(err)
	}
	fmt.Printf("comics: %d articles: %d\n", payload.Run.Comics, payload.Run.Articles)
	// Output:
	// comics: 2 articles: 5
}
