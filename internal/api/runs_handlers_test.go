package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedsanity/internal/store"
)

func TestRunsHandlerLatestRun(t *testing.T) {
	t.Parallel()

	finished := time.Date(2026, 8, 22, 6, 0, 42, 0, time.UTC)
	repo := &mockRunRepo{snap: store.RunSnapshot{
		RunID:      uuid.New(),
		StartedAt:  finished.Add(-42 * time.Second),
		FinishedAt: &finished,
		Status:     store.RunDone,
		FeedsTotal: 1,
		Feeds: []store.FeedResult{
			{URL: "https://xkcd.com/rss.xml", Kind: "comic", Items: 1, Duration: 3 * time.Second},
		},
		Comics: 1,
	}}
	handler := NewRunsHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/latest", nil)
	rec := httptest.NewRecorder()

	handler.LatestRun(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Run runDTO `json:"run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, repo.snap.RunID.String(), body.Run.RunID)
	require.Len(t, body.Run.Feeds, 1)
	require.EqualValues(t, 3000, body.Run.Feeds[0].DurationMs)
}

func TestRunsHandlerLatestRunUnavailable(t *testing.T) {
	t.Parallel()

	handler := NewRunsHandler(nil, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/latest", nil)
	rec := httptest.NewRecorder()

	handler.LatestRun(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunsHandlerGetRunNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockRunRepo{err: store.ErrNotFound}
	handler := NewRunsHandler(repo, zap.NewNop())

	runID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+runID.String(), nil)
	req = withRunIDParam(req, runID.String())
	rec := httptest.NewRecorder()

	handler.GetRun(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunsHandlerGetRunRepositoryError(t *testing.T) {
	t.Parallel()

	repo := &mockRunRepo{err: errors.New("boom")}
	handler := NewRunsHandler(repo, zap.NewNop())

	runID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+runID.String(), nil)
	req = withRunIDParam(req, runID.String())
	rec := httptest.NewRecorder()

	handler.GetRun(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

type mockRunRepo struct {
	snap store.RunSnapshot
	err  error
}

func (m *mockRunRepo) StartRun(context.Context, uuid.UUID, time.Time, int) error {
	return m.err
}

func (m *mockRunRepo) RecordFeed(context.Context, uuid.UUID, store.FeedResult) error {
	return m.err
}

func (m *mockRunRepo) CompleteRun(context.Context, uuid.UUID, time.Time) error {
	return m.err
}

func (m *mockRunRepo) GetRun(context.Context, uuid.UUID) (store.RunSnapshot, error) {
	return m.snap, m.err
}

func (m *mockRunRepo) LatestRun(context.Context) (store.RunSnapshot, error) {
	return m.snap, m.err
}

func withRunIDParam(r *http.Request, runID string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("run_id", runID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, ctx))
}
