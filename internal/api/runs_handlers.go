package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedsanity/internal/store"
)

const runsTimeout = 3 * time.Second

// RunsHandler exposes read-only run snapshot endpoints.
type RunsHandler struct {
	repo    store.RunRepository
	timeout time.Duration
	logger  *zap.Logger
}

// NewRunsHandler wires the repository and logger.
func NewRunsHandler(repo store.RunRepository, logger *zap.Logger) *RunsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunsHandler{
		repo:    repo,
		timeout: runsTimeout,
		logger:  logger,
	}
}

// LatestRun handles GET /v1/runs/latest. It returns {"run": {...}} on
// success, 404 when no run has been recorded yet, 503 when the
// repository is unavailable, or 500 for repository errors.
func (h *RunsHandler) LatestRun(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "run repository unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snap, err := h.repo.LatestRun(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no runs recorded")
			return
		}
		h.logger.Error("latest run lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"run": toRunDTO(snap)})
}

// GetRun handles GET /v1/runs/{run_id}. It returns {"run": {...}} on
// success, 400 for malformed IDs, 404 when the repository reports
// store.ErrNotFound, 503 if the repository is missing, or 500
// otherwise.
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "run repository unavailable")
		return
	}
	runID, err := parseRunID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snap, err := h.repo.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.Error("get run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"run": toRunDTO(snap)})
}

func parseRunID(r *http.Request) (uuid.UUID, error) {
	runIDStr := chi.URLParam(r, "run_id")
	if runIDStr == "" {
		return uuid.UUID{}, errors.New("run_id is required")
	}
	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return uuid.UUID{}, errors.New("invalid run_id")
	}
	return runID, nil
}

func toRunDTO(snap store.RunSnapshot) runDTO {
	dto := runDTO{
		RunID:      snap.RunID.String(),
		StartedAt:  snap.StartedAt,
		FinishedAt: snap.FinishedAt,
		Status:     string(snap.Status),
		FeedsTotal: snap.FeedsTotal,
		Comics:     snap.Comics,
		Articles:   snap.Articles,
		Failures:   snap.Failures,
		Feeds:      make([]feedResultDTO, 0, len(snap.Feeds)),
	}
	for _, f := range snap.Feeds {
		dto.Feeds = append(dto.Feeds, feedResultDTO{
			URL:        f.URL,
			Kind:       f.Kind,
			Items:      f.Items,
			DurationMs: f.Duration.Milliseconds(),
			Error:      f.Error,
			At:         f.At,
		})
	}
	return dto
}

type runDTO struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Status     string          `json:"status"`
	FeedsTotal int             `json:"feeds_total"`
	Comics     int64           `json:"comics"`
	Articles   int64           `json:"articles"`
	Failures   int64           `json:"failures"`
	Feeds      []feedResultDTO `json:"feeds"`
}

type feedResultDTO struct {
	URL        string    `json:"url"`
	Kind       string    `json:"kind,omitempty"`
	Items      int64     `json:"items"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}
