package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/api/shared"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/service"
	"github.com/burstlabs/burst-api/internal/store"
)

// ScoreHandler handles Echo Score HTTP requests
type ScoreHandler struct {
	scoreService service.ScoreService
	logger       *slog.Logger
}

// NewScoreHandler creates a new ScoreHandler
func NewScoreHandler(scoreService service.ScoreService, logger *slog.Logger) *ScoreHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ScoreHandler")
	}

	return &ScoreHandler{
		scoreService: scoreService,
		logger:       logger.With(slog.String("component", "score_handler")),
	}
}

// GetLatestScore handles GET /users/{userID}/echo-score requests.
// A never-scored user gets a zero score rather than a 404; a missing score
// must never block the rest of the product experience.
func (h *ScoreHandler) GetLatestScore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := parseUserID(w, r, log)
	if !ok {
		return
	}

	row, err := h.scoreService.LatestScore(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrScoreNotFound) {
			shared.RespondWithJSON(w, r, http.StatusOK,
				newZeroScoreResponse(userID.String(), time.Now()))
			return
		}
		log.Error("failed to get latest score",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newEchoScoreResponse(row, false))
}

// ComputeScore handles POST /users/{userID}/echo-score/runs requests.
// It runs one on-demand scoring run. If the run fails, the handler falls
// back to the last known score (marked stale) or a zero score for a
// brand-new user; the failure is logged, never surfaced as a blocking error.
func (h *ScoreHandler) ComputeScore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := parseUserID(w, r, log)
	if !ok {
		return
	}

	row, err := h.scoreService.ComputeScore(
		r.Context(), userID, time.Now().UTC(), service.TriggerOnDemand)
	if err == nil {
		shared.RespondWithJSON(w, r, http.StatusCreated, newEchoScoreResponse(row, false))
		return
	}

	log.Error("on-demand scoring failed, falling back to last known score",
		slog.String("error", err.Error()),
		slog.String("user_id", userID.String()))

	last, lastErr := h.scoreService.LatestScore(r.Context(), userID)
	if lastErr != nil {
		if errors.Is(lastErr, store.ErrScoreNotFound) {
			shared.RespondWithJSON(w, r, http.StatusOK,
				newZeroScoreResponse(userID.String(), time.Now()))
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newEchoScoreResponse(last, true))
}

// parseUserID extracts and validates the userID path parameter, writing the
// error response itself when the value is malformed.
func parseUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "userID")
	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		log.Debug("invalid user ID in path", slog.String("user_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}
