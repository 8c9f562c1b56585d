package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/api/shared"
	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/service"
	"github.com/burstlabs/burst-api/internal/store"
)

// ChallengeHandler handles daily-challenge HTTP requests
type ChallengeHandler struct {
	selectionService service.SelectionService
	statsService     service.StatsService
	challenges       store.ChallengeStore
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewChallengeHandler creates a new ChallengeHandler
func NewChallengeHandler(
	selectionService service.SelectionService,
	statsService service.StatsService,
	challenges store.ChallengeStore,
	logger *slog.Logger,
) *ChallengeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ChallengeHandler")
	}

	return &ChallengeHandler{
		selectionService: selectionService,
		statsService:     statsService,
		challenges:       challenges,
		validator:        validator.New(),
		logger:           logger.With(slog.String("component", "challenge_handler")),
	}
}

// GetDailyChallenge handles GET /users/{userID}/daily-challenge requests.
// The first request of the day runs the selection policy; later requests
// return the same selection.
func (h *ChallengeHandler) GetDailyChallenge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := parseUserID(w, r, log)
	if !ok {
		return
	}

	selection, err := h.selectionService.SelectDaily(r.Context(), userID, time.Now().UTC())
	if err != nil {
		log.Error("daily challenge selection failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	challenge, err := h.challenges.GetByID(r.Context(), selection.SelectedChallengeID)
	if err != nil {
		log.Error("failed to resolve selected challenge",
			slog.String("error", err.Error()),
			slog.String("challenge_id", selection.SelectedChallengeID.String()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		newDailyChallengeResponse(selection, challenge))
}

// GetChallengeStats handles GET /users/{userID}/challenge-stats requests.
// A user who has never submitted gets an empty rollup, not a 404.
func (h *ChallengeHandler) GetChallengeStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := parseUserID(w, r, log)
	if !ok {
		return
	}

	stats, err := h.statsService.GetStats(r.Context(), userID)
	if err != nil {
		log.Error("failed to load challenge stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newChallengeStatsResponse(stats))
}

// SubmitChallenge handles POST /users/{userID}/submissions requests.
// It validates the submission content against the challenge's type, records
// the attempt, and returns the updated streak.
func (h *ChallengeHandler) SubmitChallenge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := parseUserID(w, r, log)
	if !ok {
		return
	}

	var req SubmitChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("malformed submission payload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		log.Debug("submission payload failed validation",
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil || challengeID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid challenge ID")
		return
	}

	challenge, err := h.challenges.GetByID(r.Context(), challengeID)
	if err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Challenge not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	rawContent, err := json.Marshal(req.Content)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid submission content")
		return
	}

	submission, err := domain.NewChallengeSubmission(
		userID,
		challenge.ID,
		challenge.Type,
		challenge.Difficulty,
		req.Correct,
		req.TimeTakenSeconds,
		domain.XPForAttempt(challenge.Difficulty, req.Correct),
		rawContent,
	)
	if err != nil {
		log.Debug("submission rejected",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("challenge_id", challenge.ID.String()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	stats, err := h.statsService.RecordSubmission(r.Context(), submission)
	if err != nil {
		log.Error("failed to record submission",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SubmissionResponse{
		SubmissionID:  submission.ID.String(),
		CurrentStreak: stats.CurrentStreak,
		LongestStreak: stats.LongestStreak,
	})
}
