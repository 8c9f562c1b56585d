package api

import (
	"errors"
	"net/http"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrChallengeNotFound),
		errors.Is(err, store.ErrStatsNotFound),
		errors.Is(err, store.ErrScoreNotFound),
		errors.Is(err, store.ErrSelectionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrSelectionExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidBiasCategory),
		errors.Is(err, domain.ErrInvalidChallengeType),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidSubmissionContent),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Special cases: an exhausted challenge pool is an operational
	// condition, not a client fault.
	case errors.Is(err, domain.ErrNoEligibleChallenge):
		return http.StatusServiceUnavailable

	// Default: internal server error. An out-of-bounds sub-score lands
	// here deliberately; it signals an upstream bug.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrChallengeNotFound):
		return "Challenge not found"
	case errors.Is(err, store.ErrStatsNotFound):
		return "No challenge activity found for user"
	case errors.Is(err, store.ErrScoreNotFound):
		return "No score found for user"
	case errors.Is(err, store.ErrSelectionNotFound):
		return "No daily challenge found for user"
	case errors.Is(err, store.ErrSelectionExists):
		return "A daily challenge has already been selected"
	case errors.Is(err, domain.ErrInvalidSubmissionContent):
		return "Submission content does not match the challenge type"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidBiasCategory),
		errors.Is(err, domain.ErrInvalidChallengeType),
		errors.Is(err, domain.ErrInvalidDifficulty):
		return "Invalid request data"
	case errors.Is(err, domain.ErrNoEligibleChallenge):
		return "No challenge is currently available"
	default:
		return "An internal error occurred"
	}
}
