// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientData is returned when a user has too little activity in
	// the scoring window to compute a meaningful metric. It is recoverable:
	// callers substitute the metric's neutral default instead of failing.
	ErrInsufficientData = errors.New("insufficient activity data")

	// ErrInvalidSubScore is returned when a sub-score handed to the
	// aggregator falls outside [0,100]. It signals a bug in an upstream
	// scorer and is propagated rather than silently clamped.
	ErrInvalidSubScore = errors.New("sub-score outside [0,100]")

	// ErrNoEligibleChallenge is returned when the random selection rule
	// finds no active challenge the user has not attempted recently.
	// Callers relax the no-repeat constraint and retry.
	ErrNoEligibleChallenge = errors.New("no eligible challenge")

	// ErrInvalidBiasCategory is returned when a reading event carries a
	// source bias category outside the known ordinal scale.
	ErrInvalidBiasCategory = errors.New("invalid source bias category")

	// ErrInvalidChallengeType is returned when a submission names a
	// challenge type that is not part of the closed set.
	ErrInvalidChallengeType = errors.New("invalid challenge type")

	// ErrInvalidDifficulty is returned when a difficulty level is not one
	// of the configured ordered levels.
	ErrInvalidDifficulty = errors.New("invalid difficulty level")

	// ErrInvalidSubmissionContent is returned when submission content does
	// not match the schema for its challenge type.
	ErrInvalidSubmissionContent = errors.New("invalid submission content")
)
