package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SelectionReason is the machine-readable explanation of why a challenge was
// picked for a user. The app surfaces it; the selector's tests assert on it.
type SelectionReason string

// The four selection reasons, one per decision rule.
const (
	ReasonStreakRecovery     SelectionReason = "streak_recovery"
	ReasonWeakSkillArea      SelectionReason = "weak_skill_area"
	ReasonAdaptiveDifficulty SelectionReason = "adaptive_difficulty"
	ReasonRandom             SelectionReason = "random"
)

// IsValid reports whether the reason is one of the four known rules.
func (r SelectionReason) IsValid() bool {
	switch r {
	case ReasonStreakRecovery, ReasonWeakSkillArea, ReasonAdaptiveDifficulty, ReasonRandom:
		return true
	default:
		return false
	}
}

// Common validation errors for DailyChallengeSelection
var (
	ErrEmptySelectionUserID      = errors.New("selection user ID cannot be empty")
	ErrEmptySelectionChallengeID = errors.New("selection challenge ID cannot be empty")
	ErrEmptySelectionDate        = errors.New("selection date cannot be empty")
	ErrInvalidSelectionReason    = errors.New("invalid selection reason")
	ErrInvalidAdjustment         = errors.New("difficulty adjustment must be -1, 0 or 1")
)

// DailyChallengeSelection is the challenge of the day for one user. Exactly
// one row exists per (user, selection date); a second selection call on the
// same day returns the existing row unchanged.
type DailyChallengeSelection struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	SelectedChallengeID  uuid.UUID       `json:"selected_challenge_id"`
	SelectionDate        time.Time       `json:"selection_date"` // date only, UTC midnight
	SelectionReason      SelectionReason `json:"selection_reason"`
	DifficultyAdjustment int             `json:"difficulty_adjustment"`
	CreatedAt            time.Time       `json:"created_at"`
}

// NewDailyChallengeSelection creates a validated selection row for the given
// day. The selection date is truncated to its calendar day.
func NewDailyChallengeSelection(
	userID, challengeID uuid.UUID,
	selectionDate time.Time,
	reason SelectionReason,
	difficultyAdjustment int,
) (*DailyChallengeSelection, error) {
	sel := &DailyChallengeSelection{
		ID:                   uuid.New(),
		UserID:               userID,
		SelectedChallengeID:  challengeID,
		SelectionDate:        DateOf(selectionDate),
		SelectionReason:      reason,
		DifficultyAdjustment: difficultyAdjustment,
		CreatedAt:            time.Now().UTC(),
	}

	if err := sel.Validate(); err != nil {
		return nil, err
	}

	return sel, nil
}

// Validate checks if the DailyChallengeSelection has valid data.
func (s *DailyChallengeSelection) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySelectionUserID
	}

	if s.SelectedChallengeID == uuid.Nil {
		return ErrEmptySelectionChallengeID
	}

	if s.SelectionDate.IsZero() {
		return ErrEmptySelectionDate
	}

	if !s.SelectionReason.IsValid() {
		return ErrInvalidSelectionReason
	}

	if s.DifficultyAdjustment < -1 || s.DifficultyAdjustment > 1 {
		return ErrInvalidAdjustment
	}

	return nil
}
