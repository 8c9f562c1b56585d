package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ChallengeType identifies the kind of reasoning exercise a challenge poses.
// The set is closed: submissions naming an unknown type are rejected at the
// boundary rather than accepted as loosely-typed content.
type ChallengeType string

// Known challenge types.
const (
	ChallengeBiasIdentification ChallengeType = "bias_identification"
	ChallengeSourceComparison   ChallengeType = "source_comparison"
	ChallengeFactCheck          ChallengeType = "fact_check"
	ChallengePerspectiveSwap    ChallengeType = "perspective_swap"
	ChallengeLogicalFallacy     ChallengeType = "logical_fallacy"
)

// ChallengeTypes lists all known challenge types.
var ChallengeTypes = []ChallengeType{
	ChallengeBiasIdentification,
	ChallengeSourceComparison,
	ChallengeFactCheck,
	ChallengePerspectiveSwap,
	ChallengeLogicalFallacy,
}

// IsValid reports whether the type is part of the closed set.
func (t ChallengeType) IsValid() bool {
	switch t {
	case ChallengeBiasIdentification,
		ChallengeSourceComparison,
		ChallengeFactCheck,
		ChallengePerspectiveSwap,
		ChallengeLogicalFallacy:
		return true
	default:
		return false
	}
}

// Difficulty is an ordered challenge difficulty level.
type Difficulty string

// Difficulty levels, in ascending order.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// DefaultDifficultyLevels is the default ordered difficulty ladder, lowest
// first. The ladder is configurable; selection logic only ever moves one
// rung at a time.
var DefaultDifficultyLevels = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

// IsValid reports whether the difficulty is one of the default levels.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// baseXP is the experience award per difficulty for a correct attempt.
var baseXP = map[Difficulty]int{
	DifficultyBeginner:     10,
	DifficultyIntermediate: 20,
	DifficultyAdvanced:     35,
}

// XPForAttempt returns the experience points earned by one attempt.
// Incorrect attempts earn a small participation award so daily engagement
// still counts for something.
func XPForAttempt(d Difficulty, correct bool) int {
	xp, ok := baseXP[d]
	if !ok {
		xp = baseXP[DifficultyBeginner]
	}
	if !correct {
		return xp / 4
	}
	return xp
}

// Common validation errors for Challenge
var (
	ErrEmptyChallengeID     = errors.New("challenge ID cannot be empty")
	ErrEmptyChallengePrompt = errors.New("challenge prompt cannot be empty")
)

// Challenge is a daily reasoning exercise from the content pool. The selector
// draws from active challenges; content authoring and ingestion happen
// elsewhere and are not this core's concern.
type Challenge struct {
	ID         uuid.UUID     `json:"id"`
	Type       ChallengeType `json:"challenge_type"`
	Difficulty Difficulty    `json:"difficulty"`
	Prompt     string        `json:"prompt"`
	Active     bool          `json:"active"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Validate checks if the Challenge has valid data.
func (c *Challenge) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyChallengeID
	}

	if !c.Type.IsValid() {
		return ErrInvalidChallengeType
	}

	if !c.Difficulty.IsValid() {
		return ErrInvalidDifficulty
	}

	if c.Prompt == "" {
		return ErrEmptyChallengePrompt
	}

	return nil
}
