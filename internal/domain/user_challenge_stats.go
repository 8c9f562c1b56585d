package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for UserChallengeStats
var (
	ErrEmptyStatsUserID = errors.New("user challenge stats user ID cannot be empty")
	ErrNegativeStreak   = errors.New("streak cannot be negative")
	ErrNegativeCounts   = errors.New("completion counts cannot be negative")
)

// PerformanceBucket accumulates attempt counts and total time for one
// difficulty level or challenge type.
type PerformanceBucket struct {
	Completed        int `json:"completed"`
	Correct          int `json:"correct"`
	TotalTimeSeconds int `json:"total_time_seconds"`
}

// Accuracy returns the bucket's correct ratio, or 0 with no attempts.
func (b PerformanceBucket) Accuracy() float64 {
	if b.Completed == 0 {
		return 0
	}
	return float64(b.Correct) / float64(b.Completed)
}

// AvgTimeSeconds returns the bucket's mean response time, or 0 with no
// attempts.
func (b PerformanceBucket) AvgTimeSeconds() float64 {
	if b.Completed == 0 {
		return 0
	}
	return float64(b.TotalTimeSeconds) / float64(b.Completed)
}

// UserChallengeStats is the per-user rollup of challenge performance. It is
// owned exclusively by the scoring core: every mutation goes through the
// pure ApplySubmission reducer under the per-user lock, so no two writers
// ever race on the increments.
type UserChallengeStats struct {
	UserID                uuid.UUID                           `json:"user_id"`
	TotalCompleted        int                                 `json:"total_completed"`
	TotalCorrect          int                                 `json:"total_correct"`
	CurrentStreak         int                                 `json:"current_streak"`
	LongestStreak         int                                 `json:"longest_streak"`
	LastChallengeDate     time.Time                           `json:"last_challenge_date"` // date only, UTC midnight
	DifficultyPerformance map[Difficulty]PerformanceBucket    `json:"difficulty_performance"`
	TypePerformance       map[ChallengeType]PerformanceBucket `json:"type_performance"`
	CreatedAt             time.Time                           `json:"created_at"`
	UpdatedAt             time.Time                           `json:"updated_at"`
}

// NewUserChallengeStats creates an empty rollup for a user.
func NewUserChallengeStats(userID uuid.UUID) (*UserChallengeStats, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyStatsUserID
	}

	now := time.Now().UTC()
	return &UserChallengeStats{
		UserID:                userID,
		DifficultyPerformance: map[Difficulty]PerformanceBucket{},
		TypePerformance:       map[ChallengeType]PerformanceBucket{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// Validate checks if the UserChallengeStats has valid data.
func (s *UserChallengeStats) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStatsUserID
	}

	if s.CurrentStreak < 0 || s.LongestStreak < 0 {
		return ErrNegativeStreak
	}

	if s.TotalCompleted < 0 || s.TotalCorrect < 0 || s.TotalCorrect > s.TotalCompleted {
		return ErrNegativeCounts
	}

	return nil
}

// OverallAccuracy returns the lifetime correct ratio, or 0 with no attempts.
func (s *UserChallengeStats) OverallAccuracy() float64 {
	if s.TotalCompleted == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalCompleted)
}

// EffectiveStreak is the streak as of the given instant. The stored value
// only changes when a submission arrives, so a lapsed user would otherwise
// keep showing their old streak; a last challenge date before yesterday
// means the streak is broken.
func (s *UserChallengeStats) EffectiveStreak(asOf time.Time) int {
	if s.LastChallengeDate.IsZero() {
		return 0
	}
	if s.LastChallengeDate.Before(DateOf(asOf).AddDate(0, 0, -1)) {
		return 0
	}
	return s.CurrentStreak
}

// ApplySubmission folds one submission into the rollup, returning a new
// stats object and leaving the receiver untouched. The streak rule: a
// submission on the same calendar day as the last one leaves the streak
// unchanged; a submission exactly one day later extends it; any larger gap
// starts a new streak at 1. The streak never goes negative.
//
// Callers must hold the per-user lock for the read-modify-write around
// this reducer; the function itself is pure and safe to unit test alone.
func (s *UserChallengeStats) ApplySubmission(sub *ChallengeSubmission) *UserChallengeStats {
	next := &UserChallengeStats{
		UserID:                s.UserID,
		TotalCompleted:        s.TotalCompleted + 1,
		TotalCorrect:          s.TotalCorrect,
		CurrentStreak:         s.CurrentStreak,
		LongestStreak:         s.LongestStreak,
		LastChallengeDate:     s.LastChallengeDate,
		DifficultyPerformance: clonePerf(s.DifficultyPerformance),
		TypePerformance:       clonePerf(s.TypePerformance),
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             sub.CreatedAt,
	}

	if sub.IsCorrect {
		next.TotalCorrect++
	}

	subDay := DateOf(sub.CreatedAt)
	switch {
	case s.LastChallengeDate.IsZero():
		next.CurrentStreak = 1
	case subDay.Equal(s.LastChallengeDate):
		// Same day, already counted.
	case subDay.Equal(s.LastChallengeDate.AddDate(0, 0, 1)):
		next.CurrentStreak = s.CurrentStreak + 1
	default:
		next.CurrentStreak = 1
	}
	next.LastChallengeDate = subDay

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	diffBucket := next.DifficultyPerformance[sub.Difficulty]
	diffBucket.Completed++
	diffBucket.TotalTimeSeconds += sub.TimeSpentSeconds
	if sub.IsCorrect {
		diffBucket.Correct++
	}
	next.DifficultyPerformance[sub.Difficulty] = diffBucket

	typeBucket := next.TypePerformance[sub.ChallengeType]
	typeBucket.Completed++
	typeBucket.TotalTimeSeconds += sub.TimeSpentSeconds
	if sub.IsCorrect {
		typeBucket.Correct++
	}
	next.TypePerformance[sub.ChallengeType] = typeBucket

	return next
}

func clonePerf[K comparable](m map[K]PerformanceBucket) map[K]PerformanceBucket {
	out := make(map[K]PerformanceBucket, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DateOf truncates a timestamp to UTC midnight of its calendar day.
// Streaks and daily selections compare dates at this granularity.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
