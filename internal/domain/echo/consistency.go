package echo

import (
	"time"

	"github.com/burstlabs/burst-api/internal/domain"
)

// ConsistencyResult is the outcome of the consistency computation.
type ConsistencyResult struct {
	Score      float64
	ActiveDays int
}

// calculateConsistency scores sustained engagement: half from the ratio of
// active calendar days (any submission or reading event) to the window
// length, half from the current streak capped at params.StreakCapDays so
// extremely long streaks cannot crowd out the recent-activity term.
func calculateConsistency(
	events []*domain.ReadingEvent,
	submissions []*domain.ChallengeSubmission,
	currentStreak int,
	params *Params,
) ConsistencyResult {
	days := make(map[time.Time]struct{})
	for _, ev := range events {
		days[domain.DateOf(ev.OccurredAt)] = struct{}{}
	}
	for _, sub := range submissions {
		days[domain.DateOf(sub.CreatedAt)] = struct{}{}
	}

	activeRatio := float64(len(days)) / float64(params.WindowDays)
	if activeRatio > 1 {
		activeRatio = 1
	}

	if currentStreak < 0 {
		currentStreak = 0
	}
	streak := currentStreak
	if streak > params.StreakCapDays {
		streak = params.StreakCapDays
	}
	streakRatio := float64(streak) / float64(params.StreakCapDays)

	return ConsistencyResult{
		Score:      clampScore(100 * (0.5*activeRatio + 0.5*streakRatio)),
		ActiveDays: len(days),
	}
}
