package selector

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burstlabs/burst-api/internal/domain"
)

func newTestSelector(t *testing.T) *Selector {
	t.Helper()
	s, err := New(NewDefaultParams(), rand.New(rand.NewSource(1)))
	require.NoError(t, err, "failed to create selector")
	return s
}

func challenge(
	challengeType domain.ChallengeType,
	difficulty domain.Difficulty,
) *domain.Challenge {
	return &domain.Challenge{
		ID:         uuid.New(),
		Type:       challengeType,
		Difficulty: difficulty,
		Prompt:     "test prompt",
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
}

// fullPool builds one active challenge per (type, difficulty) pair.
func fullPool() []*domain.Challenge {
	var pool []*domain.Challenge
	for _, ct := range domain.ChallengeTypes {
		for _, d := range domain.DefaultDifficultyLevels {
			pool = append(pool, challenge(ct, d))
		}
	}
	return pool
}

// statsWithStreak builds a rollup with the given streak and no type history.
// A live streak gets today as its last challenge date so it has not lapsed.
func statsWithStreak(streak int) *domain.UserChallengeStats {
	stats := &domain.UserChallengeStats{
		UserID:                uuid.New(),
		TotalCompleted:        streak,
		TotalCorrect:          streak,
		CurrentStreak:         streak,
		LongestStreak:         streak,
		DifficultyPerformance: map[domain.Difficulty]domain.PerformanceBucket{},
		TypePerformance:       map[domain.ChallengeType]domain.PerformanceBucket{},
	}
	if streak > 0 {
		stats.LastChallengeDate = domain.DateOf(time.Now().UTC())
	}
	return stats
}

// recentRun builds newest-first submissions at the given difficulty.
func recentRun(correct bool, count int, difficulty domain.Difficulty) []*domain.ChallengeSubmission {
	subs := make([]*domain.ChallengeSubmission, count)
	base := time.Now().UTC()
	for i := range subs {
		subs[i] = &domain.ChallengeSubmission{
			ID:               uuid.New(),
			UserID:           uuid.New(),
			ChallengeID:      uuid.New(),
			ChallengeType:    domain.ChallengeBiasIdentification,
			Difficulty:       difficulty,
			IsCorrect:        correct,
			TimeSpentSeconds: 30,
			CreatedAt:        base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return subs
}

func TestDecideBrokenStreakSelectsRecovery(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	decision, err := s.Decide(Inputs{
		Stats:             statsWithStreak(0),
		RecentSubmissions: recentRun(true, 3, domain.DifficultyIntermediate),
		Candidates:        fullPool(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonStreakRecovery, decision.Reason)
	assert.Equal(t, domain.DifficultyBeginner, decision.Challenge.Difficulty)
	assert.Equal(t, -1, decision.DifficultyAdjustment,
		"dropping from intermediate to beginner is a -1 adjustment")
}

func TestDecideLapsedStreakSelectsRecovery(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	// The stored streak only changes on submission, so a user who stopped
	// days ago still carries the old value. The policy must treat it as
	// broken.
	day := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	stats := statsWithStreak(4)
	stats.LastChallengeDate = day.AddDate(0, 0, -3)

	decision, err := s.Decide(Inputs{
		Stats:             stats,
		Day:               day,
		RecentSubmissions: recentRun(true, 3, domain.DifficultyIntermediate),
		Candidates:        fullPool(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonStreakRecovery, decision.Reason)
	assert.Equal(t, domain.DifficultyBeginner, decision.Challenge.Difficulty)
}

func TestDecideYesterdayStreakIsNotBroken(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	day := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	stats := statsWithStreak(4)
	stats.LastChallengeDate = day.AddDate(0, 0, -1)

	decision, err := s.Decide(Inputs{
		Stats:             stats,
		Day:               day,
		RecentSubmissions: recentRun(true, 3, domain.DifficultyIntermediate),
		Candidates:        fullPool(),
	})
	require.NoError(t, err)

	assert.NotEqual(t, domain.ReasonStreakRecovery, decision.Reason)
}

func TestDecideBrandNewUserCountsAsBrokenStreak(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	decision, err := s.Decide(Inputs{
		Stats:      nil,
		Candidates: fullPool(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonStreakRecovery, decision.Reason)
	assert.Equal(t, domain.DifficultyBeginner, decision.Challenge.Difficulty)
	assert.Equal(t, 0, decision.DifficultyAdjustment,
		"a user already at the bottom rung has nothing to drop")
}

func TestDecideWeakAreaTargetsLowestAccuracyType(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	stats := statsWithStreak(5)
	stats.TypePerformance[domain.ChallengeFactCheck] = domain.PerformanceBucket{
		Completed: 10, Correct: 3, TotalTimeSeconds: 600,
	}
	stats.TypePerformance[domain.ChallengeBiasIdentification] = domain.PerformanceBucket{
		Completed: 10, Correct: 9, TotalTimeSeconds: 400,
	}

	decision, err := s.Decide(Inputs{
		Stats:             stats,
		RecentSubmissions: recentRun(false, 5, domain.DifficultyIntermediate),
		Candidates:        fullPool(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonWeakSkillArea, decision.Reason)
	assert.Equal(t, domain.ChallengeFactCheck, decision.Challenge.Type)
	assert.Equal(t, domain.DifficultyIntermediate, decision.Challenge.Difficulty,
		"weak-area work stays at the current difficulty")
	assert.Equal(t, 0, decision.DifficultyAdjustment)
}

func TestDecideWeakAreaRespectsCooldown(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	stats := statsWithStreak(5)
	stats.TypePerformance[domain.ChallengeFactCheck] = domain.PerformanceBucket{
		Completed: 10, Correct: 2, TotalTimeSeconds: 600,
	}

	decision, err := s.Decide(Inputs{
		Stats:             stats,
		RecentSubmissions: recentRun(false, 5, domain.DifficultyBeginner),
		RecentSelectionTypes: []domain.ChallengeType{
			domain.ChallengeFactCheck,
		},
		Candidates: fullPool(),
	})
	require.NoError(t, err)

	assert.NotEqual(t, domain.ReasonWeakSkillArea, decision.Reason,
		"a recently targeted weak area must cool down before being targeted again")
}

func TestDecideHighRecentAccuracyPromotes(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	decision, err := s.Decide(Inputs{
		Stats:             statsWithStreak(5),
		RecentSubmissions: recentRun(true, 5, domain.DifficultyBeginner),
		Candidates:        fullPool(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonAdaptiveDifficulty, decision.Reason)
	assert.Equal(t, domain.DifficultyIntermediate, decision.Challenge.Difficulty)
	assert.Equal(t, 1, decision.DifficultyAdjustment)
}

func TestDecidePromotionAtTopOfLadderHolds(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	decision, err := s.Decide(Inputs{
		Stats:             statsWithStreak(5),
		RecentSubmissions: recentRun(true, 5, domain.DifficultyAdvanced),
		Candidates:        fullPool(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonAdaptiveDifficulty, decision.Reason)
	assert.Equal(t, domain.DifficultyAdvanced, decision.Challenge.Difficulty)
	assert.Equal(t, 0, decision.DifficultyAdjustment,
		"already at the top rung, nothing to promote to")
}

func TestDecideFallsBackToRandom(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	// Streak intact, no performance history, middling recent accuracy:
	// none of the prioritized rules fire.
	decision, err := s.Decide(Inputs{
		Stats: statsWithStreak(3),
		RecentSubmissions: append(
			recentRun(true, 3, domain.DifficultyBeginner),
			recentRun(false, 2, domain.DifficultyBeginner)...,
		),
		Candidates: fullPool(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonRandom, decision.Reason)
	assert.Equal(t, 0, decision.DifficultyAdjustment)
}

func TestDecideRandomExcludesRecentlyAttempted(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	pool := fullPool()
	attempted := make(map[uuid.UUID]struct{})
	for _, c := range pool[:len(pool)-1] {
		attempted[c.ID] = struct{}{}
	}
	remaining := pool[len(pool)-1]

	decision, err := s.Decide(Inputs{
		Stats: statsWithStreak(3),
		RecentSubmissions: append(
			recentRun(true, 3, domain.DifficultyBeginner),
			recentRun(false, 2, domain.DifficultyBeginner)...,
		),
		Candidates:        pool,
		RecentlyAttempted: attempted,
	})
	require.NoError(t, err)

	assert.Equal(t, remaining.ID, decision.Challenge.ID,
		"only the unattempted challenge is eligible")
}

func TestDecideExhaustedPoolReturnsNoEligible(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	pool := fullPool()
	attempted := make(map[uuid.UUID]struct{})
	for _, c := range pool {
		attempted[c.ID] = struct{}{}
	}

	_, err := s.Decide(Inputs{
		Stats: statsWithStreak(3),
		RecentSubmissions: append(
			recentRun(true, 3, domain.DifficultyBeginner),
			recentRun(false, 2, domain.DifficultyBeginner)...,
		),
		Candidates:        pool,
		RecentlyAttempted: attempted,
	})
	assert.ErrorIs(t, err, domain.ErrNoEligibleChallenge)
}

func TestDecideIgnoresInactiveChallenges(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	inactive := challenge(domain.ChallengeFactCheck, domain.DifficultyBeginner)
	inactive.Active = false

	_, err := s.Decide(Inputs{
		Stats:      statsWithStreak(0),
		Candidates: []*domain.Challenge{inactive},
	})
	assert.ErrorIs(t, err, domain.ErrNoEligibleChallenge)
}

func TestDecideEmptyCandidatePoolErrors(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	_, err := s.Decide(Inputs{Stats: statsWithStreak(0)})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestDecideDeterministicWithSeededSource(t *testing.T) {
	t.Parallel()

	pool := fullPool()
	inputs := Inputs{
		Stats: statsWithStreak(3),
		RecentSubmissions: append(
			recentRun(true, 3, domain.DifficultyBeginner),
			recentRun(false, 2, domain.DifficultyBeginner)...,
		),
		Candidates: pool,
	}

	a, err := New(NewDefaultParams(), rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := New(NewDefaultParams(), rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	first, err := a.Decide(inputs)
	require.NoError(t, err)
	second, err := b.Decide(inputs)
	require.NoError(t, err)

	assert.Equal(t, first.Challenge.ID, second.Challenge.ID,
		"same seed and inputs must pick the same challenge")
}

func TestWeakAreaRequiresMinimumAttempts(t *testing.T) {
	t.Parallel()
	s := newTestSelector(t)

	stats := statsWithStreak(5)
	stats.TypePerformance[domain.ChallengeFactCheck] = domain.PerformanceBucket{
		Completed: 2, Correct: 0, TotalTimeSeconds: 100,
	}

	assert.Nil(t, s.WeakArea(stats),
		"two attempts are below the weak-area minimum")
	assert.Nil(t, s.WeakArea(nil))
}
