// Package selector implements the adaptive daily-challenge decision policy:
// given a user's challenge statistics and recent history it picks the next
// challenge's type and difficulty together with a machine-readable
// selection reason. The policy is pure; idempotence per (user, day) and
// persistence are the service layer's concern.
package selector

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
)

// Common errors
var (
	ErrNilParams     = errors.New("params cannot be nil")
	ErrNoCandidates  = errors.New("candidate pool cannot be empty")
	ErrInvalidLadder = errors.New("difficulty outside configured ladder")
)

// WeakArea is the challenge type and difficulty combination with the user's
// lowest accuracy among sufficiently-attempted categories.
type WeakArea struct {
	Type       domain.ChallengeType
	Difficulty domain.Difficulty
	Accuracy   float64
}

// Inputs is everything one selection decision reads. RecentSubmissions and
// RecentSelectionTypes are newest-first; RecentlyAttempted holds the IDs of
// challenges the user attempted within the no-repeat window. Day is the
// selection day, used to judge whether the stored streak has lapsed.
type Inputs struct {
	Stats                *domain.UserChallengeStats
	Day                  time.Time
	RecentSubmissions    []*domain.ChallengeSubmission
	RecentSelectionTypes []domain.ChallengeType
	Candidates           []*domain.Challenge
	RecentlyAttempted    map[uuid.UUID]struct{}
}

// Decision is the policy's outcome: the picked challenge, the rule that
// produced it, and the bounded difficulty adjustment.
type Decision struct {
	Challenge            *domain.Challenge
	Reason               domain.SelectionReason
	DifficultyAdjustment int
}

// Selector applies the decision policy. The random source is injected so
// tests can seed it; it is only consulted for tie-breaking within a rule
// and for the final uniform-random rule.
type Selector struct {
	params *Params
	rng    *rand.Rand
}

// New creates a Selector with the given parameters and random source.
func New(params *Params, rng *rand.Rand) (*Selector, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Selector{params: params, rng: rng}, nil
}

// Decide picks the next challenge for a user. The four rules are evaluated
// in priority order and the first one that can produce a candidate wins:
//
//  1. streak_recovery: a broken streak (streak 0, or no submission since
//     before yesterday) drops the user to the lowest difficulty to rebuild
//     momentum.
//  2. weak_skill_area: the lowest-accuracy type with enough attempts is
//     targeted at the user's current difficulty, unless the recent
//     selections already targeted it.
//  3. adaptive_difficulty: sustained high recent accuracy promotes the user
//     one rung, capped at the top of the ladder.
//  4. random: uniform among active challenges not attempted within the
//     no-repeat window.
//
// Returns domain.ErrNoEligibleChallenge when the final rule has zero
// candidates; callers relax the no-repeat constraint and retry.
func (s *Selector) Decide(inputs Inputs) (*Decision, error) {
	if len(inputs.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	active := make([]*domain.Challenge, 0, len(inputs.Candidates))
	for _, c := range inputs.Candidates {
		if c.Active {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return nil, domain.ErrNoEligibleChallenge
	}

	current := s.currentDifficulty(inputs)

	if decision := s.decideStreakRecovery(inputs, active, current); decision != nil {
		return decision, nil
	}

	if decision := s.decideWeakArea(inputs, active, current); decision != nil {
		return decision, nil
	}

	if decision := s.decidePromotion(inputs, active, current); decision != nil {
		return decision, nil
	}

	return s.decideRandom(inputs, active)
}

// currentDifficulty is the difficulty of the user's newest submission, or
// the bottom rung for a user with no history.
func (s *Selector) currentDifficulty(inputs Inputs) domain.Difficulty {
	if len(inputs.RecentSubmissions) > 0 {
		d := inputs.RecentSubmissions[0].Difficulty
		if s.params.rank(d) >= 0 {
			return d
		}
	}
	return s.params.LowestDifficulty()
}

// decideStreakRecovery handles rule 1: streak 0 drops to the lowest
// difficulty. Users with no stats at all count as streak 0, and so does a
// stored streak whose last challenge date lapsed before yesterday.
func (s *Selector) decideStreakRecovery(
	inputs Inputs,
	active []*domain.Challenge,
	current domain.Difficulty,
) *Decision {
	if inputs.Stats != nil && inputs.Stats.EffectiveStreak(inputs.Day) > 0 {
		return nil
	}

	lowest := s.params.LowestDifficulty()
	challenge := s.pick(active, inputs.RecentlyAttempted, func(c *domain.Challenge) bool {
		return c.Difficulty == lowest
	})
	if challenge == nil {
		// No challenge at the lowest rung; take anything rather than
		// leaving the user without a daily challenge.
		challenge = s.pick(active, inputs.RecentlyAttempted, nil)
	}
	if challenge == nil {
		return nil
	}

	adjustment := 0
	if current != lowest {
		adjustment = -1
	}

	return &Decision{
		Challenge:            challenge,
		Reason:               domain.ReasonStreakRecovery,
		DifficultyAdjustment: adjustment,
	}
}

// decideWeakArea handles rule 2: target the weakest sufficiently-attempted
// type at the current difficulty, unless the recent selections already did.
func (s *Selector) decideWeakArea(
	inputs Inputs,
	active []*domain.Challenge,
	current domain.Difficulty,
) *Decision {
	weak := s.WeakArea(inputs.Stats)
	if weak == nil {
		return nil
	}

	cooldown := inputs.RecentSelectionTypes
	if len(cooldown) > s.params.WeakAreaCooldownSelections {
		cooldown = cooldown[:s.params.WeakAreaCooldownSelections]
	}
	for _, t := range cooldown {
		if t == weak.Type {
			return nil
		}
	}

	challenge := s.pick(active, inputs.RecentlyAttempted, func(c *domain.Challenge) bool {
		return c.Type == weak.Type && c.Difficulty == current
	})
	if challenge == nil {
		challenge = s.pick(active, inputs.RecentlyAttempted, func(c *domain.Challenge) bool {
			return c.Type == weak.Type
		})
	}
	if challenge == nil {
		return nil
	}

	return &Decision{
		Challenge:            challenge,
		Reason:               domain.ReasonWeakSkillArea,
		DifficultyAdjustment: 0,
	}
}

// decidePromotion handles rule 3: high accuracy over the recent sample
// promotes the user one rung, capped at the top of the ladder.
func (s *Selector) decidePromotion(
	inputs Inputs,
	active []*domain.Challenge,
	current domain.Difficulty,
) *Decision {
	sample := inputs.RecentSubmissions
	if len(sample) < s.params.PromotionSampleCount {
		return nil
	}
	sample = sample[:s.params.PromotionSampleCount]

	correct := 0
	for _, sub := range sample {
		if sub.IsCorrect {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(sample))
	if accuracy < s.params.PromotionAccuracyThreshold {
		return nil
	}

	rank := s.params.rank(current)
	if rank < 0 {
		return nil
	}

	adjustment := 0
	target := current
	if rank < len(s.params.DifficultyLevels)-1 {
		target = s.params.DifficultyLevels[rank+1]
		adjustment = 1
	}

	challenge := s.pick(active, inputs.RecentlyAttempted, func(c *domain.Challenge) bool {
		return c.Difficulty == target
	})
	if challenge == nil {
		return nil
	}

	return &Decision{
		Challenge:            challenge,
		Reason:               domain.ReasonAdaptiveDifficulty,
		DifficultyAdjustment: adjustment,
	}
}

// decideRandom handles rule 4: uniform among active challenges outside the
// no-repeat window.
func (s *Selector) decideRandom(
	inputs Inputs,
	active []*domain.Challenge,
) (*Decision, error) {
	eligible := make([]*domain.Challenge, 0, len(active))
	for _, c := range active {
		if _, attempted := inputs.RecentlyAttempted[c.ID]; !attempted {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleChallenge
	}

	sortByID(eligible)
	return &Decision{
		Challenge:            eligible[s.intn(len(eligible))],
		Reason:               domain.ReasonRandom,
		DifficultyAdjustment: 0,
	}, nil
}

// WeakArea returns the type and difficulty combination with the lowest
// accuracy among challenge types attempted at least
// params.MinAttemptsForWeakArea times, or nil when no type qualifies.
// Ties break toward the alphabetically first type so the decision is
// deterministic.
func (s *Selector) WeakArea(stats *domain.UserChallengeStats) *WeakArea {
	if stats == nil {
		return nil
	}

	types := make([]domain.ChallengeType, 0, len(stats.TypePerformance))
	for t, bucket := range stats.TypePerformance {
		if bucket.Completed >= s.params.MinAttemptsForWeakArea {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return nil
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	weak := &WeakArea{Type: types[0], Accuracy: stats.TypePerformance[types[0]].Accuracy()}
	for _, t := range types[1:] {
		if acc := stats.TypePerformance[t].Accuracy(); acc < weak.Accuracy {
			weak = &WeakArea{Type: t, Accuracy: acc}
		}
	}

	// Pair the weak type with the worst qualifying difficulty rung for
	// reporting; selection itself stays at the user's current difficulty.
	weak.Difficulty = s.weakestDifficulty(stats)
	return weak
}

// weakestDifficulty is the lowest-accuracy difficulty level with enough
// attempts, defaulting to the bottom rung.
func (s *Selector) weakestDifficulty(stats *domain.UserChallengeStats) domain.Difficulty {
	weakest := s.params.LowestDifficulty()
	best := 2.0
	for _, level := range s.params.DifficultyLevels {
		bucket, ok := stats.DifficultyPerformance[level]
		if !ok || bucket.Completed < s.params.MinAttemptsForWeakArea {
			continue
		}
		if acc := bucket.Accuracy(); acc < best {
			best = acc
			weakest = level
		}
	}
	return weakest
}

// pick filters the pool by the predicate (nil matches everything), prefers
// challenges outside the no-repeat window, and picks uniformly among what
// remains. Returns nil when nothing matches.
func (s *Selector) pick(
	pool []*domain.Challenge,
	recentlyAttempted map[uuid.UUID]struct{},
	match func(*domain.Challenge) bool,
) *domain.Challenge {
	var fresh, attempted []*domain.Challenge
	for _, c := range pool {
		if match != nil && !match(c) {
			continue
		}
		if _, seen := recentlyAttempted[c.ID]; seen {
			attempted = append(attempted, c)
		} else {
			fresh = append(fresh, c)
		}
	}

	candidates := fresh
	if len(candidates) == 0 {
		candidates = attempted
	}
	if len(candidates) == 0 {
		return nil
	}

	sortByID(candidates)
	return candidates[s.intn(len(candidates))]
}

// intn draws from the injected source, falling back to the first element
// when no source was provided.
func (s *Selector) intn(n int) int {
	if s.rng == nil {
		return 0
	}
	return s.rng.Intn(n)
}

// sortByID orders challenges deterministically so seeded random draws are
// reproducible regardless of input order.
func sortByID(challenges []*domain.Challenge) {
	sort.Slice(challenges, func(i, j int) bool {
		return challenges[i].ID.String() < challenges[j].ID.String()
	})
}
