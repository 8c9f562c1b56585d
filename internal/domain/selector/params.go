package selector

import (
	"fmt"

	"github.com/burstlabs/burst-api/internal/domain"
)

// Params defines all configurable parameters for the daily-challenge
// decision policy.
type Params struct {
	// DifficultyLevels is the ordered difficulty ladder, lowest first.
	// Difficulty moves one rung at a time and never leaves the ladder.
	DifficultyLevels []domain.Difficulty

	// MinAttemptsForWeakArea is how many attempts a challenge type needs
	// before its accuracy counts toward weak-area detection; below it the
	// sample is too small to call a weakness.
	MinAttemptsForWeakArea int

	// WeakAreaCooldownSelections is how many of the most recent selections
	// must not already target the weak area before it is targeted again.
	WeakAreaCooldownSelections int

	// PromotionAccuracyThreshold and PromotionSampleCount gate the
	// adaptive difficulty rule: accuracy over the last
	// PromotionSampleCount submissions must reach the threshold.
	PromotionAccuracyThreshold float64
	PromotionSampleCount       int

	// NoRepeatDays is the trailing window within which an attempted
	// challenge is excluded from random selection.
	NoRepeatDays int
}

// ParamsConfig allows overriding the default parameters.
// Zero values keep the defaults.
type ParamsConfig struct {
	DifficultyLevels           []domain.Difficulty
	MinAttemptsForWeakArea     int
	WeakAreaCooldownSelections int
	PromotionAccuracyThreshold float64
	PromotionSampleCount       int
	NoRepeatDays               int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		DifficultyLevels:           domain.DefaultDifficultyLevels,
		MinAttemptsForWeakArea:     3,
		WeakAreaCooldownSelections: 3,
		PromotionAccuracyThreshold: 0.85,
		PromotionSampleCount:       5,
		NoRepeatDays:               14,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if len(config.DifficultyLevels) > 0 {
		params.DifficultyLevels = config.DifficultyLevels
	}
	if config.MinAttemptsForWeakArea > 0 {
		params.MinAttemptsForWeakArea = config.MinAttemptsForWeakArea
	}
	if config.WeakAreaCooldownSelections > 0 {
		params.WeakAreaCooldownSelections = config.WeakAreaCooldownSelections
	}
	if config.PromotionAccuracyThreshold > 0 {
		params.PromotionAccuracyThreshold = config.PromotionAccuracyThreshold
	}
	if config.PromotionSampleCount > 0 {
		params.PromotionSampleCount = config.PromotionSampleCount
	}
	if config.NoRepeatDays > 0 {
		params.NoRepeatDays = config.NoRepeatDays
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// Validate checks the parameter set for internal consistency.
func (p *Params) Validate() error {
	if len(p.DifficultyLevels) == 0 {
		return fmt.Errorf("difficulty ladder cannot be empty")
	}

	seen := make(map[domain.Difficulty]struct{}, len(p.DifficultyLevels))
	for _, level := range p.DifficultyLevels {
		if _, dup := seen[level]; dup {
			return fmt.Errorf("duplicate difficulty level %q", level)
		}
		seen[level] = struct{}{}
	}

	if p.PromotionAccuracyThreshold <= 0 || p.PromotionAccuracyThreshold > 1 {
		return fmt.Errorf("promotion threshold must be in (0,1], got %v",
			p.PromotionAccuracyThreshold)
	}

	if p.NoRepeatDays <= 0 {
		return fmt.Errorf("no-repeat window must be positive, got %d", p.NoRepeatDays)
	}

	return nil
}

// LowestDifficulty returns the bottom rung of the ladder.
func (p *Params) LowestDifficulty() domain.Difficulty {
	return p.DifficultyLevels[0]
}

// HighestDifficulty returns the top rung of the ladder.
func (p *Params) HighestDifficulty() domain.Difficulty {
	return p.DifficultyLevels[len(p.DifficultyLevels)-1]
}

// rank returns the zero-based rung of a difficulty, or -1 if the level is
// not on the ladder.
func (p *Params) rank(d domain.Difficulty) int {
	for i, level := range p.DifficultyLevels {
		if level == d {
			return i
		}
	}
	return -1
}
