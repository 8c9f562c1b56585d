package echo

import (
	"fmt"
	"math"

	"github.com/burstlabs/burst-api/internal/domain"
)

// SubScores are the five bounded inputs to the composite Echo Score.
type SubScores struct {
	Diversity   float64
	Accuracy    float64
	SwitchSpeed float64
	Consistency float64
	Improvement float64
}

// validate rejects any sub-score outside [0,100]. An out-of-range value is
// a bug in an upstream scorer and must surface, not be clamped away.
func (s SubScores) validate() error {
	for name, score := range map[string]float64{
		"diversity":    s.Diversity,
		"accuracy":     s.Accuracy,
		"switch_speed": s.SwitchSpeed,
		"consistency":  s.Consistency,
		"improvement":  s.Improvement,
	} {
		if score < 0 || score > 100 || math.IsNaN(score) {
			return fmt.Errorf("%w: %s score %v", domain.ErrInvalidSubScore, name, score)
		}
	}
	return nil
}

// aggregate combines the five sub-scores into the composite total, clamped
// to [0,100] and rounded to two decimals to match the persisted
// decimal(5,2) column.
func aggregate(scores SubScores, weights Weights) (float64, error) {
	if err := scores.validate(); err != nil {
		return 0, err
	}

	total := weights.Diversity*scores.Diversity +
		weights.Accuracy*scores.Accuracy +
		weights.SwitchSpeed*scores.SwitchSpeed +
		weights.Consistency*scores.Consistency +
		weights.Improvement*scores.Improvement

	return round2(clampScore(total)), nil
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
