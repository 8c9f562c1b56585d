package echo

import (
	"math"
	"sort"

	"github.com/burstlabs/burst-api/internal/domain"
)

// TrendResult holds the least-squares slopes of the sub-score histories, in
// score points per day, and the improvement score derived from them.
type TrendResult struct {
	AccuracySlope  float64
	SpeedSlope     float64
	DiversitySlope float64
	Score          float64
}

// calculateTrend fits ordinary least-squares lines through the accuracy,
// speed and diversity histories of up to params.TrendMaxPoints most recent
// score rows, with the score date's day index as x. Fewer than
// params.TrendMinPoints rows yield zero slopes: too little history signals
// "no trend", not a fabricated one.
//
// The improvement score is 100×sigmoid(k×averageSlope), so a flat history
// lands exactly at the neutral 50, sustained decline falls below it and
// sustained improvement rises above it.
func calculateTrend(history []*domain.EchoScoreHistory, params *Params) TrendResult {
	result := TrendResult{Score: 50}

	if len(history) < params.TrendMinPoints {
		return result
	}

	ordered := make([]*domain.EchoScoreHistory, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ScoreDate.Before(ordered[j].ScoreDate)
	})
	if len(ordered) > params.TrendMaxPoints {
		ordered = ordered[len(ordered)-params.TrendMaxPoints:]
	}

	base := domain.DateOf(ordered[0].ScoreDate)
	xs := make([]float64, len(ordered))
	for i, row := range ordered {
		xs[i] = domain.DateOf(row.ScoreDate).Sub(base).Hours() / 24
	}

	accuracy := make([]float64, len(ordered))
	speed := make([]float64, len(ordered))
	diversity := make([]float64, len(ordered))
	for i, row := range ordered {
		accuracy[i] = row.AccuracyScore
		speed[i] = row.SwitchSpeedScore
		diversity[i] = row.DiversityScore
	}

	result.AccuracySlope = olsSlope(xs, accuracy)
	result.SpeedSlope = olsSlope(xs, speed)
	result.DiversitySlope = olsSlope(xs, diversity)

	avgSlope := (result.AccuracySlope + result.SpeedSlope + result.DiversitySlope) / 3
	result.Score = clampScore(100 * sigmoid(params.TrendSigmoidK*avgSlope))
	return result
}

// olsSlope returns the ordinary least-squares slope of y against x, or 0
// when x has no variance (all points on the same day).
func olsSlope(xs, ys []float64) float64 {
	n := float64(len(xs))

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX float64
	for i := range xs {
		dx := xs[i] - meanX
		cov += dx * (ys[i] - meanY)
		varX += dx * dx
	}

	if varX == 0 {
		return 0
	}
	return cov / varX
}

// sigmoid is the standard logistic function.
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
