package echo

import (
	"sort"

	"github.com/burstlabs/burst-api/internal/domain"
)

// AccuracyResult is the outcome of the accuracy computation.
type AccuracyResult struct {
	Score           float64
	OverallAccuracy float64
	RecentAccuracy  float64
}

// calculateAccuracy scores correctness with recency weighting. The recent
// term covers the newest params.RecentAccuracyCount submissions (or fewer
// if less history exists) so current improvement is rewarded over the
// historical average, while the overall term keeps one lucky streak from
// dominating. Zero submissions score 0; no division by zero anywhere.
func calculateAccuracy(submissions []*domain.ChallengeSubmission, params *Params) AccuracyResult {
	result := AccuracyResult{}

	if len(submissions) == 0 {
		return result
	}

	ordered := sortedByCreation(submissions)

	correct := 0
	for _, sub := range ordered {
		if sub.IsCorrect {
			correct++
		}
	}
	result.OverallAccuracy = float64(correct) / float64(len(ordered))

	recent := ordered
	if len(recent) > params.RecentAccuracyCount {
		recent = recent[len(recent)-params.RecentAccuracyCount:]
	}
	recentCorrect := 0
	for _, sub := range recent {
		if sub.IsCorrect {
			recentCorrect++
		}
	}
	result.RecentAccuracy = float64(recentCorrect) / float64(len(recent))

	result.Score = clampScore(100 * (params.OverallAccuracyWeight*result.OverallAccuracy +
		params.RecentAccuracyWeight*result.RecentAccuracy))
	return result
}

// sortedByCreation returns the submissions ordered oldest first without
// mutating the input slice.
func sortedByCreation(submissions []*domain.ChallengeSubmission) []*domain.ChallengeSubmission {
	ordered := make([]*domain.ChallengeSubmission, len(submissions))
	copy(ordered, submissions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	return ordered
}
