package echo

import (
	"sort"

	"github.com/burstlabs/burst-api/internal/domain"
)

// ReferenceMedians are the global median response times per challenge type,
// in seconds. They are a precomputed aggregate supplied by the caller: the
// core never scans other users' data during a scoring run.
type ReferenceMedians map[domain.ChallengeType]float64

// SpeedResult is the outcome of the response-speed computation. Ratio is
// the raw reference/user median ratio before capping; the trend analyzer
// consumes it, the composite does not.
type SpeedResult struct {
	Score float64
	Ratio float64
}

// calculateSpeed scores response time against the global reference.
// Response times are only comparable within a challenge type, so the user's
// median is computed per type and compared to that type's reference median;
// the per-type ratios are then averaged weighted by attempt count. A user
// matching the reference lands at the cap-relative midpoint, faster users
// approach 100, slower users approach 0 asymptotically. The ratio cap keeps
// one unusually fast outlier type from pushing the score above 100.
//
// Types with no reference median, and users with no timed submissions,
// contribute nothing; with no usable data at all the score is 0.
func calculateSpeed(
	submissions []*domain.ChallengeSubmission,
	reference ReferenceMedians,
	params *Params,
) SpeedResult {
	result := SpeedResult{}

	byType := make(map[domain.ChallengeType][]float64)
	for _, sub := range submissions {
		if sub.TimeSpentSeconds <= 0 {
			continue
		}
		byType[sub.ChallengeType] = append(byType[sub.ChallengeType], float64(sub.TimeSpentSeconds))
	}

	var weightedRatio float64
	var weight int
	for challengeType, times := range byType {
		refMedian, ok := reference[challengeType]
		if !ok || refMedian <= 0 {
			continue
		}

		userMedian := median(times)
		if userMedian <= 0 {
			continue
		}

		weightedRatio += (refMedian / userMedian) * float64(len(times))
		weight += len(times)
	}

	if weight == 0 {
		return result
	}

	result.Ratio = weightedRatio / float64(weight)

	capped := result.Ratio
	if capped > params.SpeedRatioCap {
		capped = params.SpeedRatioCap
	}
	if capped < 0 {
		capped = 0
	}

	result.Score = clampScore(100 * capped / params.SpeedRatioCap)
	return result
}

// median returns the middle value of the samples, averaging the two central
// values for even counts. The input slice is not modified.
func median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
