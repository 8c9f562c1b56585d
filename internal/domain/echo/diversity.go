package echo

import (
	"sort"

	"github.com/burstlabs/burst-api/internal/domain"
)

// DiversityResult is the outcome of the diversity computation: the bounded
// score plus the audit values recorded in calculation details.
type DiversityResult struct {
	Score       float64
	Gini        float64
	SourcesRead int
	BiasRange   int // span of bias buckets touched, min ordinal to max
}

// calculateDiversity scores how evenly a user's reading spreads across the
// seven-bucket bias scale.
//
// The concentration index is a Gini coefficient over the read counts of the
// buckets the user actually touched, normalized by k/(k-1) for k touched
// buckets so that full concentration maps to 1 and a perfectly even spread
// maps to 0. The score is 100×(1−G).
//
// Evenness alone is not diversity: ten articles each from two adjacent
// center buckets is balanced reading of a narrow slice, not cross-spectrum
// reading. When the user touches no more than params.RestrictedRangeBuckets
// distinct buckets the score is capped at params.RestrictedRangeMaxScore.
//
// Zero or one reading event, or all reading in a single bucket, scores 0.
func calculateDiversity(events []*domain.ReadingEvent, params *Params) DiversityResult {
	result := DiversityResult{}

	if len(events) <= 1 {
		return result
	}

	counts := make(map[domain.BiasCategory]int)
	sources := make(map[string]struct{})
	for _, ev := range events {
		counts[ev.BiasCategory]++
		sources[ev.SourceID] = struct{}{}
	}
	result.SourcesRead = len(sources)

	minOrd, maxOrd := domain.BiasBucketCount, -1
	for cat := range counts {
		ord := cat.Ordinal()
		if ord < minOrd {
			minOrd = ord
		}
		if ord > maxOrd {
			maxOrd = ord
		}
	}
	result.BiasRange = maxOrd - minOrd + 1

	touched := len(counts)
	if touched <= 1 {
		result.Gini = 1
		return result
	}

	result.Gini = giniIndex(counts)
	score := 100 * (1 - result.Gini)

	if touched <= params.RestrictedRangeBuckets && score > params.RestrictedRangeMaxScore {
		score = params.RestrictedRangeMaxScore
	}

	result.Score = clampScore(score)
	return result
}

// giniIndex computes the normalized Gini coefficient of the bucket counts.
// Uses the sorted-rank formulation: G = (2·Σ i·x_i)/(k·Σ x_i) − (k+1)/k for
// ascending-sorted counts x_1..x_k, then scales by k/(k−1) so the index
// reaches 1 at full concentration regardless of bucket count.
func giniIndex(counts map[domain.BiasCategory]int) float64 {
	values := make([]float64, 0, len(counts))
	for _, c := range counts {
		values = append(values, float64(c))
	}
	sort.Float64s(values)

	k := float64(len(values))
	var total, weighted float64
	for i, v := range values {
		total += v
		weighted += float64(i+1) * v
	}
	if total == 0 {
		return 0
	}

	g := (2*weighted)/(k*total) - (k+1)/k
	g *= k / (k - 1)

	if g < 0 {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	return g
}

// clampScore bounds a score to [0,100].
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
