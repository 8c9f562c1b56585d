package echo

import (
	"errors"
	"math"
	"testing"

	"github.com/burstlabs/burst-api/internal/domain"
)

func TestAggregateDefaultWeights(t *testing.T) {
	t.Parallel()
	weights := NewDefaultParams().Weights

	scores := SubScores{
		Diversity:   80,
		Accuracy:    60,
		SwitchSpeed: 40,
		Consistency: 20,
		Improvement: 50,
	}
	total, err := aggregate(scores, weights)
	if err != nil {
		t.Fatalf("aggregate returned error: %v", err)
	}

	// 0.25×80 + 0.25×60 + 0.20×40 + 0.15×20 + 0.15×50 = 53.5
	if total != 53.5 {
		t.Errorf("total = %v, want 53.5", total)
	}
}

func TestAggregateRoundsToTwoDecimals(t *testing.T) {
	t.Parallel()
	weights := NewDefaultParams().Weights

	scores := SubScores{
		Diversity:   33.333,
		Accuracy:    33.333,
		SwitchSpeed: 33.333,
		Consistency: 33.333,
		Improvement: 33.333,
	}
	total, err := aggregate(scores, weights)
	if err != nil {
		t.Fatalf("aggregate returned error: %v", err)
	}

	if total != math.Round(total*100)/100 {
		t.Errorf("total %v carries more than two decimals", total)
	}
}

func TestAggregateBoundaryScores(t *testing.T) {
	t.Parallel()
	weights := NewDefaultParams().Weights

	zero, err := aggregate(SubScores{}, weights)
	if err != nil {
		t.Fatalf("all-zero aggregate returned error: %v", err)
	}
	if zero != 0 {
		t.Errorf("all-zero total = %v, want 0", zero)
	}

	full, err := aggregate(SubScores{
		Diversity:   100,
		Accuracy:    100,
		SwitchSpeed: 100,
		Consistency: 100,
		Improvement: 100,
	}, weights)
	if err != nil {
		t.Fatalf("all-hundred aggregate returned error: %v", err)
	}
	if full != 100 {
		t.Errorf("all-hundred total = %v, want 100", full)
	}
}

func TestAggregateRejectsOutOfBoundsSubScore(t *testing.T) {
	t.Parallel()
	weights := NewDefaultParams().Weights

	testCases := []struct {
		name   string
		scores SubScores
	}{
		{name: "negative diversity", scores: SubScores{Diversity: -0.1, Improvement: 50}},
		{name: "accuracy above 100", scores: SubScores{Accuracy: 100.5, Improvement: 50}},
		{name: "NaN speed", scores: SubScores{SwitchSpeed: math.NaN(), Improvement: 50}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := aggregate(tc.scores, weights)
			if !errors.Is(err, domain.ErrInvalidSubScore) {
				t.Errorf("err = %v, want ErrInvalidSubScore", err)
			}
		})
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	valid := NewDefaultParams().Weights
	if err := valid.Validate(); err != nil {
		t.Errorf("default weights rejected: %v", err)
	}

	unbalanced := Weights{Diversity: 0.5, Accuracy: 0.5, SwitchSpeed: 0.5}
	if err := unbalanced.Validate(); err == nil {
		t.Error("weights summing to 1.5 accepted")
	}

	negative := Weights{Diversity: -0.25, Accuracy: 0.5, SwitchSpeed: 0.25,
		Consistency: 0.25, Improvement: 0.25}
	if err := negative.Validate(); err == nil {
		t.Error("negative weight accepted")
	}
}
