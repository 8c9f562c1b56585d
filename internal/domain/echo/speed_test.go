package echo

import (
	"math"
	"testing"
	"time"

	"github.com/burstlabs/burst-api/internal/domain"
)

// timedSubmission builds a submission of the given type and duration.
func timedSubmission(
	challengeType domain.ChallengeType,
	seconds int,
) *domain.ChallengeSubmission {
	sub := submissionAt(true, time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC))
	sub.ChallengeType = challengeType
	sub.TimeSpentSeconds = seconds
	return sub
}

func TestCalculateSpeedNoDataScoresZero(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	reference := ReferenceMedians{domain.ChallengeBiasIdentification: 45}

	testCases := []struct {
		name      string
		subs      []*domain.ChallengeSubmission
		reference ReferenceMedians
	}{
		{name: "no submissions", subs: nil, reference: reference},
		{
			name:      "no reference median for the attempted type",
			subs:      []*domain.ChallengeSubmission{timedSubmission(domain.ChallengeFactCheck, 100)},
			reference: reference,
		},
		{
			name:      "empty reference table",
			subs:      []*domain.ChallengeSubmission{timedSubmission(domain.ChallengeBiasIdentification, 45)},
			reference: ReferenceMedians{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateSpeed(tc.subs, tc.reference, params)
			if result.Score != 0 {
				t.Errorf("score = %v, want 0", result.Score)
			}
		})
	}
}

func TestCalculateSpeedMatchingReference(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	reference := ReferenceMedians{domain.ChallengeBiasIdentification: 60}

	// User median equals the reference: ratio 1, score 100/cap.
	subs := []*domain.ChallengeSubmission{
		timedSubmission(domain.ChallengeBiasIdentification, 60),
		timedSubmission(domain.ChallengeBiasIdentification, 60),
	}
	result := calculateSpeed(subs, reference, params)

	want := 100 / params.SpeedRatioCap
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v for reference-pace user", result.Score, want)
	}
	if result.Ratio != 1 {
		t.Errorf("ratio = %v, want 1", result.Ratio)
	}
}

func TestCalculateSpeedFastUserCappedAtHundred(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	reference := ReferenceMedians{domain.ChallengeBiasIdentification: 120}

	// Four times faster than the reference: the raw ratio is 4 but the
	// cap bounds the score at 100.
	subs := []*domain.ChallengeSubmission{
		timedSubmission(domain.ChallengeBiasIdentification, 30),
	}
	result := calculateSpeed(subs, reference, params)

	if result.Score != 100 {
		t.Errorf("score = %v, want 100 for capped fast user", result.Score)
	}
	if result.Ratio != 4 {
		t.Errorf("raw ratio = %v, want 4", result.Ratio)
	}
}

func TestCalculateSpeedSlowerUserScoresLower(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	reference := ReferenceMedians{domain.ChallengeBiasIdentification: 60}

	atPace := calculateSpeed(
		[]*domain.ChallengeSubmission{timedSubmission(domain.ChallengeBiasIdentification, 60)},
		reference, params)
	slower := calculateSpeed(
		[]*domain.ChallengeSubmission{timedSubmission(domain.ChallengeBiasIdentification, 120)},
		reference, params)

	if slower.Score >= atPace.Score {
		t.Errorf("slower user score %v not below at-pace score %v",
			slower.Score, atPace.Score)
	}
	if slower.Score <= 0 {
		t.Errorf("slower user score = %v, want > 0", slower.Score)
	}
}

func TestCalculateSpeedWeightsTypesByAttemptCount(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	reference := ReferenceMedians{
		domain.ChallengeBiasIdentification: 60,
		domain.ChallengeFactCheck:          120,
	}

	// Three at-pace attempts and one half-pace attempt: the average ratio
	// is pulled toward the heavily-attempted type.
	subs := []*domain.ChallengeSubmission{
		timedSubmission(domain.ChallengeBiasIdentification, 60),
		timedSubmission(domain.ChallengeBiasIdentification, 60),
		timedSubmission(domain.ChallengeBiasIdentification, 60),
		timedSubmission(domain.ChallengeFactCheck, 240),
	}
	result := calculateSpeed(subs, reference, params)

	// (1×3 + 0.5×1) / 4 = 0.875
	if math.Abs(result.Ratio-0.875) > 1e-9 {
		t.Errorf("weighted ratio = %v, want 0.875", result.Ratio)
	}
}

func TestMedian(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		samples  []float64
		expected float64
	}{
		{name: "empty", samples: nil, expected: 0},
		{name: "single", samples: []float64{7}, expected: 7},
		{name: "odd count", samples: []float64{9, 1, 5}, expected: 5},
		{name: "even count", samples: []float64{4, 1, 3, 2}, expected: 2.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := median(tc.samples); got != tc.expected {
				t.Errorf("median(%v) = %v, want %v", tc.samples, got, tc.expected)
			}
		})
	}
}
