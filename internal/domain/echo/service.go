// Package echo implements the Echo Score computation: five statistical
// sub-scores (diversity, accuracy, switch speed, consistency, improvement)
// combined into a bounded composite. All computation is pure and in-memory;
// the service layer supplies the activity window and persists the result.
package echo

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
)

// Common errors
var (
	ErrNilParams     = errors.New("params cannot be nil")
	ErrEmptyUser     = errors.New("user ID cannot be empty")
	ErrZeroScoreDate = errors.New("score date cannot be zero")
)

// ScoreInputs is everything one scoring run reads: the user's activity in
// the trailing window, the current streak from the stats rollup, the score
// history feeding the trend analyzer, and the global reference medians.
type ScoreInputs struct {
	UserID        uuid.UUID
	ScoreDate     time.Time
	ReadingEvents []*domain.ReadingEvent
	Submissions   []*domain.ChallengeSubmission
	CurrentStreak int
	History       []*domain.EchoScoreHistory
	Reference     ReferenceMedians
}

// Service computes Echo Scores.
type Service interface {
	// CalculateScore runs the five scorers and the aggregator over the
	// inputs and returns a new, validated score history row. A user with
	// no activity in the window scores 0 on the activity-driven
	// sub-scores and the neutral 50 on improvement; that is a valid
	// low-confidence state, not an error.
	CalculateScore(inputs ScoreInputs) (*domain.EchoScoreHistory, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates an Echo Score service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates an Echo Score service with custom parameters.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// CalculateScore implements the Service interface.
func (s *defaultService) CalculateScore(inputs ScoreInputs) (*domain.EchoScoreHistory, error) {
	if inputs.UserID == uuid.Nil {
		return nil, ErrEmptyUser
	}
	if inputs.ScoreDate.IsZero() {
		return nil, ErrZeroScoreDate
	}

	diversity := calculateDiversity(inputs.ReadingEvents, s.params)
	accuracy := calculateAccuracy(inputs.Submissions, s.params)
	speed := calculateSpeed(inputs.Submissions, inputs.Reference, s.params)
	consistency := calculateConsistency(
		inputs.ReadingEvents,
		inputs.Submissions,
		inputs.CurrentStreak,
		s.params,
	)
	trend := calculateTrend(inputs.History, s.params)

	total, err := aggregate(SubScores{
		Diversity:   diversity.Score,
		Accuracy:    accuracy.Score,
		SwitchSpeed: speed.Score,
		Consistency: consistency.Score,
		Improvement: trend.Score,
	}, s.params.Weights)
	if err != nil {
		return nil, err
	}

	// An empty window means no signal at all: the composite is 0, not the
	// weighted residue of the neutral improvement default. The improvement
	// sub-score still reports 50 for auditability.
	if len(inputs.ReadingEvents) == 0 && len(inputs.Submissions) == 0 {
		total = 0
	}

	row := &domain.EchoScoreHistory{
		ID:               uuid.New(),
		UserID:           inputs.UserID,
		ScoreDate:        domain.DateOf(inputs.ScoreDate),
		TotalScore:       total,
		DiversityScore:   round2(diversity.Score),
		AccuracyScore:    round2(accuracy.Score),
		SwitchSpeedScore: round2(speed.Score),
		ConsistencyScore: round2(consistency.Score),
		ImprovementScore: round2(trend.Score),
		CalculationDetails: domain.CalculationDetails{
			WindowDays:      s.params.WindowDays,
			ReadingEvents:   len(inputs.ReadingEvents),
			Submissions:     len(inputs.Submissions),
			SourcesRead:     diversity.SourcesRead,
			BiasRange:       diversity.BiasRange,
			GiniIndex:       diversity.Gini,
			OverallAccuracy: accuracy.OverallAccuracy,
			RecentAccuracy:  accuracy.RecentAccuracy,
			SpeedRatio:      speed.Ratio,
			ActiveDays:      consistency.ActiveDays,
			CurrentStreak:   inputs.CurrentStreak,
			AccuracySlope:   trend.AccuracySlope,
			SpeedSlope:      trend.SpeedSlope,
			DiversitySlope:  trend.DiversitySlope,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := row.Validate(); err != nil {
		return nil, err
	}

	return row, nil
}
