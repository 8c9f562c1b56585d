package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for EchoScoreHistory
var (
	ErrEmptyScoreUserID = errors.New("echo score user ID cannot be empty")
	ErrEmptyScoreDate   = errors.New("echo score date cannot be empty")
)

// CalculationDetails carries the intermediate values behind one scoring run
// so a persisted score can be audited without re-running the computation.
// It is stored alongside the score row as JSON.
type CalculationDetails struct {
	WindowDays      int     `json:"window_days"`
	ReadingEvents   int     `json:"reading_events"`
	Submissions     int     `json:"submissions"`
	SourcesRead     int     `json:"sources_read"`
	BiasRange       int     `json:"bias_range"`
	GiniIndex       float64 `json:"gini_index"`
	OverallAccuracy float64 `json:"overall_accuracy"`
	RecentAccuracy  float64 `json:"recent_accuracy"`
	SpeedRatio      float64 `json:"speed_ratio"`
	ActiveDays      int     `json:"active_days"`
	CurrentStreak   int     `json:"current_streak"`
	AccuracySlope   float64 `json:"accuracy_slope"`
	SpeedSlope      float64 `json:"speed_slope"`
	DiversitySlope  float64 `json:"diversity_slope"`
}

// EchoScoreHistory is one row of a user's score timeline: the composite Echo
// Score plus its five sub-scores, produced by a single scoring run. Rows are
// append-only and ordered by ScoreDate; corrections create a new row rather
// than editing a prior one, because the ordered sequence is the trend
// analyzer's input.
type EchoScoreHistory struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	ScoreDate          time.Time          `json:"score_date"`
	TotalScore         float64            `json:"total_score"`
	DiversityScore     float64            `json:"diversity_score"`
	AccuracyScore      float64            `json:"accuracy_score"`
	SwitchSpeedScore   float64            `json:"switch_speed_score"`
	ConsistencyScore   float64            `json:"consistency_score"`
	ImprovementScore   float64            `json:"improvement_score"`
	CalculationDetails CalculationDetails `json:"calculation_details"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Validate checks if the EchoScoreHistory has valid data. All scores,
// composite included, must lie in [0,100]; a value outside that range is a
// scorer bug and must not be persisted.
func (h *EchoScoreHistory) Validate() error {
	if h.UserID == uuid.Nil {
		return ErrEmptyScoreUserID
	}

	if h.ScoreDate.IsZero() {
		return ErrEmptyScoreDate
	}

	for name, score := range map[string]float64{
		"total":        h.TotalScore,
		"diversity":    h.DiversityScore,
		"accuracy":     h.AccuracyScore,
		"switch_speed": h.SwitchSpeedScore,
		"consistency":  h.ConsistencyScore,
		"improvement":  h.ImprovementScore,
	} {
		if score < 0 || score > 100 {
			return fmt.Errorf("%w: %s score %v", ErrInvalidSubScore, name, score)
		}
	}

	return nil
}
