package api

import (
	"time"

	"github.com/burstlabs/burst-api/internal/domain"
)

// Response structures. The public contract uses camelCase fields and ISO8601
// timestamps; scores are numbers, never strings.

// ScoreBreakdownResponse carries the five sub-scores of one scoring run.
type ScoreBreakdownResponse struct {
	Diversity   float64 `json:"diversity"`
	Accuracy    float64 `json:"accuracy"`
	SwitchSpeed float64 `json:"switchSpeed"`
	Consistency float64 `json:"consistency"`
	Improvement float64 `json:"improvement"`
}

// EchoScoreResponse is the serialized form of one score history row.
type EchoScoreResponse struct {
	UserID    string                 `json:"userId"`
	EchoScore float64                `json:"echoScore"`
	Breakdown ScoreBreakdownResponse `json:"breakdown"`
	ScoreDate string                 `json:"scoreDate"`
	// Stale is true when the row is a fallback: the requested computation
	// failed and this is the last known score instead.
	Stale bool `json:"stale,omitempty"`
}

// DailyChallengeResponse is the challenge-of-the-day payload.
type DailyChallengeResponse struct {
	Challenge            ChallengeResponse `json:"challenge"`
	SelectionDate        string            `json:"selectionDate"`
	SelectionReason      string            `json:"selectionReason"`
	DifficultyAdjustment int               `json:"difficultyAdjustment"`
}

// ChallengeResponse is the serialized form of a challenge.
type ChallengeResponse struct {
	ID         string `json:"id"`
	Type       string `json:"challengeType"`
	Difficulty string `json:"difficulty"`
	Prompt     string `json:"prompt"`
}

// SubmitChallengeRequest is the payload for recording a challenge attempt.
// Content is validated against the challenge's type before acceptance.
type SubmitChallengeRequest struct {
	ChallengeID      string         `json:"challengeId" validate:"required,uuid"`
	Correct          bool           `json:"correct"`
	TimeTakenSeconds int            `json:"timeTakenSeconds" validate:"required,gt=0"`
	Content          map[string]any `json:"content" validate:"required"`
}

// ChallengeStatsResponse is the serialized form of a user's challenge
// performance rollup.
type ChallengeStatsResponse struct {
	UserID          string  `json:"userId"`
	TotalCompleted  int     `json:"totalCompleted"`
	TotalCorrect    int     `json:"totalCorrect"`
	OverallAccuracy float64 `json:"overallAccuracy"`
	CurrentStreak   int     `json:"currentStreak"`
	LongestStreak   int     `json:"longestStreak"`
	// LastChallengeDate is empty for a user who has never submitted.
	LastChallengeDate string `json:"lastChallengeDate,omitempty"`
}

// SubmissionResponse confirms a recorded attempt and returns the updated
// streak so clients can render it without a second round trip.
type SubmissionResponse struct {
	SubmissionID  string `json:"submissionId"`
	CurrentStreak int    `json:"currentStreak"`
	LongestStreak int    `json:"longestStreak"`
}

// newEchoScoreResponse converts a score history row into the public shape.
func newEchoScoreResponse(row *domain.EchoScoreHistory, stale bool) EchoScoreResponse {
	return EchoScoreResponse{
		UserID:    row.UserID.String(),
		EchoScore: row.TotalScore,
		Breakdown: ScoreBreakdownResponse{
			Diversity:   row.DiversityScore,
			Accuracy:    row.AccuracyScore,
			SwitchSpeed: row.SwitchSpeedScore,
			Consistency: row.ConsistencyScore,
			Improvement: row.ImprovementScore,
		},
		ScoreDate: row.ScoreDate.UTC().Format(time.RFC3339),
		Stale:     stale,
	}
}

// newZeroScoreResponse builds the brand-new-user score payload.
func newZeroScoreResponse(userID string, now time.Time) EchoScoreResponse {
	return EchoScoreResponse{
		UserID:    userID,
		EchoScore: 0,
		ScoreDate: now.UTC().Format(time.RFC3339),
	}
}

// newChallengeStatsResponse converts a stats rollup into the public shape.
func newChallengeStatsResponse(stats *domain.UserChallengeStats) ChallengeStatsResponse {
	resp := ChallengeStatsResponse{
		UserID:          stats.UserID.String(),
		TotalCompleted:  stats.TotalCompleted,
		TotalCorrect:    stats.TotalCorrect,
		OverallAccuracy: stats.OverallAccuracy(),
		CurrentStreak:   stats.EffectiveStreak(time.Now().UTC()),
		LongestStreak:   stats.LongestStreak,
	}
	if !stats.LastChallengeDate.IsZero() {
		resp.LastChallengeDate = stats.LastChallengeDate.UTC().Format("2006-01-02")
	}
	return resp
}

// newDailyChallengeResponse joins a selection row with its challenge.
func newDailyChallengeResponse(
	selection *domain.DailyChallengeSelection,
	challenge *domain.Challenge,
) DailyChallengeResponse {
	return DailyChallengeResponse{
		Challenge: ChallengeResponse{
			ID:         challenge.ID.String(),
			Type:       string(challenge.Type),
			Difficulty: string(challenge.Difficulty),
			Prompt:     challenge.Prompt,
		},
		SelectionDate:        selection.SelectionDate.UTC().Format("2006-01-02"),
		SelectionReason:      string(selection.SelectionReason),
		DifficultyAdjustment: selection.DifficultyAdjustment,
	}
}
