package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ChallengeSubmission
var (
	ErrEmptySubmissionUserID      = errors.New("submission user ID cannot be empty")
	ErrEmptySubmissionChallengeID = errors.New("submission challenge ID cannot be empty")
	ErrNegativeSubmissionTime     = errors.New("submission time spent cannot be negative")
	ErrNegativeXP                 = errors.New("submission XP earned cannot be negative")
)

// SubmissionContent is the typed answer payload of a challenge submission.
// Each challenge type has exactly one content variant with a fixed schema;
// payloads that do not match their declared type are rejected at the
// boundary via ParseSubmissionContent.
type SubmissionContent interface {
	// ContentType returns the challenge type this content answers.
	ContentType() ChallengeType
}

// BiasIdentificationContent is the answer to a bias_identification
// challenge: the bias bucket the user assigned to the shown article.
type BiasIdentificationContent struct {
	ArticleID    uuid.UUID    `json:"article_id"`
	SelectedBias BiasCategory `json:"selected_bias"`
}

// ContentType implements SubmissionContent.
func (BiasIdentificationContent) ContentType() ChallengeType { return ChallengeBiasIdentification }

// SourceComparisonContent is the answer to a source_comparison challenge:
// which of the compared sources the user judged most credible.
type SourceComparisonContent struct {
	ComparedSourceIDs []string `json:"compared_source_ids"`
	ChosenSourceID    string   `json:"chosen_source_id"`
}

// ContentType implements SubmissionContent.
func (SourceComparisonContent) ContentType() ChallengeType { return ChallengeSourceComparison }

// FactCheckContent is the answer to a fact_check challenge.
type FactCheckContent struct {
	Verdict  string `json:"verdict"` // "true", "false" or "misleading"
	Evidence string `json:"evidence,omitempty"`
}

// ContentType implements SubmissionContent.
func (FactCheckContent) ContentType() ChallengeType { return ChallengeFactCheck }

// PerspectiveSwapContent is the answer to a perspective_swap challenge:
// the user's restatement of the opposing argument.
type PerspectiveSwapContent struct {
	CounterArgument string `json:"counter_argument"`
}

// ContentType implements SubmissionContent.
func (PerspectiveSwapContent) ContentType() ChallengeType { return ChallengePerspectiveSwap }

// LogicalFallacyContent is the answer to a logical_fallacy challenge.
type LogicalFallacyContent struct {
	IdentifiedFallacy string `json:"identified_fallacy"`
	Excerpt           string `json:"excerpt,omitempty"`
}

// ContentType implements SubmissionContent.
func (LogicalFallacyContent) ContentType() ChallengeType { return ChallengeLogicalFallacy }

// ParseSubmissionContent decodes a raw answer payload against the fixed
// schema for the given challenge type. Unknown challenge types and payloads
// with fields outside the schema are rejected; the core never stores
// arbitrary shapes.
func ParseSubmissionContent(
	challengeType ChallengeType,
	raw json.RawMessage,
) (SubmissionContent, error) {
	if !challengeType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChallengeType, challengeType)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var content SubmissionContent
	var err error

	switch challengeType {
	case ChallengeBiasIdentification:
		var c BiasIdentificationContent
		if err = dec.Decode(&c); err == nil && !c.SelectedBias.IsValid() {
			err = ErrInvalidBiasCategory
		}
		content = c
	case ChallengeSourceComparison:
		var c SourceComparisonContent
		err = dec.Decode(&c)
		content = c
	case ChallengeFactCheck:
		var c FactCheckContent
		if err = dec.Decode(&c); err == nil {
			switch c.Verdict {
			case "true", "false", "misleading":
			default:
				err = fmt.Errorf("unknown verdict %q", c.Verdict)
			}
		}
		content = c
	case ChallengePerspectiveSwap:
		var c PerspectiveSwapContent
		err = dec.Decode(&c)
		content = c
	case ChallengeLogicalFallacy:
		var c LogicalFallacyContent
		err = dec.Decode(&c)
		content = c
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmissionContent, err)
	}

	return content, nil
}

// ChallengeSubmission records one attempt at a challenge. Submissions are
// immutable: exactly one is created per attempt and it is never edited.
type ChallengeSubmission struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	ChallengeID      uuid.UUID       `json:"challenge_id"`
	ChallengeType    ChallengeType   `json:"challenge_type"`
	Difficulty       Difficulty      `json:"difficulty"`
	IsCorrect        bool            `json:"is_correct"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
	XPEarned         int             `json:"xp_earned"`
	Content          json.RawMessage `json:"content,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewChallengeSubmission creates a validated submission for one attempt.
// The content payload is checked against the schema for the challenge type.
func NewChallengeSubmission(
	userID, challengeID uuid.UUID,
	challengeType ChallengeType,
	difficulty Difficulty,
	isCorrect bool,
	timeSpentSeconds, xpEarned int,
	content json.RawMessage,
) (*ChallengeSubmission, error) {
	sub := &ChallengeSubmission{
		ID:               uuid.New(),
		UserID:           userID,
		ChallengeID:      challengeID,
		ChallengeType:    challengeType,
		Difficulty:       difficulty,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: timeSpentSeconds,
		XPEarned:         xpEarned,
		Content:          content,
		CreatedAt:        time.Now().UTC(),
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	return sub, nil
}

// Validate checks if the ChallengeSubmission has valid data.
// Returns an error if any field fails validation.
func (s *ChallengeSubmission) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySubmissionUserID
	}

	if s.ChallengeID == uuid.Nil {
		return ErrEmptySubmissionChallengeID
	}

	if !s.ChallengeType.IsValid() {
		return ErrInvalidChallengeType
	}

	if !s.Difficulty.IsValid() {
		return ErrInvalidDifficulty
	}

	if s.TimeSpentSeconds < 0 {
		return ErrNegativeSubmissionTime
	}

	if s.XPEarned < 0 {
		return ErrNegativeXP
	}

	if len(s.Content) > 0 {
		if _, err := ParseSubmissionContent(s.ChallengeType, s.Content); err != nil {
			return err
		}
	}

	return nil
}
