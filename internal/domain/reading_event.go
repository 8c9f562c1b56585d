package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BiasCategory places a news source on a seven-bucket ordinal scale from
// far left to far right. The ordinal positions matter: the diversity scorer
// measures how far across the scale a user's reading spreads.
type BiasCategory string

// The seven bias buckets, in ordinal order.
const (
	BiasFarLeft     BiasCategory = "far_left"
	BiasLeft        BiasCategory = "left"
	BiasCenterLeft  BiasCategory = "center_left"
	BiasCenter      BiasCategory = "center"
	BiasCenterRight BiasCategory = "center_right"
	BiasRight       BiasCategory = "right"
	BiasFarRight    BiasCategory = "far_right"
)

// BiasBucketCount is the number of buckets on the bias scale.
const BiasBucketCount = 7

// biasOrdinals maps each category to its zero-based position on the scale.
var biasOrdinals = map[BiasCategory]int{
	BiasFarLeft:     0,
	BiasLeft:        1,
	BiasCenterLeft:  2,
	BiasCenter:      3,
	BiasCenterRight: 4,
	BiasRight:       5,
	BiasFarRight:    6,
}

// Ordinal returns the category's zero-based position on the bias scale,
// or -1 if the category is not one of the seven known buckets.
func (b BiasCategory) Ordinal() int {
	ord, ok := biasOrdinals[b]
	if !ok {
		return -1
	}
	return ord
}

// IsValid reports whether the category is one of the seven known buckets.
func (b BiasCategory) IsValid() bool {
	_, ok := biasOrdinals[b]
	return ok
}

// Common validation errors for ReadingEvent
var (
	ErrEmptyEventUserID    = errors.New("reading event user ID cannot be empty")
	ErrEmptyEventContentID = errors.New("reading event content ID cannot be empty")
	ErrInvalidCompletion   = errors.New("completion percentage must be between 0 and 1")
	ErrNegativeTimeSpent   = errors.New("time spent cannot be negative")
)

// ReadingEvent records that a user viewed a bias-labeled article. Events are
// immutable and append-only; one is created per article view by the content
// layer and handed to the scoring core already validated and persisted.
type ReadingEvent struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"user_id"`
	ContentID        uuid.UUID    `json:"content_id"`
	SourceID         string       `json:"source_id"`
	BiasCategory     BiasCategory `json:"source_bias_category"`
	Topics           []string     `json:"topics"`
	TimeSpentSeconds int          `json:"time_spent_seconds"`
	CompletionPct    float64      `json:"completion_pct"`
	OccurredAt       time.Time    `json:"occurred_at"`
}

// NewReadingEvent creates a validated reading event for the given view.
func NewReadingEvent(
	userID, contentID uuid.UUID,
	sourceID string,
	bias BiasCategory,
	topics []string,
	timeSpentSeconds int,
	completionPct float64,
	occurredAt time.Time,
) (*ReadingEvent, error) {
	ev := &ReadingEvent{
		ID:               uuid.New(),
		UserID:           userID,
		ContentID:        contentID,
		SourceID:         sourceID,
		BiasCategory:     bias,
		Topics:           topics,
		TimeSpentSeconds: timeSpentSeconds,
		CompletionPct:    completionPct,
		OccurredAt:       occurredAt,
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}

	return ev, nil
}

// Validate checks if the ReadingEvent has valid data.
// Returns an error if any field fails validation.
func (e *ReadingEvent) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyEventUserID
	}

	if e.ContentID == uuid.Nil {
		return ErrEmptyEventContentID
	}

	if !e.BiasCategory.IsValid() {
		return ErrInvalidBiasCategory
	}

	if e.CompletionPct < 0 || e.CompletionPct > 1 {
		return ErrInvalidCompletion
	}

	if e.TimeSpentSeconds < 0 {
		return ErrNegativeTimeSpent
	}

	return nil
}
