package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// ActivityWindow is a user's raw activity for a bounded trailing window:
// the normalized input every scorer reads.
type ActivityWindow struct {
	UserID        uuid.UUID
	From          time.Time
	To            time.Time
	ReadingEvents []*domain.ReadingEvent
	Submissions   []*domain.ChallengeSubmission
}

// MetricExtractor reads a user's raw activity for a trailing window and
// produces the normalized scorer inputs. It is read-only: extraction never
// mutates anything.
type MetricExtractor interface {
	// Extract loads the user's activity for the windowDays trailing window
	// ending at now. Returns domain.ErrInsufficientData (wrapped) when the
	// user has zero events and zero submissions in the window — a valid
	// low-confidence state the caller maps to default scores, not a
	// failure.
	Extract(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		windowDays int,
	) (*ActivityWindow, error)
}

// storeMetricExtractor is the store-backed MetricExtractor.
type storeMetricExtractor struct {
	events      store.ReadingEventStore
	submissions store.SubmissionStore
	logger      *slog.Logger
}

// NewMetricExtractor creates a MetricExtractor over the given stores.
// If logger is nil, a default logger will be used.
func NewMetricExtractor(
	events store.ReadingEventStore,
	submissions store.SubmissionStore,
	logger *slog.Logger,
) MetricExtractor {
	if logger == nil {
		logger = slog.Default()
	}

	return &storeMetricExtractor{
		events:      events,
		submissions: submissions,
		logger:      logger.With(slog.String("component", "metric_extractor")),
	}
}

// Extract implements MetricExtractor.
func (e *storeMetricExtractor) Extract(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	windowDays int,
) (*ActivityWindow, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	since := now.AddDate(0, 0, -windowDays)

	events, err := e.events.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("loading reading events: %w", err)
	}

	submissions, err := e.submissions.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("loading submissions: %w", err)
	}

	window := &ActivityWindow{
		UserID:        userID,
		From:          since,
		To:            now,
		ReadingEvents: events,
		Submissions:   submissions,
	}

	if len(events) == 0 && len(submissions) == 0 {
		log.Debug("no activity in scoring window",
			slog.String("user_id", userID.String()),
			slog.Int("window_days", windowDays))
		return window, fmt.Errorf("%w: user %s has no activity in %d-day window",
			domain.ErrInsufficientData, userID, windowDays)
	}

	return window, nil
}
