package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
)

// ReadingEventStore defines read access to the append-only reading event
// stream. The scoring core never writes events; the content layer does.
type ReadingEventStore interface {
	// Create saves a new reading event. Events are immutable once written.
	Create(ctx context.Context, event *domain.ReadingEvent) error

	// ListByUserSince retrieves a user's reading events with OccurredAt at
	// or after the given instant, oldest first.
	ListByUserSince(
		ctx context.Context,
		userID uuid.UUID,
		since time.Time,
	) ([]*domain.ReadingEvent, error)
}

// SubmissionStore defines access to the append-only challenge submission
// stream.
type SubmissionStore interface {
	// Create saves a new submission. Exactly one row exists per attempt.
	Create(ctx context.Context, submission *domain.ChallengeSubmission) error

	// ListByUserSince retrieves a user's submissions created at or after
	// the given instant, oldest first.
	ListByUserSince(
		ctx context.Context,
		userID uuid.UUID,
		since time.Time,
	) ([]*domain.ChallengeSubmission, error)

	// ListRecentByUser retrieves the user's newest submissions,
	// newest first, bounded by limit.
	ListRecentByUser(
		ctx context.Context,
		userID uuid.UUID,
		limit int,
	) ([]*domain.ChallengeSubmission, error)

	// ListAttemptedChallengeIDs returns the IDs of challenges the user
	// attempted at or after the given instant.
	ListAttemptedChallengeIDs(
		ctx context.Context,
		userID uuid.UUID,
		since time.Time,
	) ([]uuid.UUID, error)

	// WithTx returns a new SubmissionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SubmissionStore
}

// ChallengeStore defines access to the challenge content pool.
type ChallengeStore interface {
	// GetByID retrieves a challenge by its unique ID.
	// Returns ErrChallengeNotFound if the challenge does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)

	// ListActive retrieves all active challenges.
	ListActive(ctx context.Context) ([]*domain.Challenge, error)
}

// StatsStore defines access to the per-user challenge stats rollup.
type StatsStore interface {
	// Get retrieves a user's stats rollup.
	// Returns ErrStatsNotFound if the user has no rollup yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserChallengeStats, error)

	// Upsert writes the rollup produced by the stats reducer, creating the
	// row on first submission. Callers must hold the per-user lock for the
	// read-reduce-write; the store does not serialize for them.
	Upsert(ctx context.Context, stats *domain.UserChallengeStats) error

	// ListActiveUserIDs returns the IDs of users whose last submission is
	// at or after the given instant. Feeds the nightly batch run.
	ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error)

	// WithTx returns a new StatsStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StatsStore
}
