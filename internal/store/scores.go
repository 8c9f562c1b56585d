package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
)

// ScoreHistoryStore defines access to the append-only Echo Score timeline.
// Rows are never updated or deleted: a correction is a new row, because the
// ordered sequence is the trend analyzer's input.
type ScoreHistoryStore interface {
	// Create appends one score row for a scoring run.
	Create(ctx context.Context, row *domain.EchoScoreHistory) error

	// ListRecentByUser retrieves the user's newest score rows ordered by
	// score date ascending, bounded by limit.
	ListRecentByUser(
		ctx context.Context,
		userID uuid.UUID,
		limit int,
	) ([]*domain.EchoScoreHistory, error)

	// GetLatestByUser retrieves the user's most recent score row.
	// Returns ErrScoreNotFound if the user has never been scored.
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.EchoScoreHistory, error)

	// WithTx returns a new ScoreHistoryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ScoreHistoryStore
}

// SelectionStore defines access to daily challenge selections. Uniqueness
// on (user, selection date) is a hard invariant enforced by the database.
type SelectionStore interface {
	// Create inserts a selection row if none exists for the user and date.
	// Returns ErrSelectionExists when a concurrent or earlier call already
	// created one; callers then re-read via GetByUserAndDate and return
	// the winning row, so a second selection call on the same day is
	// always idempotent.
	Create(ctx context.Context, selection *domain.DailyChallengeSelection) error

	// GetByUserAndDate retrieves the selection for the given user and
	// calendar day. Returns ErrSelectionNotFound if none exists.
	GetByUserAndDate(
		ctx context.Context,
		userID uuid.UUID,
		date time.Time,
	) (*domain.DailyChallengeSelection, error)

	// ListRecentByUser retrieves the user's newest selections, newest
	// first, bounded by limit. Feeds the weak-area cooldown check.
	ListRecentByUser(
		ctx context.Context,
		userID uuid.UUID,
		limit int,
	) ([]*domain.DailyChallengeSelection, error)

	// WithTx returns a new SelectionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SelectionStore
}

// ReferenceMedianStore supplies the precomputed global median response time
// per challenge type. The scoring core reads the aggregate instead of
// scanning every user's submissions on each run.
type ReferenceMedianStore interface {
	// GetAll retrieves the reference medians, in seconds, keyed by
	// challenge type. An empty map is valid: the speed scorer then scores 0.
	GetAll(ctx context.Context) (map[domain.ChallengeType]float64, error)
}
