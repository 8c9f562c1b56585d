package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// PostgresSelectionStore implements the store.SelectionStore interface
// using a PostgreSQL database as the storage backend. The unique constraint
// on (user_id, selection_date) is the cross-process guarantee that at most
// one selection exists per user per day.
type PostgresSelectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSelectionStore creates a new PostgreSQL implementation of the
// SelectionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSelectionStore(db store.DBTX, logger *slog.Logger) *PostgresSelectionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSelectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "selection_store")),
	}
}

// Ensure PostgresSelectionStore implements store.SelectionStore interface
var _ store.SelectionStore = (*PostgresSelectionStore)(nil)

const selectionColumns = `id, user_id, selected_challenge_id, selection_date,
	selection_reason, difficulty_adjustment, created_at`

// Create implements store.SelectionStore.Create
// It inserts the row only if none exists for the (user, date) pair. A
// losing racer gets store.ErrSelectionExists — the expected outcome under
// concurrent requests on day rollover, resolved by re-reading.
func (s *PostgresSelectionStore) Create(
	ctx context.Context,
	selection *domain.DailyChallengeSelection,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := selection.Validate(); err != nil {
		log.Warn("selection validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", selection.UserID.String()))
		return err
	}

	query := `
		INSERT INTO daily_challenge_selections
			(id, user_id, selected_challenge_id, selection_date,
			 selection_reason, difficulty_adjustment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, selection_date) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		selection.ID,
		selection.UserID,
		selection.SelectedChallengeID,
		selection.SelectionDate,
		selection.SelectionReason,
		selection.DifficultyAdjustment,
		selection.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrSelectionExists
		}
		log.Error("failed to create daily selection",
			slog.String("error", err.Error()),
			slog.String("user_id", selection.UserID.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		// Another run for the same day got there first.
		return store.ErrSelectionExists
	}

	log.Info("daily challenge selected",
		slog.String("user_id", selection.UserID.String()),
		slog.String("challenge_id", selection.SelectedChallengeID.String()),
		slog.Time("selection_date", selection.SelectionDate),
		slog.String("reason", string(selection.SelectionReason)))
	return nil
}

// GetByUserAndDate implements store.SelectionStore.GetByUserAndDate
// Returns store.ErrSelectionNotFound if no selection exists for the day.
func (s *PostgresSelectionStore) GetByUserAndDate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.DailyChallengeSelection, error) {
	query := `
		SELECT ` + selectionColumns + `
		FROM daily_challenge_selections
		WHERE user_id = $1 AND selection_date = $2
	`

	var selection domain.DailyChallengeSelection
	err := s.db.QueryRowContext(ctx, query, userID, domain.DateOf(date)).Scan(
		&selection.ID,
		&selection.UserID,
		&selection.SelectedChallengeID,
		&selection.SelectionDate,
		&selection.SelectionReason,
		&selection.DifficultyAdjustment,
		&selection.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s on %s",
				store.ErrSelectionNotFound, userID, domain.DateOf(date).Format("2006-01-02"))
		}
		return nil, MapError(err)
	}

	return &selection, nil
}

// ListRecentByUser implements store.SelectionStore.ListRecentByUser
func (s *PostgresSelectionStore) ListRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.DailyChallengeSelection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + selectionColumns + `
		FROM daily_challenge_selections
		WHERE user_id = $1
		ORDER BY selection_date DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list recent selections",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var selections []*domain.DailyChallengeSelection
	for rows.Next() {
		var selection domain.DailyChallengeSelection
		if err := rows.Scan(
			&selection.ID,
			&selection.UserID,
			&selection.SelectedChallengeID,
			&selection.SelectionDate,
			&selection.SelectionReason,
			&selection.DifficultyAdjustment,
			&selection.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		selections = append(selections, &selection)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return selections, nil
}

// WithTx implements store.SelectionStore.WithTx
func (s *PostgresSelectionStore) WithTx(tx *sql.Tx) store.SelectionStore {
	return &PostgresSelectionStore{
		db:     tx,
		logger: s.logger,
	}
}
