package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// PostgresScoreHistoryStore implements the store.ScoreHistoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresScoreHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScoreHistoryStore creates a new PostgreSQL implementation of the
// ScoreHistoryStore interface. If logger is nil, a default logger will be used.
func NewPostgresScoreHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresScoreHistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScoreHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "score_history_store")),
	}
}

// Ensure PostgresScoreHistoryStore implements store.ScoreHistoryStore interface
var _ store.ScoreHistoryStore = (*PostgresScoreHistoryStore)(nil)

const scoreColumns = `id, user_id, score_date, total_score, diversity_score,
	accuracy_score, switch_speed_score, consistency_score, improvement_score,
	calculation_details, created_at`

// Create implements store.ScoreHistoryStore.Create
// It appends one score row; history rows are never updated afterwards.
func (s *PostgresScoreHistoryStore) Create(
	ctx context.Context,
	row *domain.EchoScoreHistory,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := row.Validate(); err != nil {
		log.Warn("score history validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", row.UserID.String()))
		return err
	}

	details, err := json.Marshal(row.CalculationDetails)
	if err != nil {
		return fmt.Errorf("encoding calculation details: %w", err)
	}

	query := `
		INSERT INTO echo_score_history
			(id, user_id, score_date, total_score, diversity_score,
			 accuracy_score, switch_speed_score, consistency_score,
			 improvement_score, calculation_details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		row.ID,
		row.UserID,
		row.ScoreDate,
		row.TotalScore,
		row.DiversityScore,
		row.AccuracyScore,
		row.SwitchSpeedScore,
		row.ConsistencyScore,
		row.ImprovementScore,
		details,
		row.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create score history row",
			slog.String("error", err.Error()),
			slog.String("user_id", row.UserID.String()))
		return MapError(err)
	}

	log.Info("echo score recorded",
		slog.String("user_id", row.UserID.String()),
		slog.Time("score_date", row.ScoreDate),
		slog.Float64("total_score", row.TotalScore))
	return nil
}

// ListRecentByUser implements store.ScoreHistoryStore.ListRecentByUser
// Rows come back ordered by score date ascending, ready for the trend
// analyzer.
func (s *PostgresScoreHistoryStore) ListRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.EchoScoreHistory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + scoreColumns + `
		FROM (
			SELECT ` + scoreColumns + `
			FROM echo_score_history
			WHERE user_id = $1
			ORDER BY score_date DESC, created_at DESC
			LIMIT $2
		) recent
		ORDER BY score_date ASC, created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list score history",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var history []*domain.EchoScoreHistory
	for rows.Next() {
		row, err := scanScoreRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		history = append(history, row)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return history, nil
}

// GetLatestByUser implements store.ScoreHistoryStore.GetLatestByUser
// Returns store.ErrScoreNotFound if the user has never been scored.
func (s *PostgresScoreHistoryStore) GetLatestByUser(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.EchoScoreHistory, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM echo_score_history
		WHERE user_id = $1
		ORDER BY score_date DESC, created_at DESC
		LIMIT 1
	`
	row, err := scanScoreRow(s.db.QueryRowContext(ctx, query, userID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", store.ErrScoreNotFound, userID)
		}
		return nil, err
	}
	return row, nil
}

// WithTx implements store.ScoreHistoryStore.WithTx
func (s *PostgresScoreHistoryStore) WithTx(tx *sql.Tx) store.ScoreHistoryStore {
	return &PostgresScoreHistoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanScoreRow scans one score history row from any Scan-shaped source.
func scanScoreRow(scan func(dest ...any) error) (*domain.EchoScoreHistory, error) {
	var row domain.EchoScoreHistory
	var details []byte

	if err := scan(
		&row.ID,
		&row.UserID,
		&row.ScoreDate,
		&row.TotalScore,
		&row.DiversityScore,
		&row.AccuracyScore,
		&row.SwitchSpeedScore,
		&row.ConsistencyScore,
		&row.ImprovementScore,
		&details,
		&row.CreatedAt,
	); err != nil {
		return nil, MapError(err)
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &row.CalculationDetails); err != nil {
			return nil, fmt.Errorf("decoding calculation details: %w", err)
		}
	}

	return &row, nil
}
