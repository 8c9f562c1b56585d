package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// PostgresStatsStore implements the store.StatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatsStore creates a new PostgreSQL implementation of the
// StatsStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresStatsStore(db store.DBTX, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

// Get implements store.StatsStore.Get
// Returns store.ErrStatsNotFound if the user has no rollup yet.
func (s *PostgresStatsStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.UserChallengeStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, total_completed, total_correct, current_streak,
		       longest_streak, last_challenge_date,
		       difficulty_performance, type_performance,
		       created_at, updated_at
		FROM user_challenge_stats
		WHERE user_id = $1
	`

	var stats domain.UserChallengeStats
	var lastDate sql.NullTime
	var diffPerf, typePerf []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.TotalCompleted,
		&stats.TotalCorrect,
		&stats.CurrentStreak,
		&stats.LongestStreak,
		&lastDate,
		&diffPerf,
		&typePerf,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", store.ErrStatsNotFound, userID)
		}
		log.Error("failed to get user challenge stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	if lastDate.Valid {
		stats.LastChallengeDate = domain.DateOf(lastDate.Time)
	}

	stats.DifficultyPerformance = map[domain.Difficulty]domain.PerformanceBucket{}
	if len(diffPerf) > 0 {
		if err := json.Unmarshal(diffPerf, &stats.DifficultyPerformance); err != nil {
			return nil, fmt.Errorf("decoding difficulty performance: %w", err)
		}
	}

	stats.TypePerformance = map[domain.ChallengeType]domain.PerformanceBucket{}
	if len(typePerf) > 0 {
		if err := json.Unmarshal(typePerf, &stats.TypePerformance); err != nil {
			return nil, fmt.Errorf("decoding type performance: %w", err)
		}
	}

	return &stats, nil
}

// Upsert implements store.StatsStore.Upsert
// The caller holds the per-user lock, so the write itself is a plain upsert.
func (s *PostgresStatsStore) Upsert(
	ctx context.Context,
	stats *domain.UserChallengeStats,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := stats.Validate(); err != nil {
		log.Warn("stats validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return err
	}

	diffPerf, err := json.Marshal(stats.DifficultyPerformance)
	if err != nil {
		return fmt.Errorf("encoding difficulty performance: %w", err)
	}
	typePerf, err := json.Marshal(stats.TypePerformance)
	if err != nil {
		return fmt.Errorf("encoding type performance: %w", err)
	}

	var lastDate any
	if !stats.LastChallengeDate.IsZero() {
		lastDate = stats.LastChallengeDate
	}

	query := `
		INSERT INTO user_challenge_stats
			(user_id, total_completed, total_correct, current_streak,
			 longest_streak, last_challenge_date,
			 difficulty_performance, type_performance,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			total_completed = EXCLUDED.total_completed,
			total_correct = EXCLUDED.total_correct,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_challenge_date = EXCLUDED.last_challenge_date,
			difficulty_performance = EXCLUDED.difficulty_performance,
			type_performance = EXCLUDED.type_performance,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		stats.UserID,
		stats.TotalCompleted,
		stats.TotalCorrect,
		stats.CurrentStreak,
		stats.LongestStreak,
		lastDate,
		diffPerf,
		typePerf,
		stats.CreatedAt,
		stats.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert user challenge stats",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return MapError(err)
	}

	log.Debug("user challenge stats upserted",
		slog.String("user_id", stats.UserID.String()),
		slog.Int("total_completed", stats.TotalCompleted),
		slog.Int("current_streak", stats.CurrentStreak))
	return nil
}

// ListActiveUserIDs implements store.StatsStore.ListActiveUserIDs
func (s *PostgresStatsStore) ListActiveUserIDs(
	ctx context.Context,
	since time.Time,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id
		FROM user_challenge_stats
		WHERE updated_at >= $1
		ORDER BY user_id
	`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		log.Error("failed to list active users",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}

// WithTx implements store.StatsStore.WithTx
func (s *PostgresStatsStore) WithTx(tx *sql.Tx) store.StatsStore {
	return &PostgresStatsStore{
		db:     tx,
		logger: s.logger,
	}
}
