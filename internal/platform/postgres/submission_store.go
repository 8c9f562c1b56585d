package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// PostgresSubmissionStore implements the store.SubmissionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSubmissionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubmissionStore creates a new PostgreSQL implementation of the
// SubmissionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSubmissionStore(db store.DBTX, logger *slog.Logger) *PostgresSubmissionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubmissionStore{
		db:     db,
		logger: logger.With(slog.String("component", "submission_store")),
	}
}

// Ensure PostgresSubmissionStore implements store.SubmissionStore interface
var _ store.SubmissionStore = (*PostgresSubmissionStore)(nil)

const submissionColumns = `id, user_id, challenge_id, challenge_type, difficulty,
	is_correct, time_spent_seconds, xp_earned, content, created_at`

// Create implements store.SubmissionStore.Create
// It saves a new submission, handling domain validation (including the
// typed content schema for the challenge type). Submissions are immutable.
func (s *PostgresSubmissionStore) Create(
	ctx context.Context,
	submission *domain.ChallengeSubmission,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := submission.Validate(); err != nil {
		log.Warn("submission validation failed during create",
			slog.String("error", err.Error()),
			slog.String("submission_id", submission.ID.String()))
		return err
	}

	query := `
		INSERT INTO challenge_submissions
			(id, user_id, challenge_id, challenge_type, difficulty,
			 is_correct, time_spent_seconds, xp_earned, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		submission.ID,
		submission.UserID,
		submission.ChallengeID,
		submission.ChallengeType,
		submission.Difficulty,
		submission.IsCorrect,
		submission.TimeSpentSeconds,
		submission.XPEarned,
		nullableJSON(submission.Content),
		submission.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create submission",
			slog.String("error", err.Error()),
			slog.String("submission_id", submission.ID.String()),
			slog.String("user_id", submission.UserID.String()))
		return MapError(err)
	}

	log.Debug("submission created",
		slog.String("submission_id", submission.ID.String()),
		slog.String("user_id", submission.UserID.String()),
		slog.String("challenge_type", string(submission.ChallengeType)))
	return nil
}

// ListByUserSince implements store.SubmissionStore.ListByUserSince
func (s *PostgresSubmissionStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.ChallengeSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM challenge_submissions
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC
	`
	return s.querySubmissions(ctx, query, userID, since)
}

// ListRecentByUser implements store.SubmissionStore.ListRecentByUser
func (s *PostgresSubmissionStore) ListRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.ChallengeSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM challenge_submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return s.querySubmissions(ctx, query, userID, limit)
}

// ListAttemptedChallengeIDs implements store.SubmissionStore.ListAttemptedChallengeIDs
func (s *PostgresSubmissionStore) ListAttemptedChallengeIDs(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT challenge_id
		FROM challenge_submissions
		WHERE user_id = $1 AND created_at >= $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to list attempted challenge IDs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
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

// WithTx implements store.SubmissionStore.WithTx
func (s *PostgresSubmissionStore) WithTx(tx *sql.Tx) store.SubmissionStore {
	return &PostgresSubmissionStore{
		db:     tx,
		logger: s.logger,
	}
}

// querySubmissions runs a submission query and scans the result rows.
func (s *PostgresSubmissionStore) querySubmissions(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.ChallengeSubmission, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query submissions", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var submissions []*domain.ChallengeSubmission
	for rows.Next() {
		var sub domain.ChallengeSubmission
		var content []byte
		if err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.ChallengeID,
			&sub.ChallengeType,
			&sub.Difficulty,
			&sub.IsCorrect,
			&sub.TimeSpentSeconds,
			&sub.XPEarned,
			&content,
			&sub.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		sub.Content = content
		submissions = append(submissions, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return submissions, nil
}

// nullableJSON converts empty payloads to NULL so the jsonb column does not
// reject empty strings.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
