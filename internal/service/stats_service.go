package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// StatsService owns the UserChallengeStats rollup: every submission flows
// through RecordSubmission, which applies the pure reducer under the
// per-user lock and writes submission and rollup in one transaction. No
// other writer touches the rollup.
type StatsService interface {
	// RecordSubmission persists the submission and folds it into the
	// user's stats rollup, returning the updated rollup.
	RecordSubmission(
		ctx context.Context,
		submission *domain.ChallengeSubmission,
	) (*domain.UserChallengeStats, error)

	// GetStats returns the user's current rollup, or a fresh empty rollup
	// for a user who has never submitted.
	GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserChallengeStats, error)
}

// statsService is the store-backed StatsService implementation.
type statsService struct {
	db          *sql.DB
	submissions store.SubmissionStore
	stats       store.StatsStore
	locker      *UserLocker
	logger      *slog.Logger
}

// NewStatsService creates a StatsService. The locker must be shared with
// the score and selection services. If logger is nil, a default logger
// will be used.
func NewStatsService(
	db *sql.DB,
	submissions store.SubmissionStore,
	stats store.StatsStore,
	locker *UserLocker,
	logger *slog.Logger,
) StatsService {
	if locker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("locker cannot be nil for StatsService")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &statsService{
		db:          db,
		submissions: submissions,
		stats:       stats,
		locker:      locker,
		logger:      logger.With(slog.String("component", "stats_service")),
	}
}

// RecordSubmission implements StatsService.
func (s *statsService) RecordSubmission(
	ctx context.Context,
	submission *domain.ChallengeSubmission,
) (*domain.UserChallengeStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := submission.Validate(); err != nil {
		return nil, NewRecordSubmissionError("validating submission", err)
	}

	unlock := s.locker.Lock(submission.UserID)
	defer unlock()

	current, err := s.currentStats(ctx, submission.UserID)
	if err != nil {
		return nil, NewRecordSubmissionError("loading current stats", err)
	}

	next := current.ApplySubmission(submission)

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.submissions.WithTx(tx).Create(ctx, submission); err != nil {
			return err
		}
		return s.stats.WithTx(tx).Upsert(ctx, next)
	})
	if err != nil {
		return nil, NewRecordSubmissionError("persisting submission and stats", err)
	}

	log.Info("submission recorded",
		slog.String("user_id", submission.UserID.String()),
		slog.String("challenge_type", string(submission.ChallengeType)),
		slog.Bool("is_correct", submission.IsCorrect),
		slog.Int("current_streak", next.CurrentStreak))
	return next, nil
}

// GetStats implements StatsService.
func (s *statsService) GetStats(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.UserChallengeStats, error) {
	stats, err := s.stats.Get(ctx, userID)
	if errors.Is(err, store.ErrStatsNotFound) {
		return domain.NewUserChallengeStats(userID)
	}
	return stats, err
}

// currentStats loads the rollup, substituting an empty one for first-time
// users.
func (s *statsService) currentStats(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.UserChallengeStats, error) {
	stats, err := s.stats.Get(ctx, userID)
	if errors.Is(err, store.ErrStatsNotFound) {
		return domain.NewUserChallengeStats(userID)
	}
	return stats, err
}
