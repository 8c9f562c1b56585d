package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// BatchResult summarizes one nightly scoring run. A user with no activity
// in the window still succeeds: the score service persists a default row
// for them rather than erroring.
type BatchResult struct {
	Users     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// BatchScorer recomputes Echo Scores for every user with recent activity.
// One user's failure never aborts the run; it is logged and counted.
type BatchScorer struct {
	stats       store.StatsStore
	scores      ScoreService
	parallelism int
	logger      *slog.Logger
}

// NewBatchScorer creates a BatchScorer. parallelism bounds the number of
// users scored concurrently; values below 1 are treated as 1.
func NewBatchScorer(
	stats store.StatsStore,
	scores ScoreService,
	parallelism int,
	logger *slog.Logger,
) *BatchScorer {
	if parallelism < 1 {
		parallelism = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BatchScorer{
		stats:       stats,
		scores:      scores,
		parallelism: parallelism,
		logger:      logger.With(slog.String("component", "batch_scorer")),
	}
}

// Run scores all users active since the given cutoff. It returns a non-nil
// BatchResult even when some users fail; the error is non-nil only when the
// run could not start or the context was cancelled.
func (b *BatchScorer) Run(
	ctx context.Context,
	activeSince time.Time,
	now time.Time,
) (*BatchResult, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)
	start := time.Now()

	userIDs, err := b.stats.ListActiveUserIDs(ctx, activeSince)
	if err != nil {
		return nil, NewComputeScoreError("listing active users", err)
	}

	log.Info("starting batch scoring run",
		slog.Int("users", len(userIDs)),
		slog.Int("parallelism", b.parallelism))

	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)
	for _, userID := range userIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := b.scoreOne(gctx, userID, now); err != nil {
				failed.Add(1)
				log.Error("batch scoring failed for user",
					slog.String("user_id", userID.String()),
					slog.String("error", err.Error()))
			} else {
				succeeded.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{
		Users:     len(userIDs),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Elapsed:   time.Since(start),
	}

	log.Info("batch scoring run finished",
		slog.Int("users", result.Users),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
		slog.Duration("elapsed", result.Elapsed))

	return result, nil
}

func (b *BatchScorer) scoreOne(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) error {
	_, err := b.scores.ComputeScore(ctx, userID, now, TriggerBatch)
	return err
}
