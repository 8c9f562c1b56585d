package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/domain/echo"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/platform/metrics"
	"github.com/burstlabs/burst-api/internal/store"
)

// Scoring run triggers, recorded on instrumentation only.
const (
	TriggerOnDemand = "on_demand"
	TriggerBatch    = "batch"
)

// ScoreService runs Echo Score computations: it assembles the scorer inputs
// through the metric extractor and stores, invokes the pure computation, and
// appends the resulting history row.
type ScoreService interface {
	// ComputeScore runs one scoring run for the user at the given instant
	// and persists the resulting row. trigger is "on_demand" or "batch"
	// and only feeds instrumentation. A user with no activity still gets
	// a valid row built from default scores.
	ComputeScore(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		trigger string,
	) (*domain.EchoScoreHistory, error)

	// LatestScore returns the user's most recent persisted score row.
	// Returns store.ErrScoreNotFound for a never-scored user; the API
	// layer maps that to a zero score rather than an error.
	LatestScore(ctx context.Context, userID uuid.UUID) (*domain.EchoScoreHistory, error)
}

// scoreService is the store-backed ScoreService implementation.
type scoreService struct {
	extractor  MetricExtractor
	stats      store.StatsStore
	history    store.ScoreHistoryStore
	reference  store.ReferenceMedianStore
	calculator echo.Service
	locker     *UserLocker
	windowDays int
	trendDepth int
	logger     *slog.Logger
}

// NewScoreService creates a ScoreService. The locker must be the same
// instance used by the other per-user services so all work for one user
// serializes on one lock. If logger is nil, a default logger will be used.
func NewScoreService(
	extractor MetricExtractor,
	stats store.StatsStore,
	history store.ScoreHistoryStore,
	reference store.ReferenceMedianStore,
	calculator echo.Service,
	locker *UserLocker,
	windowDays int,
	trendDepth int,
	logger *slog.Logger,
) ScoreService {
	if locker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("locker cannot be nil for ScoreService")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &scoreService{
		extractor:  extractor,
		stats:      stats,
		history:    history,
		reference:  reference,
		calculator: calculator,
		locker:     locker,
		windowDays: windowDays,
		trendDepth: trendDepth,
		logger:     logger.With(slog.String("component", "score_service")),
	}
}

// ComputeScore implements ScoreService.
func (s *scoreService) ComputeScore(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	trigger string,
) (*domain.EchoScoreHistory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	started := time.Now()

	unlock := s.locker.Lock(userID)
	defer unlock()

	row, err := s.computeLocked(ctx, userID, now, log)
	metrics.ObserveScoringRun(trigger, err, time.Since(started))
	if err != nil {
		return nil, err
	}

	log.Info("echo score computed",
		slog.String("user_id", userID.String()),
		slog.String("trigger", trigger),
		slog.Float64("total_score", row.TotalScore))
	return row, nil
}

func (s *scoreService) computeLocked(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	log *slog.Logger,
) (*domain.EchoScoreHistory, error) {
	window, err := s.extractor.Extract(ctx, userID, now, s.windowDays)
	if err != nil && !errors.Is(err, domain.ErrInsufficientData) {
		return nil, NewComputeScoreError("extracting activity window", err)
	}
	if errors.Is(err, domain.ErrInsufficientData) {
		// Valid low-confidence state: score from an empty window.
		log.Debug("scoring with defaults",
			slog.String("user_id", userID.String()))
	}

	streak := 0
	userStats, err := s.stats.Get(ctx, userID)
	switch {
	case err == nil:
		// A lapsed streak counts as 0 even though the stored value only
		// resets on the next submission.
		streak = userStats.EffectiveStreak(now)
	case errors.Is(err, store.ErrStatsNotFound):
		// New user: streak stays 0.
	default:
		return nil, NewComputeScoreError("loading user stats", err)
	}

	history, err := s.history.ListRecentByUser(ctx, userID, s.trendDepth)
	if err != nil {
		return nil, NewComputeScoreError("loading score history", err)
	}

	reference, err := s.reference.GetAll(ctx)
	if err != nil {
		return nil, NewComputeScoreError("loading reference medians", err)
	}

	row, err := s.calculator.CalculateScore(echo.ScoreInputs{
		UserID:        userID,
		ScoreDate:     now,
		ReadingEvents: window.ReadingEvents,
		Submissions:   window.Submissions,
		CurrentStreak: streak,
		History:       history,
		Reference:     reference,
	})
	if err != nil {
		return nil, NewComputeScoreError("calculating score", err)
	}

	if err := s.history.Create(ctx, row); err != nil {
		return nil, NewComputeScoreError("persisting score row", err)
	}

	return row, nil
}

// LatestScore implements ScoreService.
func (s *scoreService) LatestScore(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.EchoScoreHistory, error) {
	return s.history.GetLatestByUser(ctx, userID)
}
