package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/burstlabs/burst-api/internal/config"
	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/domain/echo"
	"github.com/burstlabs/burst-api/internal/domain/selector"
	"github.com/burstlabs/burst-api/internal/platform/metrics"
	"github.com/burstlabs/burst-api/internal/platform/postgres"
	"github.com/burstlabs/burst-api/internal/service"
	"github.com/burstlabs/burst-api/internal/store"
	"github.com/burstlabs/burst-api/internal/task"
)

// application holds the wired dependencies of one server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	challengeStore store.ChallengeStore

	scoreService     service.ScoreService
	statsService     service.StatsService
	selectionService service.SelectionService
	scheduler        *task.Scheduler
}

// newApplication wires stores, domain services, and the batch scheduler
// from configuration. All per-user services share one UserLocker so work
// for a single user serializes on a single lock.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	metrics.Register()

	eventStore := postgres.NewPostgresReadingEventStore(db, logger)
	submissionStore := postgres.NewPostgresSubmissionStore(db, logger)
	challengeStore := postgres.NewPostgresChallengeStore(db, logger)
	statsStore := postgres.NewPostgresStatsStore(db, logger)
	historyStore := postgres.NewPostgresScoreHistoryStore(db, logger)
	selectionStore := postgres.NewPostgresSelectionStore(db, logger)
	referenceStore := postgres.NewPostgresReferenceMedianStore(db, logger)

	scoringParams, err := echo.NewParams(echo.ParamsConfig{
		WindowDays:        cfg.Scoring.WindowDays,
		DiversityWeight:   cfg.Scoring.DiversityWeight,
		AccuracyWeight:    cfg.Scoring.AccuracyWeight,
		SwitchSpeedWeight: cfg.Scoring.SwitchSpeedWeight,
		ConsistencyWeight: cfg.Scoring.ConsistencyWeight,
		ImprovementWeight: cfg.Scoring.ImprovementWeight,
		StreakCapDays:     cfg.Scoring.StreakCapDays,
		TrendMaxPoints:    cfg.Scoring.TrendMaxPoints,
		TrendSigmoidK:     cfg.Scoring.TrendSigmoidK,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scoring parameters: %w", err)
	}

	calculator, err := echo.NewServiceWithParams(scoringParams)
	if err != nil {
		return nil, fmt.Errorf("building score calculator: %w", err)
	}

	ladder := make([]domain.Difficulty, len(cfg.Selection.DifficultyLevels))
	for i, level := range cfg.Selection.DifficultyLevels {
		ladder[i] = domain.Difficulty(level)
	}

	selectorParams, err := selector.NewParams(selector.ParamsConfig{
		DifficultyLevels:           ladder,
		MinAttemptsForWeakArea:     cfg.Selection.MinAttemptsForWeakArea,
		WeakAreaCooldownSelections: cfg.Selection.WeakAreaCooldownSelections,
		PromotionAccuracyThreshold: cfg.Selection.PromotionAccuracyThreshold,
		PromotionSampleCount:       cfg.Selection.PromotionSampleCount,
		NoRepeatDays:               cfg.Selection.NoRepeatDays,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid selection parameters: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	policy, err := selector.New(selectorParams, rng)
	if err != nil {
		return nil, fmt.Errorf("building selection policy: %w", err)
	}

	locker := service.NewUserLocker()
	extractor := service.NewMetricExtractor(eventStore, submissionStore, logger)

	scoreService := service.NewScoreService(
		extractor,
		statsStore,
		historyStore,
		referenceStore,
		calculator,
		locker,
		scoringParams.WindowDays,
		scoringParams.TrendMaxPoints,
		logger,
	)
	statsService := service.NewStatsService(db, submissionStore, statsStore, locker, logger)
	selectionService := service.NewSelectionService(
		challengeStore,
		submissionStore,
		selectionStore,
		statsStore,
		policy,
		selectorParams,
		locker,
		logger,
	)

	batchScorer := service.NewBatchScorer(
		statsStore, scoreService, cfg.Batch.Parallelism, logger)
	scheduler := task.NewScheduler(batchScorer, task.SchedulerConfig{
		Schedule:         cfg.Batch.Schedule,
		ActiveWindowDays: cfg.Batch.ActiveWindowDays,
	}, logger)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		challengeStore:   challengeStore,
		scoreService:     scoreService,
		statsService:     statsService,
		selectionService: selectionService,
		scheduler:        scheduler,
	}, nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	app.scheduler.Stop()
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
