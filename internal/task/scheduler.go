package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/service"
)

// SchedulerConfig holds configuration for the batch scheduler.
type SchedulerConfig struct {
	// Schedule is a standard 5-field cron expression.
	Schedule string

	// ActiveWindowDays limits each run to users active within the window.
	ActiveWindowDays int

	// RunTimeout bounds one batch run. If zero, defaults to one hour.
	RunTimeout time.Duration
}

// Scheduler triggers the nightly batch scoring run on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	scorer *service.BatchScorer
	config SchedulerConfig
	logger *slog.Logger
}

// NewScheduler creates a Scheduler. If logger is nil, a default logger will
// be used.
func NewScheduler(
	scorer *service.BatchScorer,
	config SchedulerConfig,
	logger *slog.Logger,
) *Scheduler {
	if config.RunTimeout == 0 {
		config.RunTimeout = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:   cron.New(),
		scorer: scorer,
		config: config,
		logger: logger.With(slog.String("component", "batch_scheduler")),
	}
}

// Start registers the batch job and starts the cron loop. It returns an
// error only when the schedule expression does not parse.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.config.Schedule, s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("batch scheduler started",
		slog.String("schedule", s.config.Schedule))
	return nil
}

// Stop stops the cron loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("batch scheduler stopped")
}

// runOnce executes one scheduled batch run. Failures are logged; the next
// scheduled run still fires.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.RunTimeout)
	defer cancel()
	ctx = logger.WithLogger(ctx, s.logger)

	now := time.Now().UTC()
	activeSince := now.AddDate(0, 0, -s.config.ActiveWindowDays)

	result, err := s.scorer.Run(ctx, activeSince, now)
	if err != nil {
		s.logger.Error("scheduled batch run failed",
			slog.String("error", err.Error()))
		return
	}

	s.logger.Info("scheduled batch run complete",
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))
}
