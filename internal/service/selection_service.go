package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/domain/selector"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/platform/metrics"
	"github.com/burstlabs/burst-api/internal/store"
)

// SelectionService produces the challenge of the day. Calling it twice for
// the same user and day returns the same selection: an existing row always
// wins, both via the fast-path read and via the database unique constraint
// when two runs race on day rollover.
type SelectionService interface {
	// SelectDaily returns the user's selection for the given day,
	// creating it via the decision policy if none exists yet.
	SelectDaily(
		ctx context.Context,
		userID uuid.UUID,
		date time.Time,
	) (*domain.DailyChallengeSelection, error)
}

// selectionService is the store-backed SelectionService implementation.
type selectionService struct {
	challenges  store.ChallengeStore
	submissions store.SubmissionStore
	selections  store.SelectionStore
	stats       store.StatsStore
	policy      *selector.Selector
	locker      *UserLocker
	params      *selector.Params
	logger      *slog.Logger
}

// NewSelectionService creates a SelectionService. The locker must be shared
// with the score and stats services. If logger is nil, a default logger
// will be used.
func NewSelectionService(
	challenges store.ChallengeStore,
	submissions store.SubmissionStore,
	selections store.SelectionStore,
	stats store.StatsStore,
	policy *selector.Selector,
	params *selector.Params,
	locker *UserLocker,
	logger *slog.Logger,
) SelectionService {
	if locker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("locker cannot be nil for SelectionService")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &selectionService{
		challenges:  challenges,
		submissions: submissions,
		selections:  selections,
		stats:       stats,
		policy:      policy,
		params:      params,
		locker:      locker,
		logger:      logger.With(slog.String("component", "selection_service")),
	}
}

// SelectDaily implements SelectionService.
func (s *selectionService) SelectDaily(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.DailyChallengeSelection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	day := domain.DateOf(date)

	// Fast path: today's selection already exists.
	existing, err := s.selections.GetByUserAndDate(ctx, userID, day)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrSelectionNotFound) {
		return nil, NewSelectDailyError("reading existing selection", err)
	}

	unlock := s.locker.Lock(userID)
	defer unlock()

	// Re-check under the lock: another in-process call may have won.
	existing, err = s.selections.GetByUserAndDate(ctx, userID, day)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrSelectionNotFound) {
		return nil, NewSelectDailyError("reading existing selection", err)
	}

	decision, err := s.decide(ctx, userID, day, log)
	if err != nil {
		return nil, err
	}

	selection, err := domain.NewDailyChallengeSelection(
		userID,
		decision.Challenge.ID,
		day,
		decision.Reason,
		decision.DifficultyAdjustment,
	)
	if err != nil {
		return nil, NewSelectDailyError("building selection row", err)
	}

	if err := s.selections.Create(ctx, selection); err != nil {
		if errors.Is(err, store.ErrSelectionExists) {
			// Lost the cross-process race; the winning row is the
			// selection of the day.
			log.Debug("lost selection race, returning existing row",
				slog.String("user_id", userID.String()))
			return s.selections.GetByUserAndDate(ctx, userID, day)
		}
		return nil, NewSelectDailyError("persisting selection", err)
	}

	metrics.ObserveSelection(string(selection.SelectionReason))
	return selection, nil
}

// decide assembles the policy inputs and runs the decision, relaxing the
// no-repeat constraint when every candidate was attempted recently.
func (s *selectionService) decide(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
	log *slog.Logger,
) (*selector.Decision, error) {
	candidates, err := s.challenges.ListActive(ctx)
	if err != nil {
		return nil, NewSelectDailyError("listing active challenges", err)
	}

	var stats *domain.UserChallengeStats
	stats, err = s.stats.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrStatsNotFound) {
			return nil, NewSelectDailyError("loading user stats", err)
		}
		stats = nil // brand-new user
	}

	recent, err := s.submissions.ListRecentByUser(ctx, userID, s.params.PromotionSampleCount)
	if err != nil {
		return nil, NewSelectDailyError("loading recent submissions", err)
	}

	attemptedIDs, err := s.submissions.ListAttemptedChallengeIDs(
		ctx, userID, day.AddDate(0, 0, -s.params.NoRepeatDays))
	if err != nil {
		return nil, NewSelectDailyError("loading attempted challenges", err)
	}
	attempted := make(map[uuid.UUID]struct{}, len(attemptedIDs))
	for _, id := range attemptedIDs {
		attempted[id] = struct{}{}
	}

	selectionTypes, err := s.recentSelectionTypes(ctx, userID)
	if err != nil {
		return nil, err
	}

	inputs := selector.Inputs{
		Stats:                stats,
		Day:                  day,
		RecentSubmissions:    recent,
		RecentSelectionTypes: selectionTypes,
		Candidates:           candidates,
		RecentlyAttempted:    attempted,
	}

	decision, err := s.policy.Decide(inputs)
	if errors.Is(err, domain.ErrNoEligibleChallenge) {
		// Every active challenge was attempted recently. Allowing a
		// repeat beats leaving the user without a daily challenge.
		log.Warn("no unattempted challenge available, allowing repeats",
			slog.String("user_id", userID.String()))
		metrics.ObserveRepeatFallback()

		inputs.RecentlyAttempted = nil
		decision, err = s.policy.Decide(inputs)
	}
	if err != nil {
		return nil, NewSelectDailyError("running decision policy", err)
	}

	return decision, nil
}

// recentSelectionTypes resolves the challenge types of the user's most
// recent selections, newest first, for the weak-area cooldown check.
func (s *selectionService) recentSelectionTypes(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.ChallengeType, error) {
	selections, err := s.selections.ListRecentByUser(
		ctx, userID, s.params.WeakAreaCooldownSelections)
	if err != nil {
		return nil, NewSelectDailyError("loading recent selections", err)
	}

	types := make([]domain.ChallengeType, 0, len(selections))
	for _, sel := range selections {
		challenge, err := s.challenges.GetByID(ctx, sel.SelectedChallengeID)
		if err != nil {
			if errors.Is(err, store.ErrChallengeNotFound) {
				// Retired challenge; its type no longer matters.
				continue
			}
			return nil, NewSelectDailyError("resolving selected challenge", err)
		}
		types = append(types, challenge.Type)
	}
	return types, nil
}
