package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/store"
)

// MockReadingEventStore mocks the store.ReadingEventStore interface
type MockReadingEventStore struct {
	mock.Mock
}

func (m *MockReadingEventStore) Create(ctx context.Context, event *domain.ReadingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReadingEventStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.ReadingEvent, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReadingEvent), args.Error(1)
}

// MockSubmissionStore mocks the store.SubmissionStore interface
type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) Create(ctx context.Context, submission *domain.ChallengeSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.ChallengeSubmission, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChallengeSubmission), args.Error(1)
}

func (m *MockSubmissionStore) ListRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.ChallengeSubmission, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChallengeSubmission), args.Error(1)
}

func (m *MockSubmissionStore) ListAttemptedChallengeIDs(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSubmissionStore) WithTx(tx *sql.Tx) store.SubmissionStore {
	args := m.Called(tx)
	return args.Get(0).(store.SubmissionStore)
}

// MockChallengeStore mocks the store.ChallengeStore interface
type MockChallengeStore struct {
	mock.Mock
}

func (m *MockChallengeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challenge), args.Error(1)
}

func (m *MockChallengeStore) ListActive(ctx context.Context) ([]*domain.Challenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Challenge), args.Error(1)
}

// MockStatsStore mocks the store.StatsStore interface
type MockStatsStore struct {
	mock.Mock
}

func (m *MockStatsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserChallengeStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserChallengeStats), args.Error(1)
}

func (m *MockStatsStore) Upsert(ctx context.Context, stats *domain.UserChallengeStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockStatsStore) ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStatsStore) WithTx(tx *sql.Tx) store.StatsStore {
	args := m.Called(tx)
	return args.Get(0).(store.StatsStore)
}

// MockScoreHistoryStore mocks the store.ScoreHistoryStore interface
type MockScoreHistoryStore struct {
	mock.Mock
}

func (m *MockScoreHistoryStore) Create(ctx context.Context, row *domain.EchoScoreHistory) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockScoreHistoryStore) ListRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.EchoScoreHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EchoScoreHistory), args.Error(1)
}

func (m *MockScoreHistoryStore) GetLatestByUser(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.EchoScoreHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EchoScoreHistory), args.Error(1)
}

func (m *MockScoreHistoryStore) WithTx(tx *sql.Tx) store.ScoreHistoryStore {
	args := m.Called(tx)
	return args.Get(0).(store.ScoreHistoryStore)
}

// MockSelectionStore mocks the store.SelectionStore interface
type MockSelectionStore struct {
	mock.Mock
}

func (m *MockSelectionStore) Create(ctx context.Context, selection *domain.DailyChallengeSelection) error {
	args := m.Called(ctx, selection)
	return args.Error(0)
}

func (m *MockSelectionStore) GetByUserAndDate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.DailyChallengeSelection, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyChallengeSelection), args.Error(1)
}

func (m *MockSelectionStore) ListRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.DailyChallengeSelection, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailyChallengeSelection), args.Error(1)
}

func (m *MockSelectionStore) WithTx(tx *sql.Tx) store.SelectionStore {
	args := m.Called(tx)
	return args.Get(0).(store.SelectionStore)
}

// MockReferenceMedianStore mocks the store.ReferenceMedianStore interface
type MockReferenceMedianStore struct {
	mock.Mock
}

func (m *MockReferenceMedianStore) GetAll(ctx context.Context) (map[domain.ChallengeType]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ChallengeType]float64), args.Error(1)
}

// MockScoreService mocks the ScoreService interface
type MockScoreService struct {
	mock.Mock
}

func (m *MockScoreService) ComputeScore(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	trigger string,
) (*domain.EchoScoreHistory, error) {
	args := m.Called(ctx, userID, now, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EchoScoreHistory), args.Error(1)
}

func (m *MockScoreService) LatestScore(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.EchoScoreHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EchoScoreHistory), args.Error(1)
}

// MockMetricExtractor mocks the MetricExtractor interface
type MockMetricExtractor struct {
	mock.Mock
}

func (m *MockMetricExtractor) Extract(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	windowDays int,
) (*ActivityWindow, error) {
	args := m.Called(ctx, userID, now, windowDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ActivityWindow), args.Error(1)
}
