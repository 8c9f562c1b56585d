package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/burstlabs/burst-api/internal/domain"
)

// MockScoreService mocks the service.ScoreService interface
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

// MockSelectionService mocks the service.SelectionService interface
type MockSelectionService struct {
	mock.Mock
}

func (m *MockSelectionService) SelectDaily(
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

// MockStatsService mocks the service.StatsService interface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) RecordSubmission(
	ctx context.Context,
	submission *domain.ChallengeSubmission,
) (*domain.UserChallengeStats, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserChallengeStats), args.Error(1)
}

func (m *MockStatsService) GetStats(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.UserChallengeStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserChallengeStats), args.Error(1)
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
