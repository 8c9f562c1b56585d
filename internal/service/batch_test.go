package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/burstlabs/burst-api/internal/domain"
)

func TestBatchRunCountsOutcomes(t *testing.T) {
	t.Parallel()

	stats := new(MockStatsStore)
	scores := new(MockScoreService)

	good := uuid.New()
	sparse := uuid.New()
	broken := uuid.New()
	now := time.Date(2025, 8, 15, 3, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -30)

	stats.On("ListActiveUserIDs", mock.Anything, cutoff).
		Return([]uuid.UUID{good, sparse, broken}, nil).Once()
	scores.On("ComputeScore", mock.Anything, good, now, TriggerBatch).
		Return(&domain.EchoScoreHistory{UserID: good, TotalScore: 62.5}, nil).Once()
	// A user with no activity gets a default row, not an error, so the
	// run counts them as succeeded.
	scores.On("ComputeScore", mock.Anything, sparse, now, TriggerBatch).
		Return(&domain.EchoScoreHistory{UserID: sparse, ImprovementScore: 50}, nil).Once()
	scores.On("ComputeScore", mock.Anything, broken, now, TriggerBatch).
		Return(nil, errors.New("connection reset")).Once()

	scorer := NewBatchScorer(stats, scores, 4, nil)
	result, err := scorer.Run(context.Background(), cutoff, now)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Users)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	scores.AssertExpectations(t)
}

func TestBatchRunOneFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	stats := new(MockStatsStore)
	scores := new(MockScoreService)

	userIDs := make([]uuid.UUID, 10)
	for i := range userIDs {
		userIDs[i] = uuid.New()
	}
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -30)

	stats.On("ListActiveUserIDs", mock.Anything, cutoff).Return(userIDs, nil).Once()

	// The first user fails; the remaining nine must still be scored.
	scores.On("ComputeScore", mock.Anything, userIDs[0], now, TriggerBatch).
		Return(nil, errors.New("deadlock detected")).Once()
	for _, id := range userIDs[1:] {
		scores.On("ComputeScore", mock.Anything, id, now, TriggerBatch).
			Return(&domain.EchoScoreHistory{UserID: id}, nil).Once()
	}

	scorer := NewBatchScorer(stats, scores, 3, nil)
	result, err := scorer.Run(context.Background(), cutoff, now)
	require.NoError(t, err)

	assert.Equal(t, 9, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	scores.AssertExpectations(t)
}

func TestBatchRunRespectsParallelismBound(t *testing.T) {
	t.Parallel()

	stats := new(MockStatsStore)
	scores := new(MockScoreService)

	userIDs := make([]uuid.UUID, 20)
	for i := range userIDs {
		userIDs[i] = uuid.New()
	}
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -30)

	stats.On("ListActiveUserIDs", mock.Anything, cutoff).Return(userIDs, nil).Once()

	var inFlight, peak atomic.Int64
	scores.On("ComputeScore", mock.Anything, mock.Anything, now, TriggerBatch).
		Run(func(mock.Arguments) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
		}).
		Return(&domain.EchoScoreHistory{}, nil).Times(len(userIDs))

	scorer := NewBatchScorer(stats, scores, 4, nil)
	_, err := scorer.Run(context.Background(), cutoff, now)
	require.NoError(t, err)

	assert.LessOrEqual(t, peak.Load(), int64(4))
}

func TestBatchRunListFailure(t *testing.T) {
	t.Parallel()

	stats := new(MockStatsStore)
	scores := new(MockScoreService)
	dbErr := errors.New("relation does not exist")

	stats.On("ListActiveUserIDs", mock.Anything, mock.Anything).
		Return(nil, dbErr).Once()

	scorer := NewBatchScorer(stats, scores, 4, nil)
	_, err := scorer.Run(context.Background(), time.Now().AddDate(0, 0, -30), time.Now())
	assert.ErrorIs(t, err, dbErr)
	scores.AssertNotCalled(t, "ComputeScore",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNewBatchScorerClampsParallelism(t *testing.T) {
	t.Parallel()

	scorer := NewBatchScorer(new(MockStatsStore), new(MockScoreService), 0, nil)
	assert.Equal(t, 1, scorer.parallelism)
}
