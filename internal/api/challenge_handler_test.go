package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/service"
	"github.com/burstlabs/burst-api/internal/store"
)

type challengeFixture struct {
	selections *MockSelectionService
	stats      *MockStatsService
	challenges *MockChallengeStore
	router     http.Handler
}

func newChallengeFixture() *challengeFixture {
	f := &challengeFixture{
		selections: new(MockSelectionService),
		stats:      new(MockStatsService),
		challenges: new(MockChallengeStore),
	}

	h := NewChallengeHandler(f.selections, f.stats, f.challenges, slog.Default())
	r := chi.NewRouter()
	r.Get("/users/{userID}/daily-challenge", h.GetDailyChallenge)
	r.Get("/users/{userID}/challenge-stats", h.GetChallengeStats)
	r.Post("/users/{userID}/submissions", h.SubmitChallenge)
	f.router = r
	return f
}

func factCheckChallenge() *domain.Challenge {
	return &domain.Challenge{
		ID:         uuid.New(),
		Type:       domain.ChallengeFactCheck,
		Difficulty: domain.DifficultyIntermediate,
		Prompt:     "Is this claim accurate?",
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestGetDailyChallenge(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()
	challenge := factCheckChallenge()
	selection := &domain.DailyChallengeSelection{
		ID:                  uuid.New(),
		UserID:              userID,
		SelectedChallengeID: challenge.ID,
		SelectionDate:       time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		SelectionReason:     domain.ReasonWeakSkillArea,
		CreatedAt:           time.Now().UTC(),
	}

	f.selections.On("SelectDaily", mock.Anything, userID, mock.Anything).
		Return(selection, nil).Once()
	f.challenges.On("GetByID", mock.Anything, challenge.ID).
		Return(challenge, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/daily-challenge", nil)
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DailyChallengeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, challenge.ID.String(), resp.Challenge.ID)
	assert.Equal(t, "fact_check", resp.Challenge.Type)
	assert.Equal(t, "weak_skill_area", resp.SelectionReason)
	assert.Equal(t, "2025-08-15", resp.SelectionDate)
}

func TestGetDailyChallengeExhaustedPool(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()

	f.selections.On("SelectDaily", mock.Anything, userID, mock.Anything).
		Return(nil, service.NewSelectDailyError("running decision policy",
			domain.ErrNoEligibleChallenge)).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/daily-challenge", nil)
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetChallengeStats(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()

	today := domain.DateOf(time.Now().UTC())
	stats, err := domain.NewUserChallengeStats(userID)
	require.NoError(t, err)
	stats.TotalCompleted = 10
	stats.TotalCorrect = 7
	stats.CurrentStreak = 4
	stats.LongestStreak = 6
	stats.LastChallengeDate = today

	f.stats.On("GetStats", mock.Anything, userID).Return(stats, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/challenge-stats", nil)
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChallengeStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.TotalCompleted)
	assert.InDelta(t, 0.7, resp.OverallAccuracy, 1e-9)
	assert.Equal(t, 4, resp.CurrentStreak)
	assert.Equal(t, today.Format("2006-01-02"), resp.LastChallengeDate)
}

func TestGetChallengeStatsLapsedStreakShowsZero(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()

	stats, err := domain.NewUserChallengeStats(userID)
	require.NoError(t, err)
	stats.CurrentStreak = 9
	stats.LongestStreak = 9
	stats.TotalCompleted = 9
	stats.TotalCorrect = 9
	stats.LastChallengeDate = domain.DateOf(time.Now().UTC()).AddDate(0, 0, -5)

	f.stats.On("GetStats", mock.Anything, userID).Return(stats, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/challenge-stats", nil)
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChallengeStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.CurrentStreak)
	assert.Equal(t, 9, resp.LongestStreak)
}

func TestGetChallengeStatsNewUser(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()

	empty, err := domain.NewUserChallengeStats(userID)
	require.NoError(t, err)

	f.stats.On("GetStats", mock.Anything, userID).Return(empty, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/challenge-stats", nil)
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChallengeStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.TotalCompleted)
	assert.Empty(t, resp.LastChallengeDate)
}

func submitBody(challengeID uuid.UUID) string {
	return fmt.Sprintf(`{
		"challengeId": %q,
		"correct": true,
		"timeTakenSeconds": 95,
		"content": {"verdict": "misleading", "evidence": "archived copy differs"}
	}`, challengeID)
}

func TestSubmitChallenge(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()
	challenge := factCheckChallenge()

	f.challenges.On("GetByID", mock.Anything, challenge.ID).
		Return(challenge, nil).Once()

	updated, err := domain.NewUserChallengeStats(userID)
	require.NoError(t, err)
	updated.CurrentStreak = 3
	updated.LongestStreak = 8

	var recorded *domain.ChallengeSubmission
	f.stats.On("RecordSubmission", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.ChallengeSubmission)
		}).
		Return(updated, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID.String()+"/submissions",
		strings.NewReader(submitBody(challenge.ID)))
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, recorded)

	// The submission inherits type and difficulty from the challenge row,
	// not from anything the client sent.
	assert.Equal(t, domain.ChallengeFactCheck, recorded.ChallengeType)
	assert.Equal(t, domain.DifficultyIntermediate, recorded.Difficulty)
	assert.Equal(t, userID, recorded.UserID)
	assert.Equal(t, 20, recorded.XPEarned)

	var resp SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, recorded.ID.String(), resp.SubmissionID)
	assert.Equal(t, 3, resp.CurrentStreak)
	assert.Equal(t, 8, resp.LongestStreak)
}

func TestSubmitChallengeUnknownChallenge(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()
	challengeID := uuid.New()

	f.challenges.On("GetByID", mock.Anything, challengeID).
		Return(nil, store.ErrChallengeNotFound).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID.String()+"/submissions",
		strings.NewReader(submitBody(challengeID)))
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.stats.AssertNotCalled(t, "RecordSubmission", mock.Anything, mock.Anything)
}

func TestSubmitChallengeMalformedBody(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID.String()+"/submissions",
		strings.NewReader(`{"challengeId":`))
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitChallengeRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "zero time taken",
			body: fmt.Sprintf(`{
				"challengeId": %q,
				"correct": true,
				"timeTakenSeconds": 0,
				"content": {"verdict": "accurate", "evidence": "primary source"}
			}`, uuid.New()),
		},
		{
			name: "missing challenge id",
			body: `{
				"correct": true,
				"timeTakenSeconds": 30,
				"content": {"verdict": "accurate", "evidence": "primary source"}
			}`,
		},
		{
			name: "non-uuid challenge id",
			body: `{
				"challengeId": "not-a-uuid",
				"correct": true,
				"timeTakenSeconds": 30,
				"content": {"verdict": "accurate", "evidence": "primary source"}
			}`,
		},
		{
			name: "missing content",
			body: fmt.Sprintf(`{
				"challengeId": %q,
				"correct": true,
				"timeTakenSeconds": 30
			}`, uuid.New()),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newChallengeFixture()
			userID := uuid.New()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users/"+userID.String()+"/submissions",
				strings.NewReader(tc.body))
			f.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			f.challenges.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			f.stats.AssertNotCalled(t, "RecordSubmission", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitChallengeContentTypeMismatch(t *testing.T) {
	t.Parallel()

	f := newChallengeFixture()
	userID := uuid.New()
	challenge := factCheckChallenge()

	f.challenges.On("GetByID", mock.Anything, challenge.ID).
		Return(challenge, nil).Once()

	// A perspective-swap payload against a fact-check challenge.
	body := fmt.Sprintf(`{
		"challengeId": %q,
		"correct": true,
		"timeTakenSeconds": 60,
		"content": {"counter_argument": "the opposing view holds that..."}
	}`, challenge.ID)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID.String()+"/submissions",
		strings.NewReader(body))
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.stats.AssertNotCalled(t, "RecordSubmission", mock.Anything, mock.Anything)
}
