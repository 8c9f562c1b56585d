package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// PostgresChallengeStore implements the store.ChallengeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresChallengeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChallengeStore creates a new PostgreSQL implementation of the
// ChallengeStore interface. If logger is nil, a default logger will be used.
func NewPostgresChallengeStore(db store.DBTX, logger *slog.Logger) *PostgresChallengeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChallengeStore{
		db:     db,
		logger: logger.With(slog.String("component", "challenge_store")),
	}
}

// Ensure PostgresChallengeStore implements store.ChallengeStore interface
var _ store.ChallengeStore = (*PostgresChallengeStore)(nil)

// GetByID implements store.ChallengeStore.GetByID
// Returns store.ErrChallengeNotFound if the challenge does not exist.
func (s *PostgresChallengeStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Challenge, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, challenge_type, difficulty, prompt, active, created_at
		FROM challenges
		WHERE id = $1
	`

	var challenge domain.Challenge
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&challenge.ID,
		&challenge.Type,
		&challenge.Difficulty,
		&challenge.Prompt,
		&challenge.Active,
		&challenge.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrChallengeNotFound, id)
		}
		log.Error("failed to get challenge",
			slog.String("error", err.Error()),
			slog.String("challenge_id", id.String()))
		return nil, MapError(err)
	}

	return &challenge, nil
}

// ListActive implements store.ChallengeStore.ListActive
func (s *PostgresChallengeStore) ListActive(ctx context.Context) ([]*domain.Challenge, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, challenge_type, difficulty, prompt, active, created_at
		FROM challenges
		WHERE active
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list active challenges", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var challenges []*domain.Challenge
	for rows.Next() {
		var challenge domain.Challenge
		if err := rows.Scan(
			&challenge.ID,
			&challenge.Type,
			&challenge.Difficulty,
			&challenge.Prompt,
			&challenge.Active,
			&challenge.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		challenges = append(challenges, &challenge)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return challenges, nil
}
