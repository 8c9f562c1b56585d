package postgres

import (
	"context"
	"log/slog"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// PostgresReferenceMedianStore implements the store.ReferenceMedianStore
// interface. The medians are maintained by a periodic aggregate job outside
// the scoring core; score runs only ever read them.
type PostgresReferenceMedianStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReferenceMedianStore creates a new PostgreSQL implementation of
// the ReferenceMedianStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresReferenceMedianStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresReferenceMedianStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReferenceMedianStore{
		db:     db,
		logger: logger.With(slog.String("component", "reference_median_store")),
	}
}

// Ensure PostgresReferenceMedianStore implements store.ReferenceMedianStore interface
var _ store.ReferenceMedianStore = (*PostgresReferenceMedianStore)(nil)

// GetAll implements store.ReferenceMedianStore.GetAll
func (s *PostgresReferenceMedianStore) GetAll(
	ctx context.Context,
) (map[domain.ChallengeType]float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT challenge_type, median_seconds
		FROM challenge_reference_medians
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to load reference medians", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	medians := make(map[domain.ChallengeType]float64)
	for rows.Next() {
		var challengeType domain.ChallengeType
		var median float64
		if err := rows.Scan(&challengeType, &median); err != nil {
			return nil, MapError(err)
		}
		medians[challengeType] = median
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return medians, nil
}
