package postgres

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/burstlabs/burst-api/internal/domain"
	"github.com/burstlabs/burst-api/internal/platform/logger"
	"github.com/burstlabs/burst-api/internal/store"
)

// PostgresReadingEventStore implements the store.ReadingEventStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReadingEventStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReadingEventStore creates a new PostgreSQL implementation of the
// ReadingEventStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReadingEventStore(db store.DBTX, logger *slog.Logger) *PostgresReadingEventStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReadingEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "reading_event_store")),
	}
}

// Ensure PostgresReadingEventStore implements store.ReadingEventStore interface
var _ store.ReadingEventStore = (*PostgresReadingEventStore)(nil)

// Create implements store.ReadingEventStore.Create
// It saves a new reading event, handling domain validation. Events are
// append-only: there is no update path.
func (s *PostgresReadingEventStore) Create(ctx context.Context, event *domain.ReadingEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("reading event validation failed during create",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}

	topics, err := json.Marshal(event.Topics)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reading_events
			(id, user_id, content_id, source_id, bias_category, topics,
			 time_spent_seconds, completion_pct, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.UserID,
		event.ContentID,
		event.SourceID,
		event.BiasCategory,
		topics,
		event.TimeSpentSeconds,
		event.CompletionPct,
		event.OccurredAt,
	)
	if err != nil {
		log.Error("failed to create reading event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
			slog.String("user_id", event.UserID.String()))
		return MapError(err)
	}

	log.Debug("reading event created",
		slog.String("event_id", event.ID.String()),
		slog.String("user_id", event.UserID.String()))
	return nil
}

// ListByUserSince implements store.ReadingEventStore.ListByUserSince
func (s *PostgresReadingEventStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.ReadingEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content_id, source_id, bias_category, topics,
		       time_spent_seconds, completion_pct, occurred_at
		FROM reading_events
		WHERE user_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to list reading events",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.ReadingEvent
	for rows.Next() {
		var event domain.ReadingEvent
		var topics []byte
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.ContentID,
			&event.SourceID,
			&event.BiasCategory,
			&topics,
			&event.TimeSpentSeconds,
			&event.CompletionPct,
			&event.OccurredAt,
		); err != nil {
			return nil, MapError(err)
		}
		if len(topics) > 0 {
			if err := json.Unmarshal(topics, &event.Topics); err != nil {
				return nil, err
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return events, nil
}
