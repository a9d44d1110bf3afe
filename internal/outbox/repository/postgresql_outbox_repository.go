// Package repository implements outbox event persistence.
//
// Both drivers resolve their querier through database.GetTx, so an event row
// commits or rolls back together with the mutation it announces.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
	"github.com/allisson/attestations/internal/outbox/domain"
)

// postgresOutboxColumns is the column order expected by scanPostgresOutboxEvent.
const postgresOutboxColumns = `id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at`

// PostgreSQLOutboxEventRepository implements OutboxEvent persistence for PostgreSQL.
type PostgreSQLOutboxEventRepository struct {
	db *sql.DB
}

func scanPostgresOutboxEvent(scan func(dest ...any) error) (*domain.OutboxEvent, error) {
	var event domain.OutboxEvent

	err := scan(
		&event.ID,
		&event.EventType,
		&event.Payload,
		&event.Status,
		&event.Retries,
		&event.LastError,
		&event.ProcessedAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// Create inserts an outbox event.
func (r *PostgreSQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO outbox_events (id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.Retries,
		event.LastError,
		event.ProcessedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}

	return nil
}

// GetPendingEvents claims up to limit pending events in creation order, with
// the ID as tiebreaker for identical timestamps. FOR UPDATE SKIP LOCKED lets
// concurrent relay workers drain the table without handing the same event to
// two of them.
func (r *PostgreSQLOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresOutboxColumns + `
			  FROM outbox_events
			  WHERE status = $1
			  ORDER BY created_at ASC, id ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.OutboxEventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query pending outbox events")
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []*domain.OutboxEvent
	for rows.Next() {
		event, err := scanPostgresOutboxEvent(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan outbox event row")
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating outbox event rows")
	}

	return events, nil
}

// Update rewrites an event's delivery state after a relay attempt.
func (r *PostgreSQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_events
			  SET event_type = $1,
			  	  payload = $2,
				  status = $3,
				  retries = $4,
				  last_error = $5,
				  processed_at = $6,
				  updated_at = NOW()
			  WHERE id = $7`

	_, err := querier.ExecContext(ctx, query,
		event.EventType,
		event.Payload,
		event.Status,
		event.Retries,
		event.LastError,
		event.ProcessedAt,
		event.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox event")
	}

	return nil
}

// NewPostgreSQLOutboxEventRepository creates a new PostgreSQL outbox repository.
func NewPostgreSQLOutboxEventRepository(db *sql.DB) *PostgreSQLOutboxEventRepository {
	return &PostgreSQLOutboxEventRepository{db: db}
}
