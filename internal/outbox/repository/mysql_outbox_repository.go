package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
	"github.com/allisson/attestations/internal/outbox/domain"
)

// mysqlOutboxColumns is the column order expected by scanMySQLOutboxEvent.
const mysqlOutboxColumns = `id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at`

// MySQLOutboxEventRepository implements OutboxEvent persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLOutboxEventRepository struct {
	db *sql.DB
}

func scanMySQLOutboxEvent(scan func(dest ...any) error) (*domain.OutboxEvent, error) {
	var (
		event   domain.OutboxEvent
		idBytes []byte
	)

	err := scan(
		&idBytes,
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

	if err := event.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode outbox event id")
	}

	return &event, nil
}

// Create inserts an outbox event. NOW(6) keeps the microsecond precision the
// DATETIME(6) columns carry; plain NOW() would truncate to whole seconds and
// break creation ordering for events written in the same second.
func (r *MySQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode outbox event id")
	}

	query := `INSERT INTO outbox_events (id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(6), NOW(6))`

	_, err = querier.ExecContext(ctx, query,
		idBytes,
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
func (r *MySQLOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlOutboxColumns + `
			  FROM outbox_events
			  WHERE status = ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT ?
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
		event, err := scanMySQLOutboxEvent(rows.Scan)
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
func (r *MySQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode outbox event id")
	}

	query := `UPDATE outbox_events
			  SET event_type = ?,
			  	  payload = ?,
				  status = ?,
				  retries = ?,
				  last_error = ?,
				  processed_at = ?,
				  updated_at = NOW(6)
			  WHERE id = ?`

	_, err = querier.ExecContext(ctx, query,
		event.EventType,
		event.Payload,
		event.Status,
		event.Retries,
		event.LastError,
		event.ProcessedAt,
		idBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox event")
	}

	return nil
}

// NewMySQLOutboxEventRepository creates a new MySQL outbox repository.
func NewMySQLOutboxEventRepository(db *sql.DB) *MySQLOutboxEventRepository {
	return &MySQLOutboxEventRepository{db: db}
}
