// Package repository holds the database-backed stores of the auth domain:
// API clients and their policies, issued tokens, admin credentials and the
// audit trail. Every store comes in a PostgreSQL and a MySQL variant with the
// same behavior; PostgreSQL keeps UUIDs in native uuid columns, MySQL in
// BINARY(16). All stores read their transaction from the context via
// database.GetTx, so use cases can group writes with a TxManager.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
)

// postgresClientColumns is the column order expected by scanPostgresClient.
const postgresClientColumns = `id, secret, name, is_active, policies, failed_attempts, locked_until, created_at`

// PostgreSQLClientRepository implements Client persistence for PostgreSQL.
// UUIDs use the native uuid type, policies a jsonb column.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// scanPostgresClient decodes one clients row. The scan callback abstracts over
// sql.Row and sql.Rows so Get and List share the decoding.
func scanPostgresClient(scan func(dest ...any) error) (*authDomain.Client, error) {
	var (
		client       authDomain.Client
		policiesJSON []byte
	)

	err := scan(
		&client.ID,
		&client.Secret,
		&client.Name,
		&client.IsActive,
		&policiesJSON,
		&client.FailedAttempts,
		&client.LockedUntil,
		&client.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(policiesJSON, &client.Policies); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client policies")
	}

	return &client, nil
}

// Create inserts a new Client. Lock state columns start at their schema
// defaults and are only touched by UpdateLockState.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	policiesJSON, err := json.Marshal(client.Policies)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client policies")
	}

	query := `INSERT INTO clients (id, secret, name, is_active, policies, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = querier.ExecContext(ctx, query,
		client.ID,
		client.Secret,
		client.Name,
		client.IsActive,
		policiesJSON,
		client.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}

	return nil
}

// Update modifies an existing Client. Lock state columns are managed
// separately via UpdateLockState.
func (p *PostgreSQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	policiesJSON, err := json.Marshal(client.Policies)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client policies")
	}

	query := `UPDATE clients
			  SET secret = $1, name = $2, is_active = $3, policies = $4, created_at = $5
			  WHERE id = $6`

	_, err = querier.ExecContext(ctx, query,
		client.Secret,
		client.Name,
		client.IsActive,
		policiesJSON,
		client.CreatedAt,
		client.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}

	return nil
}

// Get retrieves a Client by ID. Returns ErrClientNotFound if no row matches.
func (p *PostgreSQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresClientColumns + ` FROM clients WHERE id = $1`

	client, err := scanPostgresClient(querier.QueryRowContext(ctx, query, clientID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	return client, nil
}

// List retrieves clients ordered by ID descending with pagination support.
// IDs are UUIDv7 so the order tracks creation time, newest first.
func (p *PostgreSQLClientRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresClientColumns + ` FROM clients ORDER BY id DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list clients")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Empty slice rather than nil so callers can serialize the result directly.
	clients := make([]*authDomain.Client, 0)
	for rows.Next() {
		client, err := scanPostgresClient(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan client row")
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating client rows")
	}

	return clients, nil
}

// UpdateLockState writes the failed attempt counter and lock expiry in one
// statement, leaving every other column alone.
func (p *PostgreSQLClientRepository) UpdateLockState(
	ctx context.Context,
	clientID uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE clients SET failed_attempts = $1, locked_until = $2 WHERE id = $3`

	_, err := querier.ExecContext(ctx, query, failedAttempts, lockedUntil, clientID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client lock state")
	}

	return nil
}

// NewPostgreSQLClientRepository creates a new PostgreSQL Client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}
