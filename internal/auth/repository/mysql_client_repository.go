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

// mysqlClientColumns is the column order expected by scanMySQLClient.
const mysqlClientColumns = `id, secret, name, is_active, policies, failed_attempts, locked_until, created_at`

// MySQLClientRepository implements Client persistence for MySQL.
// UUIDs are stored as BINARY(16), policies as a JSON column.
type MySQLClientRepository struct {
	db *sql.DB
}

// scanMySQLClient decodes one clients row. The scan callback abstracts over
// sql.Row and sql.Rows so Get and List share the decoding.
func scanMySQLClient(scan func(dest ...any) error) (*authDomain.Client, error) {
	var (
		client       authDomain.Client
		idBytes      []byte
		policiesJSON []byte
	)

	err := scan(
		&idBytes,
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

	if err := client.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}
	if err := json.Unmarshal(policiesJSON, &client.Policies); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client policies")
	}

	return &client, nil
}

// Create inserts a new Client. Lock state columns start at their schema
// defaults and are only touched by UpdateLockState.
func (m *MySQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	id, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	policiesJSON, err := json.Marshal(client.Policies)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client policies")
	}

	query := `INSERT INTO clients (id, secret, name, is_active, policies, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		id,
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
func (m *MySQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	id, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	policiesJSON, err := json.Marshal(client.Policies)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client policies")
	}

	query := `UPDATE clients
			  SET secret = ?, name = ?, is_active = ?, policies = ?, created_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(ctx, query,
		client.Secret,
		client.Name,
		client.IsActive,
		policiesJSON,
		client.CreatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}

	return nil
}

// Get retrieves a Client by ID. Returns ErrClientNotFound if no row matches.
func (m *MySQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := clientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `SELECT ` + mysqlClientColumns + ` FROM clients WHERE id = ?`

	client, err := scanMySQLClient(querier.QueryRowContext(ctx, query, id).Scan)
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
func (m *MySQLClientRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlClientColumns + ` FROM clients ORDER BY id DESC LIMIT ? OFFSET ?`

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
		client, err := scanMySQLClient(rows.Scan)
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
func (m *MySQLClientRepository) UpdateLockState(
	ctx context.Context,
	clientID uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := clientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `UPDATE clients SET failed_attempts = ?, locked_until = ? WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, failedAttempts, lockedUntil, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client lock state")
	}

	return nil
}

// NewMySQLClientRepository creates a new MySQL Client repository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}
