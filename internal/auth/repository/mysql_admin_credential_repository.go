package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
)

// MySQLAdminCredentialRepository implements AdminCredential persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAdminCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new AdminCredential into the MySQL database using BINARY(16) for UUIDs.
// MySQL has no partial unique index, so the single-active invariant is enforced by
// the use case before calling Create.
func (m *MySQLAdminCredentialRepository) Create(
	ctx context.Context,
	credential *authDomain.AdminCredential,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO admin_credentials (id, credential_hash, is_active, created_at, rotated_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal admin credential id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		credential.CredentialHash,
		credential.IsActive,
		credential.CreatedAt,
		credential.RotatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create admin credential")
	}
	return nil
}

// GetActive retrieves the single active AdminCredential using BINARY(16) for UUIDs.
// Returns ErrAdminCredentialNotFound if no credential is active.
func (m *MySQLAdminCredentialRepository) GetActive(
	ctx context.Context,
) (*authDomain.AdminCredential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, credential_hash, is_active, created_at, rotated_at
			  FROM admin_credentials WHERE is_active = TRUE`

	var credential authDomain.AdminCredential
	var idBytes []byte

	err := querier.QueryRowContext(ctx, query).Scan(
		&idBytes,
		&credential.CredentialHash,
		&credential.IsActive,
		&credential.CreatedAt,
		&credential.RotatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAdminCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get active admin credential")
	}

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal admin credential id")
	}

	return &credential, nil
}

// Deactivate marks a credential inactive and records the rotation time.
// Returns ErrAdminCredentialNotFound if the credential doesn't exist.
func (m *MySQLAdminCredentialRepository) Deactivate(
	ctx context.Context,
	credentialID uuid.UUID,
	rotatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := credentialID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal admin credential id")
	}

	query := `UPDATE admin_credentials SET is_active = FALSE, rotated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, rotatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate admin credential")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return authDomain.ErrAdminCredentialNotFound
	}

	return nil
}

// NewMySQLAdminCredentialRepository creates a new MySQL AdminCredential repository.
func NewMySQLAdminCredentialRepository(db *sql.DB) *MySQLAdminCredentialRepository {
	return &MySQLAdminCredentialRepository{db: db}
}
