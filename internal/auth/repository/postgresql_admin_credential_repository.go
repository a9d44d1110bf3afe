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

// PostgreSQLAdminCredentialRepository implements AdminCredential persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAdminCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new AdminCredential into the PostgreSQL database.
// The partial unique index on is_active rejects a second active credential
// at the database level.
func (p *PostgreSQLAdminCredentialRepository) Create(
	ctx context.Context,
	credential *authDomain.AdminCredential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO admin_credentials (id, credential_hash, is_active, created_at, rotated_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
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

// GetActive retrieves the single active AdminCredential.
// Returns ErrAdminCredentialNotFound if no credential is active.
func (p *PostgreSQLAdminCredentialRepository) GetActive(
	ctx context.Context,
) (*authDomain.AdminCredential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, credential_hash, is_active, created_at, rotated_at
			  FROM admin_credentials WHERE is_active = TRUE`

	var credential authDomain.AdminCredential

	err := querier.QueryRowContext(ctx, query).Scan(
		&credential.ID,
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

	return &credential, nil
}

// Deactivate marks a credential inactive and records the rotation time.
// Returns ErrAdminCredentialNotFound if the credential doesn't exist.
func (p *PostgreSQLAdminCredentialRepository) Deactivate(
	ctx context.Context,
	credentialID uuid.UUID,
	rotatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE admin_credentials SET is_active = FALSE, rotated_at = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, rotatedAt, credentialID)
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

// NewPostgreSQLAdminCredentialRepository creates a new PostgreSQL AdminCredential repository.
func NewPostgreSQLAdminCredentialRepository(db *sql.DB) *PostgreSQLAdminCredentialRepository {
	return &PostgreSQLAdminCredentialRepository{db: db}
}
