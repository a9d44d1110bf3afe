// Package repository implements data persistence for the attestation store.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16)
// types. Create writes the attestation row and both append-only index tables
// as part of the caller's transaction, so a reader can never observe an
// attestation without its index entries.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
)

// PostgreSQLAttestationRepository implements Attestation persistence for PostgreSQL.
type PostgreSQLAttestationRepository struct {
	db *sql.DB
}

// Create inserts a new Attestation and appends it to the subject and schema
// indexes. All three inserts run on the caller's transaction when one is
// present in the context; index positions are assigned by the database in
// insertion order.
func (p *PostgreSQLAttestationRepository) Create(
	ctx context.Context,
	attestation *attestationsDomain.Attestation,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO attestations (id, schema_id, attester, subject, data, revoked, revoked_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		attestation.ID,
		attestation.SchemaID,
		attestation.Attester,
		attestation.Subject,
		[]byte(attestation.Data),
		attestation.Revoked,
		attestation.RevokedAt,
		attestation.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create attestation")
	}

	subjectIndexQuery := `INSERT INTO subject_index (subject, attestation_id) VALUES ($1, $2)`
	if _, err := querier.ExecContext(ctx, subjectIndexQuery, attestation.Subject, attestation.ID); err != nil {
		return apperrors.Wrap(err, "failed to append subject index entry")
	}

	schemaIndexQuery := `INSERT INTO schema_index (schema_id, attestation_id) VALUES ($1, $2)`
	if _, err := querier.ExecContext(ctx, schemaIndexQuery, attestation.SchemaID, attestation.ID); err != nil {
		return apperrors.Wrap(err, "failed to append schema index entry")
	}

	return nil
}

// Get retrieves an Attestation by ID from the PostgreSQL database.
// Returns ErrAttestationNotFound if the attestation does not exist.
func (p *PostgreSQLAttestationRepository) Get(
	ctx context.Context,
	attestationID uuid.UUID,
) (*attestationsDomain.Attestation, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, schema_id, attester, subject, data, revoked, revoked_at, created_at
			  FROM attestations WHERE id = $1`

	var attestation attestationsDomain.Attestation
	var data []byte

	err := querier.QueryRowContext(ctx, query, attestationID).Scan(
		&attestation.ID,
		&attestation.SchemaID,
		&attestation.Attester,
		&attestation.Subject,
		&data,
		&attestation.Revoked,
		&attestation.RevokedAt,
		&attestation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, attestationsDomain.ErrAttestationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get attestation")
	}

	attestation.Data = data
	return &attestation, nil
}

// SetRevoked marks an attestation as revoked at the given time. The flag is
// one-way: nothing ever clears it. Returns ErrAttestationNotFound if no row
// was updated.
func (p *PostgreSQLAttestationRepository) SetRevoked(
	ctx context.Context,
	attestationID uuid.UUID,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE attestations SET revoked = TRUE, revoked_at = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, revokedAt, attestationID)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke attestation")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return attestationsDomain.ErrAttestationNotFound
	}

	return nil
}

// QueryBySubject retrieves attestation IDs for a subject ordered by index
// position (creation order) with pagination support. Returns empty slice if
// the subject has no entries.
func (p *PostgreSQLAttestationRepository) QueryBySubject(
	ctx context.Context,
	subject string,
	offset, limit int,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT attestation_id FROM subject_index
			  WHERE subject = $1
			  ORDER BY position ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, subject, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query subject index")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan subject index row")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating subject index rows")
	}

	return ids, nil
}

// QueryBySchema retrieves attestation IDs for a schema ordered by index
// position (creation order) with pagination support. Returns empty slice if
// the schema has no entries.
func (p *PostgreSQLAttestationRepository) QueryBySchema(
	ctx context.Context,
	schemaID uuid.UUID,
	offset, limit int,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT attestation_id FROM schema_index
			  WHERE schema_id = $1
			  ORDER BY position ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, schemaID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query schema index")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan schema index row")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating schema index rows")
	}

	return ids, nil
}

// NewPostgreSQLAttestationRepository creates a new PostgreSQL Attestation repository.
func NewPostgreSQLAttestationRepository(db *sql.DB) *PostgreSQLAttestationRepository {
	return &PostgreSQLAttestationRepository{db: db}
}
