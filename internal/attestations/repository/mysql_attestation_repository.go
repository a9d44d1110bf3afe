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

// MySQLAttestationRepository implements Attestation persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAttestationRepository struct {
	db *sql.DB
}

// Create inserts a new Attestation and appends it to the subject and schema
// indexes using BINARY(16) for UUIDs. All three inserts run on the caller's
// transaction when one is present in the context.
func (m *MySQLAttestationRepository) Create(
	ctx context.Context,
	attestation *attestationsDomain.Attestation,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := attestation.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal attestation id")
	}

	schemaID, err := attestation.SchemaID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal schema id")
	}

	attester, err := attestation.Attester.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal attester id")
	}

	query := `INSERT INTO attestations (id, schema_id, attester, subject, data, revoked, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		schemaID,
		attester,
		attestation.Subject,
		[]byte(attestation.Data),
		attestation.Revoked,
		attestation.RevokedAt,
		attestation.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create attestation")
	}

	subjectIndexQuery := `INSERT INTO subject_index (subject, attestation_id) VALUES (?, ?)`
	if _, err := querier.ExecContext(ctx, subjectIndexQuery, attestation.Subject, id); err != nil {
		return apperrors.Wrap(err, "failed to append subject index entry")
	}

	schemaIndexQuery := `INSERT INTO schema_index (schema_id, attestation_id) VALUES (?, ?)`
	if _, err := querier.ExecContext(ctx, schemaIndexQuery, schemaID, id); err != nil {
		return apperrors.Wrap(err, "failed to append schema index entry")
	}

	return nil
}

// Get retrieves an Attestation by ID from the MySQL database.
// Returns ErrAttestationNotFound if the attestation does not exist.
func (m *MySQLAttestationRepository) Get(
	ctx context.Context,
	attestationID uuid.UUID,
) (*attestationsDomain.Attestation, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := attestationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal attestation id")
	}

	query := `SELECT id, schema_id, attester, subject, data, revoked, revoked_at, created_at
			  FROM attestations WHERE id = ?`

	var attestation attestationsDomain.Attestation
	var idBytes []byte
	var schemaIDBytes []byte
	var attesterBytes []byte
	var data []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&schemaIDBytes,
		&attesterBytes,
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

	if err := attestation.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal attestation id")
	}

	if err := attestation.SchemaID.UnmarshalBinary(schemaIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal schema id")
	}

	if err := attestation.Attester.UnmarshalBinary(attesterBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal attester id")
	}

	attestation.Data = data
	return &attestation, nil
}

// SetRevoked marks an attestation as revoked at the given time. The flag is
// one-way: nothing ever clears it. Returns ErrAttestationNotFound if no row
// was updated.
func (m *MySQLAttestationRepository) SetRevoked(
	ctx context.Context,
	attestationID uuid.UUID,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := attestationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal attestation id")
	}

	query := `UPDATE attestations SET revoked = TRUE, revoked_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, revokedAt, id)
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
func (m *MySQLAttestationRepository) QueryBySubject(
	ctx context.Context,
	subject string,
	offset, limit int,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT attestation_id FROM subject_index
			  WHERE subject = ?
			  ORDER BY position ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, subject, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query subject index")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanIndexRows(rows)
}

// QueryBySchema retrieves attestation IDs for a schema ordered by index
// position (creation order) with pagination support. Returns empty slice if
// the schema has no entries.
func (m *MySQLAttestationRepository) QueryBySchema(
	ctx context.Context,
	schemaID uuid.UUID,
	offset, limit int,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := schemaID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal schema id")
	}

	query := `SELECT attestation_id FROM schema_index
			  WHERE schema_id = ?
			  ORDER BY position ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query schema index")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanIndexRows(rows)
}

// scanIndexRows collects BINARY(16) attestation IDs from an index query.
func scanIndexRows(rows *sql.Rows) ([]uuid.UUID, error) {
	// Initialize empty slice to avoid returning nil for empty results
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var idBytes []byte
		if err := rows.Scan(&idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan index row")
		}

		var id uuid.UUID
		if err := id.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal attestation id")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating index rows")
	}

	return ids, nil
}

// NewMySQLAttestationRepository creates a new MySQL Attestation repository.
func NewMySQLAttestationRepository(db *sql.DB) *MySQLAttestationRepository {
	return &MySQLAttestationRepository{db: db}
}
