package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// MySQLCreatorPolicyRepository implements CreatorPolicy persistence for MySQL.
// Uses BINARY(16) for UUID storage. Policy updates append a new version; the
// newest record is the active one.
type MySQLCreatorPolicyRepository struct {
	db *sql.DB
}

// Create appends a new CreatorPolicy version.
func (m *MySQLCreatorPolicyRepository) Create(
	ctx context.Context,
	policy *schemasDomain.CreatorPolicy,
) error {
	querier := database.GetTx(ctx, m.db)

	creatorsJSON, err := json.Marshal(policy.Creators)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal policy creators")
	}

	query := `INSERT INTO creator_policies (id, creators, updated_by, created_at)
			  VALUES (?, ?, ?, ?)`

	id, err := policy.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal policy id")
	}

	updatedBy, err := policy.UpdatedBy.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal policy updated_by")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		creatorsJSON,
		updatedBy,
		policy.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create creator policy")
	}
	return nil
}

// GetActive retrieves the newest CreatorPolicy version. UUIDv7 identifiers are
// time-ordered, so the highest ID is the most recent update. Returns
// ErrCreatorPolicyNotFound if no policy was ever stored.
func (m *MySQLCreatorPolicyRepository) GetActive(
	ctx context.Context,
) (*schemasDomain.CreatorPolicy, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, creators, updated_by, created_at
			  FROM creator_policies
			  ORDER BY id DESC
			  LIMIT 1`

	var policy schemasDomain.CreatorPolicy
	var idBytes []byte
	var updatedByBytes []byte
	var creatorsJSON []byte

	err := querier.QueryRowContext(ctx, query).Scan(
		&idBytes,
		&creatorsJSON,
		&updatedByBytes,
		&policy.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schemasDomain.ErrCreatorPolicyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get creator policy")
	}

	if err := policy.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal policy id")
	}

	if err := policy.UpdatedBy.UnmarshalBinary(updatedByBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal policy updated_by")
	}

	if err := json.Unmarshal(creatorsJSON, &policy.Creators); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal policy creators")
	}

	return &policy, nil
}

// NewMySQLCreatorPolicyRepository creates a new MySQL CreatorPolicy repository.
func NewMySQLCreatorPolicyRepository(db *sql.DB) *MySQLCreatorPolicyRepository {
	return &MySQLCreatorPolicyRepository{db: db}
}
