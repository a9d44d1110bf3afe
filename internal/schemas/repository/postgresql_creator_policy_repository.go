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

// PostgreSQLCreatorPolicyRepository implements CreatorPolicy persistence for
// PostgreSQL. Policy updates append a new version; the newest record is the
// active one, so history survives wholesale replacement.
type PostgreSQLCreatorPolicyRepository struct {
	db *sql.DB
}

// Create appends a new CreatorPolicy version.
func (p *PostgreSQLCreatorPolicyRepository) Create(
	ctx context.Context,
	policy *schemasDomain.CreatorPolicy,
) error {
	querier := database.GetTx(ctx, p.db)

	creatorsJSON, err := json.Marshal(policy.Creators)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal policy creators")
	}

	query := `INSERT INTO creator_policies (id, creators, updated_by, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err = querier.ExecContext(
		ctx,
		query,
		policy.ID,
		creatorsJSON,
		policy.UpdatedBy,
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
func (p *PostgreSQLCreatorPolicyRepository) GetActive(
	ctx context.Context,
) (*schemasDomain.CreatorPolicy, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, creators, updated_by, created_at
			  FROM creator_policies
			  ORDER BY id DESC
			  LIMIT 1`

	var policy schemasDomain.CreatorPolicy
	var creatorsJSON []byte

	err := querier.QueryRowContext(ctx, query).Scan(
		&policy.ID,
		&creatorsJSON,
		&policy.UpdatedBy,
		&policy.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schemasDomain.ErrCreatorPolicyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get creator policy")
	}

	if err := json.Unmarshal(creatorsJSON, &policy.Creators); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal policy creators")
	}

	return &policy, nil
}

// NewPostgreSQLCreatorPolicyRepository creates a new PostgreSQL CreatorPolicy repository.
func NewPostgreSQLCreatorPolicyRepository(db *sql.DB) *PostgreSQLCreatorPolicyRepository {
	return &PostgreSQLCreatorPolicyRepository{db: db}
}
