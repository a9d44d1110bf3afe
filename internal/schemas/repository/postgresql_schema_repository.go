// Package repository implements data persistence for the schema registry.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. Schema records are
// immutable: the repositories expose no update or delete operations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// PostgreSQLSchemaRepository implements Schema persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLSchemaRepository struct {
	db *sql.DB
}

// Create inserts a new Schema into the PostgreSQL database. The primary key
// constraint guarantees a fresh identifier never overwrites an existing record.
func (p *PostgreSQLSchemaRepository) Create(ctx context.Context, schema *schemasDomain.Schema) error {
	querier := database.GetTx(ctx, p.db)

	attestersJSON, err := json.Marshal(schema.AuthorizedAttesters)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorized attesters")
	}

	query := `INSERT INTO schemas (id, name, description, creator, revocable, authorized_attesters, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		schema.ID,
		schema.Name,
		schema.Description,
		schema.Creator,
		schema.Revocable,
		attestersJSON,
		schema.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create schema")
	}
	return nil
}

// Get retrieves a Schema by ID from the PostgreSQL database.
// Returns ErrSchemaNotFound if the schema was never registered.
func (p *PostgreSQLSchemaRepository) Get(
	ctx context.Context,
	schemaID uuid.UUID,
) (*schemasDomain.Schema, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, creator, revocable, authorized_attesters, created_at
			  FROM schemas WHERE id = $1`

	var schema schemasDomain.Schema
	var attestersJSON []byte

	err := querier.QueryRowContext(ctx, query, schemaID).Scan(
		&schema.ID,
		&schema.Name,
		&schema.Description,
		&schema.Creator,
		&schema.Revocable,
		&attestersJSON,
		&schema.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schemasDomain.ErrSchemaNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get schema")
	}

	if err := json.Unmarshal(attestersJSON, &schema.AuthorizedAttesters); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorized attesters")
	}

	return &schema, nil
}

// List retrieves schemas ordered by ID descending (newest first) with pagination
// support. Returns empty slice if no schemas are registered.
func (p *PostgreSQLSchemaRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*schemasDomain.Schema, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, creator, revocable, authorized_attesters, created_at
			  FROM schemas
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list schemas")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	schemas := make([]*schemasDomain.Schema, 0)
	for rows.Next() {
		var schema schemasDomain.Schema
		var attestersJSON []byte

		err := rows.Scan(
			&schema.ID,
			&schema.Name,
			&schema.Description,
			&schema.Creator,
			&schema.Revocable,
			&attestersJSON,
			&schema.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan schema row")
		}

		if err := json.Unmarshal(attestersJSON, &schema.AuthorizedAttesters); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal authorized attesters")
		}

		schemas = append(schemas, &schema)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating schema rows")
	}

	return schemas, nil
}

// NewPostgreSQLSchemaRepository creates a new PostgreSQL Schema repository.
func NewPostgreSQLSchemaRepository(db *sql.DB) *PostgreSQLSchemaRepository {
	return &PostgreSQLSchemaRepository{db: db}
}
