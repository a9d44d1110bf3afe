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

// MySQLSchemaRepository implements Schema persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLSchemaRepository struct {
	db *sql.DB
}

// Create inserts a new Schema into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLSchemaRepository) Create(ctx context.Context, schema *schemasDomain.Schema) error {
	querier := database.GetTx(ctx, m.db)

	attestersJSON, err := json.Marshal(schema.AuthorizedAttesters)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorized attesters")
	}

	query := `INSERT INTO schemas (id, name, description, creator, revocable, authorized_attesters, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := schema.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal schema id")
	}

	creator, err := schema.Creator.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal schema creator")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		schema.Name,
		schema.Description,
		creator,
		schema.Revocable,
		attestersJSON,
		schema.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create schema")
	}
	return nil
}

// Get retrieves a Schema by ID from the MySQL database using BINARY(16) for UUIDs.
// Returns ErrSchemaNotFound if the schema was never registered.
func (m *MySQLSchemaRepository) Get(
	ctx context.Context,
	schemaID uuid.UUID,
) (*schemasDomain.Schema, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, description, creator, revocable, authorized_attesters, created_at
			  FROM schemas WHERE id = ?`

	id, err := schemaID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal schema id")
	}

	var schema schemasDomain.Schema
	var idBytes []byte
	var creatorBytes []byte
	var attestersJSON []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&schema.Name,
		&schema.Description,
		&creatorBytes,
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

	if err := schema.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal schema id")
	}

	if err := schema.Creator.UnmarshalBinary(creatorBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal schema creator")
	}

	if err := json.Unmarshal(attestersJSON, &schema.AuthorizedAttesters); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorized attesters")
	}

	return &schema, nil
}

// List retrieves schemas ordered by ID descending (newest first) with pagination
// support using BINARY(16) for UUIDs. Returns empty slice if no schemas are registered.
func (m *MySQLSchemaRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*schemasDomain.Schema, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, description, creator, revocable, authorized_attesters, created_at
			  FROM schemas
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

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
		var idBytes []byte
		var creatorBytes []byte
		var attestersJSON []byte

		err := rows.Scan(
			&idBytes,
			&schema.Name,
			&schema.Description,
			&creatorBytes,
			&schema.Revocable,
			&attestersJSON,
			&schema.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan schema row")
		}

		if err := schema.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal schema id")
		}

		if err := schema.Creator.UnmarshalBinary(creatorBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal schema creator")
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

// NewMySQLSchemaRepository creates a new MySQL Schema repository.
func NewMySQLSchemaRepository(db *sql.DB) *MySQLSchemaRepository {
	return &MySQLSchemaRepository{db: db}
}
