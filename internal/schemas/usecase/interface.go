// Package usecase implements the schema registry business logic: schema
// registration gated by the global creator policy, schema lookups, and
// creator policy management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	outboxDomain "github.com/allisson/attestations/internal/outbox/domain"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// SchemaRepository defines persistence operations for schema definitions.
// Implementations must support transaction-aware operations via context propagation.
type SchemaRepository interface {
	// Create stores a new schema. Schemas are immutable once stored.
	Create(ctx context.Context, schema *schemasDomain.Schema) error

	// Get retrieves a schema by ID. Returns ErrSchemaNotFound if never registered.
	Get(ctx context.Context, schemaID uuid.UUID) (*schemasDomain.Schema, error)

	// List retrieves schemas ordered by ID descending with pagination support.
	List(ctx context.Context, offset, limit int) ([]*schemasDomain.Schema, error)
}

// CreatorPolicyRepository defines persistence operations for the global schema
// creator policy. Updates append a new version; the newest version is active.
type CreatorPolicyRepository interface {
	// Create appends a new policy version.
	Create(ctx context.Context, policy *schemasDomain.CreatorPolicy) error

	// GetActive retrieves the newest policy version.
	// Returns ErrCreatorPolicyNotFound if no policy was ever stored.
	GetActive(ctx context.Context) (*schemasDomain.CreatorPolicy, error)
}

// OutboxEventRepository defines outbox event repository operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*outboxDomain.OutboxEvent, error)
	Update(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// SchemaUseCase defines business logic operations for the schema registry.
type SchemaUseCase interface {
	// Register stores a new immutable schema with the caller as creator.
	// The caller must be allowed by the active creator policy (an empty or
	// absent policy allows everyone). A schema.registered outbox event is
	// written in the same transaction as the insert.
	//
	// Returns ErrUnauthorizedSchemaCreator if the caller is not in the
	// non-empty creator policy list.
	Register(
		ctx context.Context,
		input *schemasDomain.RegisterSchemaInput,
		caller uuid.UUID,
	) (*schemasDomain.Schema, error)

	// Lookup retrieves a schema by ID.
	// Returns ErrSchemaNotFound if the schema was never registered.
	Lookup(ctx context.Context, schemaID uuid.UUID) (*schemasDomain.Schema, error)

	// List retrieves schemas ordered by ID descending (newest first) with
	// pagination support.
	List(ctx context.Context, offset, limit int) ([]*schemasDomain.Schema, error)

	// GetCreators retrieves the active creator policy. When no policy was ever
	// stored it returns an empty policy, meaning registration is unrestricted.
	GetCreators(ctx context.Context) (*schemasDomain.CreatorPolicy, error)

	// UpdateCreators replaces the creator policy wholesale with the given list.
	// The caller must already hold the admin capability and have presented a
	// valid admin credential; both are enforced at the transport boundary.
	UpdateCreators(ctx context.Context, creators []uuid.UUID, updatedBy uuid.UUID) error
}
