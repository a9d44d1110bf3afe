// Package usecase implements the attestation store business logic: claim
// creation gated by the per-schema attester policy, one-way revocation by the
// original attester, validity checks, and subject/schema index queries.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
	outboxDomain "github.com/allisson/attestations/internal/outbox/domain"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// AttestationRepository defines persistence operations for attestations and
// their append-only indexes. Implementations must support transaction-aware
// operations via context propagation.
type AttestationRepository interface {
	// Create stores a new attestation and appends it to the subject and schema
	// indexes as part of the caller's transaction.
	Create(ctx context.Context, attestation *attestationsDomain.Attestation) error

	// Get retrieves an attestation by ID. Returns ErrAttestationNotFound if it
	// does not exist.
	Get(ctx context.Context, attestationID uuid.UUID) (*attestationsDomain.Attestation, error)

	// SetRevoked marks an attestation as revoked at the given time.
	SetRevoked(ctx context.Context, attestationID uuid.UUID, revokedAt time.Time) error

	// QueryBySubject retrieves attestation IDs for a subject in creation order.
	QueryBySubject(ctx context.Context, subject string, offset, limit int) ([]uuid.UUID, error)

	// QueryBySchema retrieves attestation IDs for a schema in creation order.
	QueryBySchema(ctx context.Context, schemaID uuid.UUID, offset, limit int) ([]uuid.UUID, error)
}

// SchemaRepository defines the schema lookup this use case needs to resolve
// the attester policy of the schema being attested under.
type SchemaRepository interface {
	// Get retrieves a schema by ID. Returns ErrSchemaNotFound if never registered.
	Get(ctx context.Context, schemaID uuid.UUID) (*schemasDomain.Schema, error)
}

// OutboxEventRepository defines outbox event repository operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*outboxDomain.OutboxEvent, error)
	Update(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// AttestationUseCase defines business logic operations for the attestation store.
type AttestationUseCase interface {
	// Create stores a new attestation with the caller as attester. The schema
	// must exist and its attester policy must allow the caller (an empty list
	// allows everyone). The attestation row, both index entries, and an
	// attestation.created outbox event are written in one transaction.
	//
	// Returns ErrSchemaNotFound if the schema does not exist and
	// ErrUnauthorizedAttester if the caller is not in the non-empty attester list.
	Create(
		ctx context.Context,
		input *attestationsDomain.CreateAttestationInput,
		attester uuid.UUID,
	) (*attestationsDomain.Attestation, error)

	// Revoke marks an attestation as revoked. Only the original attester may
	// revoke; revoking an already-revoked attestation is a harmless no-op that
	// emits no event. The schema Revocable flag is never consulted.
	//
	// Returns ErrAttestationNotFound if the attestation does not exist and
	// ErrUnauthorizedAttester if the caller did not create it.
	Revoke(ctx context.Context, attestationID uuid.UUID, caller uuid.UUID) error

	// IsValid reports whether the attestation exists and has not been revoked.
	// Returns ErrAttestationNotFound if the attestation does not exist.
	IsValid(ctx context.Context, attestationID uuid.UUID) (bool, error)

	// GetDetails retrieves the full attestation record.
	// Returns ErrAttestationNotFound if the attestation does not exist.
	GetDetails(ctx context.Context, attestationID uuid.UUID) (*attestationsDomain.Attestation, error)

	// QueryBySubject retrieves attestation IDs for a subject ordered by
	// creation. Revoked attestations are not filtered out; returns an empty
	// slice when the subject has no entries.
	QueryBySubject(ctx context.Context, subject string, offset, limit int) ([]uuid.UUID, error)

	// QueryBySchema retrieves attestation IDs for a schema ordered by
	// creation. Revoked attestations are not filtered out; returns an empty
	// slice when the schema has no entries.
	QueryBySchema(ctx context.Context, schemaID uuid.UUID, offset, limit int) ([]uuid.UUID, error)
}
