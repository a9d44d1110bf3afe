// Package domain defines the core outbox domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types written by the registry use cases. Each event is persisted in the
// same transaction as the mutation it announces.
const (
	// EventTypeSchemaRegistered announces a new schema registration.
	// Payload: {schema_id, name, creator}.
	EventTypeSchemaRegistered = "schema.registered"

	// EventTypeAttestationCreated announces a new attestation.
	// Payload: {attestation_id, schema_id, attester, subject}.
	EventTypeAttestationCreated = "attestation.created"

	// EventTypeAttestationRevoked announces an attestation revocation.
	// Payload: {attestation_id, schema_id, attester}.
	EventTypeAttestationRevoked = "attestation.revoked"
)

// OutboxEvent represents an event in the transactional outbox pattern
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
