// Package domain defines the attestation record model.
//
// An attestation is a claim made by an attester about a subject under a
// registered schema. Records are append-only: once created they are never
// updated except for the one-way revocation flag, and never deleted.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Attestation represents a single claim about a subject.
type Attestation struct {
	ID        uuid.UUID       // Unique identifier (UUIDv7)
	SchemaID  uuid.UUID       // Schema the claim is made under
	Attester  uuid.UUID       // Client that created the attestation (immutable)
	Subject   string          // Opaque subject identifier the claim is about
	Data      json.RawMessage // Claim payload, stored uninterpreted
	Revoked   bool            // One-way revocation flag
	RevokedAt *time.Time      // Set when the attestation was revoked
	CreatedAt time.Time
}

// IsValid reports whether the attestation is currently valid. Validity means
// exactly "not revoked"; no other condition is consulted.
func (a *Attestation) IsValid() bool {
	return !a.Revoked
}

// CreateAttestationInput contains the parameters for creating an attestation.
// The attester is taken from the authenticated caller, never from the input.
type CreateAttestationInput struct {
	SchemaID uuid.UUID       // Schema to attest under
	Subject  string          // Subject identifier the claim is about
	Data     json.RawMessage // Claim payload
}
