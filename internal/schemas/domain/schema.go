// Package domain defines schema registry domain models and authorization predicates.
//
// A schema is an immutable definition that attestations reference: it names the kind
// of claim being made and carries the per-schema attester policy. The global creator
// policy controls which clients may register new schemas.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Schema represents a registered attestation schema. Records are immutable after
// registration: they are never updated or deleted, only referenced by attestations.
type Schema struct {
	ID                  uuid.UUID   // Unique identifier (UUIDv7)
	Name                string      // Human-readable schema name (e.g. "KYC")
	Description         string      // Free-form description of the claim the schema defines
	Creator             uuid.UUID   // Client that registered the schema (immutable)
	Revocable           bool        // Declared revocability hint (stored, not enforced)
	AuthorizedAttesters []uuid.UUID // Clients allowed to attest under this schema (empty = unrestricted)
	CreatedAt           time.Time
}

// IsAuthorizedAttester checks whether the caller may create attestations under this
// schema. An empty attester list means the schema is unrestricted and every caller
// is authorized; otherwise the caller must appear in the list by exact match.
func (s *Schema) IsAuthorizedAttester(caller uuid.UUID) bool {
	// Empty list: unrestricted schema
	if len(s.AuthorizedAttesters) == 0 {
		return true
	}

	for _, attester := range s.AuthorizedAttesters {
		if attester == caller {
			return true
		}
	}

	return false
}

// RegisterSchemaInput contains the parameters for registering a new schema.
// The creator is taken from the authenticated caller, never from the input.
type RegisterSchemaInput struct {
	Name                string      // Human-readable schema name
	Description         string      // Free-form description
	Revocable           bool        // Revocability hint recorded on the schema
	AuthorizedAttesters []uuid.UUID // Attester allow-list (empty = unrestricted)
}
