package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreatorPolicy is the global schema-creator policy: the list of clients allowed
// to register new schemas. The policy is replaced wholesale on update, never
// merged; the newest stored record is the active one.
type CreatorPolicy struct {
	ID        uuid.UUID   // Unique identifier (UUIDv7)
	Creators  []uuid.UUID // Clients allowed to register schemas (empty = unrestricted)
	UpdatedBy uuid.UUID   // Client that installed this policy version
	CreatedAt time.Time
}

// Allows checks whether the caller may register schemas under this policy.
// An empty creator list means registration is unrestricted; otherwise the
// caller must appear in the list by exact match.
func (p *CreatorPolicy) Allows(caller uuid.UUID) bool {
	// Empty list: unrestricted registration
	if len(p.Creators) == 0 {
		return true
	}

	for _, creator := range p.Creators {
		if creator == caller {
			return true
		}
	}

	return false
}
