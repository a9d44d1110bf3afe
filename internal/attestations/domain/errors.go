package domain

import (
	"github.com/allisson/attestations/internal/errors"
)

// Attestation store errors.
var (
	// ErrAttestationNotFound indicates an attestation with the specified ID does not exist.
	ErrAttestationNotFound = errors.Wrap(errors.ErrNotFound, "attestation not found")

	// ErrUnauthorizedAttester indicates the caller is not allowed to attest under
	// the schema's non-empty attester list, or attempted to revoke an attestation
	// created by a different client.
	ErrUnauthorizedAttester = errors.Wrap(errors.ErrForbidden, "client is not an authorized attester")
)
