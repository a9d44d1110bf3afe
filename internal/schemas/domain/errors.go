package domain

import (
	"github.com/allisson/attestations/internal/errors"
)

// Schema registry errors.
var (
	// ErrSchemaNotFound indicates a schema with the specified ID was never registered.
	ErrSchemaNotFound = errors.Wrap(errors.ErrNotFound, "schema not found")

	// ErrCreatorPolicyNotFound indicates no creator policy record has been stored
	// yet. Callers treat this as an unrestricted policy.
	ErrCreatorPolicyNotFound = errors.Wrap(errors.ErrNotFound, "creator policy not found")

	// ErrUnauthorizedSchemaCreator indicates the caller is not in the non-empty
	// creator policy list and may not register schemas.
	ErrUnauthorizedSchemaCreator = errors.Wrap(errors.ErrForbidden, "client is not authorized to register schemas")
)
