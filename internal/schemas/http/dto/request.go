// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"fmt"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/attestations/internal/validation"
)

// RegisterSchemaRequest contains the parameters for registering a new attestation schema.
type RegisterSchemaRequest struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Revocable           bool     `json:"revocable"`
	AuthorizedAttesters []string `json:"authorized_attesters"`
}

// Validate checks if the register schema request is valid.
func (r *RegisterSchemaRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1000),
		),
		validation.Field(&r.AuthorizedAttesters,
			customValidation.UUIDList,
		),
	)
}

// UpdateCreatorPolicyRequest contains the full replacement list of authorized
// schema creators. An empty list removes all restrictions.
type UpdateCreatorPolicyRequest struct {
	Creators []string `json:"creators"`
}

// Validate checks if the update creator policy request is valid.
func (r *UpdateCreatorPolicyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Creators,
			customValidation.UUIDList,
		),
	)
}

// ParseUUIDList converts a slice of string UUIDs into uuid.UUID values.
// Callers are expected to run Validate first; this reports the first
// malformed entry for the binding error path.
func ParseUUIDList(values []string) ([]uuid.UUID, error) {
	parsed := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID %q: %w", value, err)
		}
		parsed = append(parsed, id)
	}
	return parsed, nil
}
