// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/attestations/internal/validation"
)

// CreateAttestationRequest contains the parameters for creating a new attestation.
// The attester is always the authenticated client; it is never part of the request.
type CreateAttestationRequest struct {
	SchemaID string          `json:"schema_id"`
	Subject  string          `json:"subject"`
	Data     json.RawMessage `json:"data"`
}

// Validate checks if the create attestation request is valid.
func (r *CreateAttestationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SchemaID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.Subject,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Data,
			validation.Required,
			customValidation.JSONValue,
		),
	)
}
