// Package dto defines the request and response bodies of the auth endpoints
// together with their validation rules.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	customValidation "github.com/allisson/attestations/internal/validation"
)

// ClientPayload carries the client attributes accepted from callers. Create
// and update share it: an update replaces the whole document rather than
// patching individual fields.
type ClientPayload struct {
	Name     string                      `json:"name"`
	IsActive bool                        `json:"is_active"`
	Policies []authDomain.PolicyDocument `json:"policies"`
}

// Validate checks the payload, including every policy document.
func (p *ClientPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&p.Policies,
			validation.Required,
			validation.Each(validation.By(validatePolicyDocument)),
		),
	)
}

// CreateClientRequest is the body accepted when registering a client.
type CreateClientRequest struct {
	ClientPayload
}

// UpdateClientRequest is the body accepted when replacing a client's
// attributes.
type UpdateClientRequest struct {
	ClientPayload
}

// validatePolicyDocument checks a single policy document: a non-blank path
// and at least one capability.
func validatePolicyDocument(value any) error {
	policy, ok := value.(authDomain.PolicyDocument)
	if !ok {
		return validation.NewError("validation_policy_type", "must be a policy document")
	}

	return validation.ValidateStruct(&policy,
		validation.Field(&policy.Path,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 500),
		),
		validation.Field(&policy.Capabilities,
			validation.Required,
			validation.Length(1, 0),
		),
	)
}

// IssueTokenRequest contains the credentials exchanged for a token.
type IssueTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Validate checks that both credential fields are present and non-blank.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.ClientSecret,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
