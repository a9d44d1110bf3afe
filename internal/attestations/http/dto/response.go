// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
)

// AttestationResponse represents an attestation in API responses.
type AttestationResponse struct {
	ID        string          `json:"id"`
	SchemaID  string          `json:"schema_id"`
	Attester  string          `json:"attester"`
	Subject   string          `json:"subject"`
	Data      json.RawMessage `json:"data"`
	Revoked   bool            `json:"revoked"`
	RevokedAt *time.Time      `json:"revoked_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// MapAttestationToResponse converts a domain attestation to an API response.
func MapAttestationToResponse(attestation *attestationsDomain.Attestation) AttestationResponse {
	return AttestationResponse{
		ID:        attestation.ID.String(),
		SchemaID:  attestation.SchemaID.String(),
		Attester:  attestation.Attester.String(),
		Subject:   attestation.Subject,
		Data:      attestation.Data,
		Revoked:   attestation.Revoked,
		RevokedAt: attestation.RevokedAt,
		CreatedAt: attestation.CreatedAt,
	}
}

// ValidityResponse reports whether an attestation is currently valid.
type ValidityResponse struct {
	Valid bool `json:"valid"`
}

// ListAttestationIDsResponse represents an ordered list of attestation IDs
// from an index query.
type ListAttestationIDsResponse struct {
	Data []string `json:"data"`
}

// MapAttestationIDsToListResponse converts index query results to a list API
// response, always returning a non-nil slice so JSON renders [] instead of null.
func MapAttestationIDsToListResponse(ids []uuid.UUID) ListAttestationIDsResponse {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return ListAttestationIDsResponse{
		Data: values,
	}
}
