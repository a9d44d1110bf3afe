// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/google/uuid"

	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// SchemaResponse represents an attestation schema in API responses.
type SchemaResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Creator             string    `json:"creator"`
	Revocable           bool      `json:"revocable"`
	AuthorizedAttesters []string  `json:"authorized_attesters"`
	CreatedAt           time.Time `json:"created_at"`
}

// MapSchemaToResponse converts a domain schema to an API response.
func MapSchemaToResponse(schema *schemasDomain.Schema) SchemaResponse {
	return SchemaResponse{
		ID:                  schema.ID.String(),
		Name:                schema.Name,
		Description:         schema.Description,
		Creator:             schema.Creator.String(),
		Revocable:           schema.Revocable,
		AuthorizedAttesters: mapUUIDsToStrings(schema.AuthorizedAttesters),
		CreatedAt:           schema.CreatedAt,
	}
}

// ListSchemasResponse represents a paginated list of schemas in API responses.
type ListSchemasResponse struct {
	Data []SchemaResponse `json:"data"`
}

// MapSchemasToListResponse converts a slice of domain schemas to a list API response.
func MapSchemasToListResponse(schemas []*schemasDomain.Schema) ListSchemasResponse {
	schemaResponses := make([]SchemaResponse, 0, len(schemas))
	for _, schema := range schemas {
		schemaResponses = append(schemaResponses, MapSchemaToResponse(schema))
	}
	return ListSchemasResponse{
		Data: schemaResponses,
	}
}

// CreatorPolicyResponse represents the active schema creator policy in API
// responses. An empty creators list means any authenticated client may
// register schemas.
type CreatorPolicyResponse struct {
	Creators  []string   `json:"creators"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MapCreatorPolicyToResponse converts a domain creator policy to an API response.
// Zero-valued audit fields are omitted so the implicit unrestricted policy
// renders as just an empty creators list.
func MapCreatorPolicyToResponse(policy *schemasDomain.CreatorPolicy) CreatorPolicyResponse {
	response := CreatorPolicyResponse{
		Creators: mapUUIDsToStrings(policy.Creators),
	}
	if policy.UpdatedBy != uuid.Nil {
		response.UpdatedBy = policy.UpdatedBy.String()
	}
	if !policy.CreatedAt.IsZero() {
		updatedAt := policy.CreatedAt
		response.UpdatedAt = &updatedAt
	}
	return response
}

// mapUUIDsToStrings converts a slice of UUIDs to their string form, always
// returning a non-nil slice so JSON renders [] instead of null.
func mapUUIDsToStrings(ids []uuid.UUID) []string {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return values
}
