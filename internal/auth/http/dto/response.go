package dto

import (
	"time"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

// CreateClientResponse is returned once at creation time. It is the only
// place the plain secret ever appears; afterwards only its hash is stored.
type CreateClientResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"` //nolint:gosec // returned once on creation
}

// ClientResponse represents a client in API responses. The secret is
// deliberately absent.
type ClientResponse struct {
	ID             string                      `json:"id"`
	Name           string                      `json:"name"`
	IsActive       bool                        `json:"is_active"`
	Policies       []authDomain.PolicyDocument `json:"policies"`
	FailedAttempts int                         `json:"failed_attempts"`
	LockedUntil    *time.Time                  `json:"locked_until,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// ListClientsResponse wraps a page of clients. Data is never null.
type ListClientsResponse struct {
	Data []ClientResponse `json:"data"`
}

// MapClientToResponse converts a domain client to its API representation.
func MapClientToResponse(client *authDomain.Client) ClientResponse {
	return ClientResponse{
		ID:             client.ID.String(),
		Name:           client.Name,
		IsActive:       client.IsActive,
		Policies:       client.Policies,
		FailedAttempts: client.FailedAttempts,
		LockedUntil:    client.LockedUntil,
		CreatedAt:      client.CreatedAt,
	}
}

// MapClientsToListResponse converts a page of domain clients.
func MapClientsToListResponse(clients []*authDomain.Client) ListClientsResponse {
	data := make([]ClientResponse, len(clients))
	for i, client := range clients {
		data[i] = MapClientToResponse(client)
	}

	return ListClientsResponse{Data: data}
}

// IssueTokenResponse carries the plain token. Like the client secret it is
// returned exactly once; only the hash is persisted.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	RequestID  string         `json:"request_id"`
	ClientID   string         `json:"client_id"`
	Capability string         `json:"capability"`
	Path       string         `json:"path"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ListAuditLogsResponse wraps a page of audit log entries. Data is never null.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogToResponse converts a domain audit log to its API representation.
func MapAuditLogToResponse(auditLog *authDomain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         auditLog.ID.String(),
		RequestID:  auditLog.RequestID.String(),
		ClientID:   auditLog.ClientID.String(),
		Capability: string(auditLog.Capability),
		Path:       auditLog.Path,
		Metadata:   auditLog.Metadata,
		CreatedAt:  auditLog.CreatedAt,
	}
}

// MapAuditLogsToListResponse converts a page of domain audit logs.
func MapAuditLogsToListResponse(auditLogs []*authDomain.AuditLog) ListAuditLogsResponse {
	data := make([]AuditLogResponse, len(auditLogs))
	for i, auditLog := range auditLogs {
		data[i] = MapAuditLogToResponse(auditLog)
	}

	return ListAuditLogsResponse{Data: data}
}
