package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token represents an opaque authentication token issued to a client.
// Only the SHA-256 hash of the token is stored; the plain value is shown
// once at issuance and never persisted.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	ClientID  uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IssueTokenInput carries the credentials presented by a client when
// requesting a new authentication token.
type IssueTokenInput struct {
	ClientID     uuid.UUID
	ClientSecret string
}

// IssueTokenOutput contains the plain token returned to the caller and the
// moment it stops working. The plain token is only available at issuance.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
