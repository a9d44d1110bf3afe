package domain

import (
	"time"

	"github.com/google/uuid"
)

// SignatureSize is the length in bytes of an HMAC-SHA256 audit log signature.
const SignatureSize = 32

// AuditLog is one entry in the authorization trail. Every authorization
// decision produces one, tying the client to the capability it asked for and
// the path it asked about, with free-form metadata such as the decision and
// the caller's address.
type AuditLog struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	ClientID   uuid.UUID
	Capability Capability
	Path       string
	Metadata   map[string]any
	Signature  []byte // HMAC-SHA256 over the canonical encoding, nil when signing is disabled
	CreatedAt  time.Time
}

// IsSigned reports whether the entry carries a signature.
func (a *AuditLog) IsSigned() bool {
	return len(a.Signature) > 0
}

// HasValidSignature reports whether the signature has the expected length.
// Cryptographic verification is the audit signer's job.
func (a *AuditLog) HasValidSignature() bool {
	return len(a.Signature) == SignatureSize
}
