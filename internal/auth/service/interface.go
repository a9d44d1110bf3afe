// Package service provides the cryptographic services behind authentication:
// client secret generation and verification, token hashing, and audit log
// signing.
package service

import (
	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

// SecretService generates and verifies client secrets. The plain secret is
// produced once at generation time; only its hash is ever stored.
type SecretService interface {
	// GenerateSecret returns a fresh random secret and its hash.
	GenerateSecret() (string, string, error)

	// HashSecret hashes a plain secret for storage.
	HashSecret(plainSecret string) (string, error)

	// CompareSecret reports whether the plain secret matches the hash,
	// in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService generates and hashes short-lived API tokens. Tokens use a
// fast hash rather than a password KDF because they already carry full
// random entropy.
type TokenService interface {
	// GenerateToken returns a fresh random token and its hash.
	GenerateToken() (string, string, error)

	// HashToken hashes a plain token for lookup and storage.
	HashToken(plainToken string) string
}

// AuditSigner signs and verifies audit logs with the audit signing root key.
// Signatures cover a canonical encoding of the log so any tampering with
// stored rows is detectable.
type AuditSigner interface {
	// Sign generates an HMAC-SHA256 signature for the audit log.
	Sign(rootKey []byte, log *authDomain.AuditLog) ([]byte, error)

	// Verify checks the audit log signature against the root key.
	// Returns nil if valid, ErrSignatureInvalid otherwise.
	Verify(rootKey []byte, log *authDomain.AuditLog) error
}
