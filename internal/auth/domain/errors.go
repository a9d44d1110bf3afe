package domain

import (
	"github.com/allisson/attestations/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrClientNotFound indicates a client with the specified ID was not found.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrTokenNotFound indicates a token with the specified ID was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials indicates the client ID or secret is wrong. The same
	// error is returned for unknown clients to avoid account enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrClientInactive indicates the client exists but is deactivated.
	ErrClientInactive = errors.Wrap(errors.ErrForbidden, "client is not active")

	// ErrClientLocked indicates the client is locked out after too many failed
	// authentication attempts.
	ErrClientLocked = errors.Wrap(errors.ErrLocked, "client is locked")

	// ErrAdminCredentialNotFound indicates no active admin credential is configured.
	ErrAdminCredentialNotFound = errors.Wrap(errors.ErrNotFound, "admin credential not found")

	// ErrAdminCredentialExists indicates an active admin credential already
	// exists and must be rotated instead of bootstrapped again.
	ErrAdminCredentialExists = errors.Wrap(errors.ErrConflict, "admin credential already exists")

	// ErrInvalidAdminCredential indicates the presented admin credential does
	// not match the active one.
	ErrInvalidAdminCredential = errors.Wrap(errors.ErrUnauthorized, "invalid admin credential")

	// ErrSignatureInvalid indicates an audit log signature failed verification.
	ErrSignatureInvalid = errors.New("audit log signature is invalid")

	// ErrSigningKeyNotConfigured indicates audit log verification was requested
	// without a configured signing key.
	ErrSigningKeyNotConfigured = errors.New("audit signing key is not configured")
)
