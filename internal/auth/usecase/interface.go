// Package usecase defines business logic interfaces for authentication and authorization operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

// ClientRepository persists authentication clients. Implementations join an
// ambient transaction when one is carried in the context.
type ClientRepository interface {
	Create(ctx context.Context, client *authDomain.Client) error
	Update(ctx context.Context, client *authDomain.Client) error

	// Get returns ErrClientNotFound for unknown IDs.
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)

	// List pages clients ordered by ID descending.
	List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error)

	// UpdateLockState atomically sets the failed attempt counter and lock
	// expiry. A nil lockedUntil clears the lock.
	UpdateLockState(ctx context.Context, clientID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
}

// TokenRepository persists bearer tokens. Implementations join an ambient
// transaction when one is carried in the context.
type TokenRepository interface {
	Create(ctx context.Context, token *authDomain.Token) error
	Update(ctx context.Context, token *authDomain.Token) error

	// Get returns ErrTokenNotFound for unknown IDs.
	Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error)

	// GetByTokenHash looks a token up by its SHA-256 hash and returns
	// ErrTokenNotFound when no row matches.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)

	// DeleteExpiredBefore removes tokens whose expiry lies before the cutoff
	// and reports how many were removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CountExpiredBefore counts the tokens DeleteExpiredBefore would remove.
	CountExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditLogRepository persists the append-only audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *authDomain.AuditLog) error

	// List pages entries newest first. The optional bounds are inclusive and
	// nil means unbounded.
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*authDomain.AuditLog, error)

	// DeleteOlderThan removes entries created before the cutoff and reports
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// CountOlderThan counts the entries DeleteOlderThan would remove.
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AdminCredentialRepository persists the registry administrator credential.
// At most one credential is active at any time.
type AdminCredentialRepository interface {
	Create(ctx context.Context, credential *authDomain.AdminCredential) error

	// GetActive returns the single active credential, or
	// ErrAdminCredentialNotFound when none is active.
	GetActive(ctx context.Context) (*authDomain.AdminCredential, error)

	// Deactivate marks a credential inactive and records when it was rotated out.
	Deactivate(ctx context.Context, credentialID uuid.UUID, rotatedAt time.Time) error
}

// ClientUseCase manages the lifecycle of authentication clients: registration
// with generated secrets, policy updates, soft deletion and lockout recovery.
type ClientUseCase interface {
	// Create registers a client and generates its secret. The plain secret
	// appears only in the returned output; the store keeps the hash, so it
	// cannot be recovered later.
	Create(ctx context.Context, input *authDomain.CreateClientInput) (*authDomain.CreateClientOutput, error)

	// Update replaces a client's name, active flag and policies. The ID,
	// secret and creation time are untouched. Returns ErrClientNotFound for
	// unknown IDs.
	Update(ctx context.Context, clientID uuid.UUID, input *authDomain.UpdateClientInput) error

	// Get returns the client including its hashed secret and policies, or
	// ErrClientNotFound for unknown IDs.
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)

	// List pages clients ordered by ID descending.
	List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error)

	// Delete deactivates the client but keeps the record, so history stays
	// intact and Update can reactivate it. Returns ErrClientNotFound for
	// unknown IDs.
	Delete(ctx context.Context, clientID uuid.UUID) error

	// Unlock clears a client's lockout before the window expires.
	// Returns ErrClientNotFound for unknown IDs.
	Unlock(ctx context.Context, clientID uuid.UUID) error
}

// TokenUseCase issues and validates bearer tokens.
type TokenUseCase interface {
	// Issue authenticates a client by ID and secret and hands out a fresh
	// token. Returns ErrInvalidCredentials for unknown clients and wrong
	// secrets, ErrClientInactive for deactivated clients, and
	// ErrClientLocked while a lockout is in effect.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves a token hash to its owning client. Returns
	// ErrInvalidCredentials for unknown, expired, or revoked tokens.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error)

	// DeleteExpired removes tokens that expired before now, or only counts
	// them when dryRun is set.
	DeleteExpired(ctx context.Context, dryRun bool) (int64, error)
}

// AuditLogUseCase records and maintains the audit trail.
type AuditLogUseCase interface {
	// Create records one entry for an authenticated operation. When a signing
	// key is configured the entry is signed before persistence.
	Create(
		ctx context.Context,
		requestID uuid.UUID,
		clientID uuid.UUID,
		capability authDomain.Capability,
		path string,
		metadata map[string]any,
	) error

	// List pages entries newest first. The optional bounds are inclusive and
	// nil means unbounded.
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*authDomain.AuditLog, error)

	// DeleteOlderThan removes entries older than the given number of days, or
	// only counts them when dryRun is set.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)

	// VerifyBatch re-checks the signature of every entry in the inclusive
	// time range and reports unsigned and tampered ones.
	VerifyBatch(ctx context.Context, startTime, endTime time.Time) (*VerificationReport, error)
}

// AdminCredentialUseCase manages the registry administrator credential that
// authorizes schema creator policy changes.
type AdminCredentialUseCase interface {
	// Bootstrap creates the first admin credential and returns the plain
	// value, which is shown exactly once. Returns ErrAdminCredentialExists
	// if an active credential is already present.
	Bootstrap(ctx context.Context) (string, error)

	// Rotate retires the active credential and returns a fresh plain value.
	// Returns ErrAdminCredentialNotFound when there is nothing to rotate.
	Rotate(ctx context.Context) (string, error)

	// Verify checks a presented plain credential against the active one and
	// returns ErrInvalidAdminCredential on mismatch or when none is active.
	Verify(ctx context.Context, plainCredential string) error
}
