// Package usecase holds the business flows of the auth domain: token issuing
// and validation, client administration, admin credentials and the audit
// trail around all of it.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authService "github.com/allisson/attestations/internal/auth/service"
	"github.com/allisson/attestations/internal/config"
)

// tokenUseCase issues bearer tokens against client credentials and validates
// them on every authenticated request.
type tokenUseCase struct {
	config        *config.Config
	clientRepo    ClientRepository
	tokenRepo     TokenRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
}

// Issue authenticates the client and hands out a fresh token whose lifetime
// comes from Config.AuthTokenExpiration. The plain token appears exactly once
// in the output; only its hash is stored.
//
// A missing client and a wrong secret both come back as ErrInvalidCredentials
// so callers cannot probe for client IDs. Failed attempts count toward a
// lockout: once Config.LockoutMaxAttempts is reached the client is rejected
// with ErrClientLocked until the window passes, without comparing secrets.
// Inactive clients get ErrClientInactive.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	client, err := t.clientRepo.Get(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, authDomain.ErrClientNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}

	if client.LockedUntil != nil && time.Now().UTC().Before(*client.LockedUntil) {
		return nil, authDomain.ErrClientLocked
	}

	if !t.secretService.CompareSecret(input.ClientSecret, client.Secret) {
		t.recordFailedAttempt(ctx, client)
		return nil, authDomain.ErrInvalidCredentials
	}

	// Success clears the failed attempt history. The write error is dropped
	// so bookkeeping cannot mask a valid authentication.
	if client.FailedAttempts > 0 || client.LockedUntil != nil {
		_ = t.clientRepo.UpdateLockState(ctx, client.ID, 0, nil)
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		ClientID:  client.ID,
		ExpiresAt: time.Now().UTC().Add(t.config.AuthTokenExpiration),
		CreatedAt: time.Now().UTC(),
	}
	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{PlainToken: plainToken, ExpiresAt: token.ExpiresAt}, nil
}

// recordFailedAttempt bumps the failed attempt counter and, at
// Config.LockoutMaxAttempts, starts the lockout window. The write error is
// dropped here too: bookkeeping must not mask the credential error the
// caller is about to return.
func (t *tokenUseCase) recordFailedAttempt(ctx context.Context, client *authDomain.Client) {
	attempts := client.FailedAttempts + 1

	var lockedUntil *time.Time
	if attempts >= t.config.LockoutMaxAttempts {
		until := time.Now().UTC().Add(t.config.LockoutDuration)
		lockedUntil = &until
	}

	_ = t.clientRepo.UpdateLockState(ctx, client.ID, attempts, lockedUntil)
}

// Authenticate resolves a token hash to its active client. Unknown, expired
// and revoked tokens all come back as ErrInvalidCredentials, as does a token
// whose client row is gone. Inactive clients return ErrClientInactive. Clock
// comparisons run in UTC.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if token.ExpiresAt.Before(time.Now().UTC()) || token.RevokedAt != nil {
		return nil, authDomain.ErrInvalidCredentials
	}

	client, err := t.clientRepo.Get(ctx, token.ClientID)
	if err != nil {
		if errors.Is(err, authDomain.ErrClientNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}

	return client, nil
}

// DeleteExpired removes tokens that expired before now. With dryRun it only
// counts how many tokens would be removed.
func (t *tokenUseCase) DeleteExpired(ctx context.Context, dryRun bool) (int64, error) {
	now := time.Now().UTC()

	if dryRun {
		return t.tokenRepo.CountExpiredBefore(ctx, now)
	}

	return t.tokenRepo.DeleteExpiredBefore(ctx, now)
}

// NewTokenUseCase builds the token use case from its repositories and
// services.
func NewTokenUseCase(
	config *config.Config,
	clientRepo ClientRepository,
	tokenRepo TokenRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:        config,
		clientRepo:    clientRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
	}
}
