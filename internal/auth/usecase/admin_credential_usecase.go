// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"crypto/hmac"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authService "github.com/allisson/attestations/internal/auth/service"
	"github.com/allisson/attestations/internal/database"
)

// adminCredentialUseCase implements AdminCredentialUseCase for the registry
// administrator credential. The credential gates schema creator policy changes
// and is stored hashed, like client tokens.
type adminCredentialUseCase struct {
	txManager           database.TxManager
	adminCredentialRepo AdminCredentialRepository
	tokenService        authService.TokenService
}

// Bootstrap creates the initial admin credential and returns the plain credential.
// The plain credential is only returned once and must be stored securely by the
// operator. Returns ErrAdminCredentialExists if an active credential already exists.
func (a *adminCredentialUseCase) Bootstrap(ctx context.Context) (string, error) {
	// Refuse to bootstrap twice
	_, err := a.adminCredentialRepo.GetActive(ctx)
	if err == nil {
		return "", authDomain.ErrAdminCredentialExists
	}
	if !errors.Is(err, authDomain.ErrAdminCredentialNotFound) {
		return "", err
	}

	plainCredential, credentialHash, err := a.tokenService.GenerateToken()
	if err != nil {
		return "", err
	}

	credential := &authDomain.AdminCredential{
		ID:             uuid.Must(uuid.NewV7()),
		CredentialHash: credentialHash,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := a.adminCredentialRepo.Create(ctx, credential); err != nil {
		return "", err
	}

	return plainCredential, nil
}

// Rotate deactivates the current admin credential and creates a new one in a
// single transaction, returning the new plain credential.
// Returns ErrAdminCredentialNotFound if no active credential exists.
func (a *adminCredentialUseCase) Rotate(ctx context.Context) (string, error) {
	plainCredential, credentialHash, err := a.tokenService.GenerateToken()
	if err != nil {
		return "", err
	}

	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		current, err := a.adminCredentialRepo.GetActive(txCtx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := a.adminCredentialRepo.Deactivate(txCtx, current.ID, now); err != nil {
			return err
		}

		credential := &authDomain.AdminCredential{
			ID:             uuid.Must(uuid.NewV7()),
			CredentialHash: credentialHash,
			IsActive:       true,
			CreatedAt:      now,
		}

		return a.adminCredentialRepo.Create(txCtx, credential)
	})
	if err != nil {
		return "", err
	}

	return plainCredential, nil
}

// Verify checks a presented plain credential against the active one.
// Returns ErrInvalidAdminCredential on mismatch. A missing active credential is
// reported the same way so callers can't probe whether bootstrap has happened.
func (a *adminCredentialUseCase) Verify(ctx context.Context, plainCredential string) error {
	credential, err := a.adminCredentialRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, authDomain.ErrAdminCredentialNotFound) {
			return authDomain.ErrInvalidAdminCredential
		}
		return err
	}

	presentedHash := a.tokenService.HashToken(plainCredential)
	if !hmac.Equal([]byte(presentedHash), []byte(credential.CredentialHash)) {
		return authDomain.ErrInvalidAdminCredential
	}

	return nil
}

// NewAdminCredentialUseCase creates a new AdminCredentialUseCase with the provided dependencies.
func NewAdminCredentialUseCase(
	txManager database.TxManager,
	adminCredentialRepo AdminCredentialRepository,
	tokenService authService.TokenService,
) AdminCredentialUseCase {
	return &adminCredentialUseCase{
		txManager:           txManager,
		adminCredentialRepo: adminCredentialRepo,
		tokenService:        tokenService,
	}
}
