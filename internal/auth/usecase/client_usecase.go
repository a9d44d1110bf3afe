// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authService "github.com/allisson/attestations/internal/auth/service"
)

type clientUseCase struct {
	clientRepo    ClientRepository
	secretService authService.SecretService
}

// Create registers a client with a freshly generated secret. The plain
// secret appears only in the returned output; storage sees the hash.
func (c *clientUseCase) Create(ctx context.Context, input *authDomain.CreateClientInput) (*authDomain.CreateClientOutput, error) {
	plainSecret, hashedSecret, err := c.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	client := &authDomain.Client{
		ID:        uuid.Must(uuid.NewV7()),
		Secret:    hashedSecret,
		Name:      input.Name,
		IsActive:  input.IsActive,
		Policies:  input.Policies,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return &authDomain.CreateClientOutput{ID: client.ID, PlainSecret: plainSecret}, nil
}

// Update replaces the client's name, active flag, and policies. The ID and
// secret are immutable.
func (c *clientUseCase) Update(ctx context.Context, clientID uuid.UUID, input *authDomain.UpdateClientInput) error {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		return err
	}

	client.Name = input.Name
	client.IsActive = input.IsActive
	client.Policies = input.Policies

	return c.clientRepo.Update(ctx, client)
}

func (c *clientUseCase) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	return c.clientRepo.Get(ctx, clientID)
}

// Delete deactivates the client instead of removing the row, so audit
// history keeps resolving the client ID.
func (c *clientUseCase) Delete(ctx context.Context, clientID uuid.UUID) error {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		return err
	}

	client.IsActive = false

	return c.clientRepo.Update(ctx, client)
}

func (c *clientUseCase) List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error) {
	return c.clientRepo.List(ctx, offset, limit)
}

// Unlock clears the brute-force lockout state so the client can
// authenticate again immediately.
func (c *clientUseCase) Unlock(ctx context.Context, clientID uuid.UUID) error {
	if _, err := c.clientRepo.Get(ctx, clientID); err != nil {
		return err
	}
	return c.clientRepo.UpdateLockState(ctx, clientID, 0, nil)
}

// NewClientUseCase creates a ClientUseCase backed by the given repository
// and secret service.
func NewClientUseCase(clientRepo ClientRepository, secretService authService.SecretService) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}
