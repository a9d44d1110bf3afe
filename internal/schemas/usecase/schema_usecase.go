package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
	outboxDomain "github.com/allisson/attestations/internal/outbox/domain"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// schemaUseCase implements the SchemaUseCase interface.
type schemaUseCase struct {
	txManager  database.TxManager
	schemaRepo SchemaRepository
	policyRepo CreatorPolicyRepository
	outboxRepo OutboxEventRepository
}

// Register stores a new immutable schema after checking the creator policy,
// writing the schema row and its schema.registered event in one transaction.
func (s *schemaUseCase) Register(
	ctx context.Context,
	input *schemasDomain.RegisterSchemaInput,
	caller uuid.UUID,
) (*schemasDomain.Schema, error) {
	var newSchema *schemasDomain.Schema

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		// Load the active creator policy; no stored policy means unrestricted
		policy, err := s.policyRepo.GetActive(txCtx)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			policy = &schemasDomain.CreatorPolicy{}
		}

		if !policy.Allows(caller) {
			return schemasDomain.ErrUnauthorizedSchemaCreator
		}

		newSchema = &schemasDomain.Schema{
			ID:                  uuid.Must(uuid.NewV7()),
			Name:                strings.TrimSpace(input.Name),
			Description:         input.Description,
			Creator:             caller,
			Revocable:           input.Revocable,
			AuthorizedAttesters: input.AuthorizedAttesters,
			CreatedAt:           time.Now().UTC(),
		}

		if err := s.schemaRepo.Create(txCtx, newSchema); err != nil {
			return err
		}

		// Create schema.registered event payload
		eventPayload := map[string]interface{}{
			"schema_id": newSchema.ID,
			"name":      newSchema.Name,
			"creator":   newSchema.Creator,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: outboxDomain.EventTypeSchemaRegistered,
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
			Retries:   0,
		}

		if err := s.outboxRepo.Create(txCtx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newSchema, nil
}

// Lookup retrieves a schema by ID.
func (s *schemaUseCase) Lookup(
	ctx context.Context,
	schemaID uuid.UUID,
) (*schemasDomain.Schema, error) {
	return s.schemaRepo.Get(ctx, schemaID)
}

// List retrieves schemas ordered by ID descending with pagination support.
func (s *schemaUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*schemasDomain.Schema, error) {
	return s.schemaRepo.List(ctx, offset, limit)
}

// GetCreators retrieves the active creator policy, mapping an absent policy to
// an empty (unrestricted) one.
func (s *schemaUseCase) GetCreators(ctx context.Context) (*schemasDomain.CreatorPolicy, error) {
	policy, err := s.policyRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &schemasDomain.CreatorPolicy{Creators: []uuid.UUID{}}, nil
		}
		return nil, err
	}
	return policy, nil
}

// UpdateCreators appends a new creator policy version carrying the given list.
// The replacement is wholesale: the previous list is never merged in.
func (s *schemaUseCase) UpdateCreators(
	ctx context.Context,
	creators []uuid.UUID,
	updatedBy uuid.UUID,
) error {
	if creators == nil {
		creators = []uuid.UUID{}
	}

	policy := &schemasDomain.CreatorPolicy{
		ID:        uuid.Must(uuid.NewV7()),
		Creators:  creators,
		UpdatedBy: updatedBy,
		CreatedAt: time.Now().UTC(),
	}

	return s.policyRepo.Create(ctx, policy)
}

// NewSchemaUseCase creates a new schema use case instance with the provided dependencies.
func NewSchemaUseCase(
	txManager database.TxManager,
	schemaRepo SchemaRepository,
	policyRepo CreatorPolicyRepository,
	outboxRepo OutboxEventRepository,
) SchemaUseCase {
	return &schemaUseCase{
		txManager:  txManager,
		schemaRepo: schemaRepo,
		policyRepo: policyRepo,
		outboxRepo: outboxRepo,
	}
}
