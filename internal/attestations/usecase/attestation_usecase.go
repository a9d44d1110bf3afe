package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
	outboxDomain "github.com/allisson/attestations/internal/outbox/domain"
)

// attestationUseCase implements the AttestationUseCase interface.
type attestationUseCase struct {
	txManager       database.TxManager
	attestationRepo AttestationRepository
	schemaRepo      SchemaRepository
	outboxRepo      OutboxEventRepository
}

// Create stores a new attestation after resolving the schema and checking its
// attester policy. The attestation row, both index entries, and the
// attestation.created event are written in one transaction, so a failure at
// any step leaves no trace.
func (a *attestationUseCase) Create(
	ctx context.Context,
	input *attestationsDomain.CreateAttestationInput,
	attester uuid.UUID,
) (*attestationsDomain.Attestation, error) {
	var newAttestation *attestationsDomain.Attestation

	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		// Resolve the schema; its attester list is the authorization policy
		schema, err := a.schemaRepo.Get(txCtx, input.SchemaID)
		if err != nil {
			return err
		}

		if !schema.IsAuthorizedAttester(attester) {
			return attestationsDomain.ErrUnauthorizedAttester
		}

		newAttestation = &attestationsDomain.Attestation{
			ID:        uuid.Must(uuid.NewV7()),
			SchemaID:  schema.ID,
			Attester:  attester,
			Subject:   input.Subject,
			Data:      input.Data,
			Revoked:   false,
			CreatedAt: time.Now().UTC(),
		}

		if err := a.attestationRepo.Create(txCtx, newAttestation); err != nil {
			return err
		}

		// Create attestation.created event payload
		eventPayload := map[string]interface{}{
			"attestation_id": newAttestation.ID,
			"schema_id":      newAttestation.SchemaID,
			"attester":       newAttestation.Attester,
			"subject":        newAttestation.Subject,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: outboxDomain.EventTypeAttestationCreated,
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
			Retries:   0,
		}

		if err := a.outboxRepo.Create(txCtx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newAttestation, nil
}

// Revoke marks an attestation as revoked and writes the attestation.revoked
// event in the same transaction. Revoking an already-revoked attestation
// returns nil without touching the row or emitting an event.
func (a *attestationUseCase) Revoke(
	ctx context.Context,
	attestationID uuid.UUID,
	caller uuid.UUID,
) error {
	return a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		attestation, err := a.attestationRepo.Get(txCtx, attestationID)
		if err != nil {
			return err
		}

		// Only the original attester may revoke
		if attestation.Attester != caller {
			return attestationsDomain.ErrUnauthorizedAttester
		}

		// Already revoked: harmless no-op, no event
		if attestation.Revoked {
			return nil
		}

		revokedAt := time.Now().UTC()
		if err := a.attestationRepo.SetRevoked(txCtx, attestationID, revokedAt); err != nil {
			return err
		}

		// Create attestation.revoked event payload
		eventPayload := map[string]interface{}{
			"attestation_id": attestation.ID,
			"schema_id":      attestation.SchemaID,
			"attester":       attestation.Attester,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: outboxDomain.EventTypeAttestationRevoked,
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
			Retries:   0,
		}

		if err := a.outboxRepo.Create(txCtx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
}

// IsValid reports whether the attestation has not been revoked.
func (a *attestationUseCase) IsValid(ctx context.Context, attestationID uuid.UUID) (bool, error) {
	attestation, err := a.attestationRepo.Get(ctx, attestationID)
	if err != nil {
		return false, err
	}
	return attestation.IsValid(), nil
}

// GetDetails retrieves the full attestation record.
func (a *attestationUseCase) GetDetails(
	ctx context.Context,
	attestationID uuid.UUID,
) (*attestationsDomain.Attestation, error) {
	return a.attestationRepo.Get(ctx, attestationID)
}

// QueryBySubject retrieves attestation IDs for a subject in creation order.
func (a *attestationUseCase) QueryBySubject(
	ctx context.Context,
	subject string,
	offset, limit int,
) ([]uuid.UUID, error) {
	return a.attestationRepo.QueryBySubject(ctx, subject, offset, limit)
}

// QueryBySchema retrieves attestation IDs for a schema in creation order.
func (a *attestationUseCase) QueryBySchema(
	ctx context.Context,
	schemaID uuid.UUID,
	offset, limit int,
) ([]uuid.UUID, error) {
	return a.attestationRepo.QueryBySchema(ctx, schemaID, offset, limit)
}

// NewAttestationUseCase creates a new attestation use case instance with the
// provided dependencies.
func NewAttestationUseCase(
	txManager database.TxManager,
	attestationRepo AttestationRepository,
	schemaRepo SchemaRepository,
	outboxRepo OutboxEventRepository,
) AttestationUseCase {
	return &attestationUseCase{
		txManager:       txManager,
		attestationRepo: attestationRepo,
		schemaRepo:      schemaRepo,
		outboxRepo:      outboxRepo,
	}
}
