package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
	"github.com/allisson/attestations/internal/metrics"
)

// metricsDomain labels every measurement emitted by the decorator in this package.
const metricsDomain = "attestations"

// observe reports one finished operation to the business instruments.
func observe(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	metrics.ObserveOperation(ctx, m, metricsDomain, operation, start, err)
}

// instrumentedAttestationUseCase reports every AttestationUseCase call as an
// outcome count and a latency sample.
type instrumentedAttestationUseCase struct {
	next    AttestationUseCase
	metrics metrics.BusinessMetrics
}

// NewAttestationUseCaseWithMetrics instruments useCase with the business
// metrics m.
func NewAttestationUseCaseWithMetrics(useCase AttestationUseCase, m metrics.BusinessMetrics) AttestationUseCase {
	return &instrumentedAttestationUseCase{next: useCase, metrics: m}
}

func (a *instrumentedAttestationUseCase) Create(ctx context.Context, input *attestationsDomain.CreateAttestationInput, attester uuid.UUID) (*attestationsDomain.Attestation, error) {
	start := time.Now()
	attestation, err := a.next.Create(ctx, input, attester)
	observe(ctx, a.metrics, "attestation_create", start, err)
	return attestation, err
}

func (a *instrumentedAttestationUseCase) Revoke(ctx context.Context, attestationID uuid.UUID, caller uuid.UUID) error {
	start := time.Now()
	err := a.next.Revoke(ctx, attestationID, caller)
	observe(ctx, a.metrics, "attestation_revoke", start, err)
	return err
}

func (a *instrumentedAttestationUseCase) IsValid(ctx context.Context, attestationID uuid.UUID) (bool, error) {
	start := time.Now()
	valid, err := a.next.IsValid(ctx, attestationID)
	observe(ctx, a.metrics, "attestation_is_valid", start, err)
	return valid, err
}

func (a *instrumentedAttestationUseCase) GetDetails(ctx context.Context, attestationID uuid.UUID) (*attestationsDomain.Attestation, error) {
	start := time.Now()
	attestation, err := a.next.GetDetails(ctx, attestationID)
	observe(ctx, a.metrics, "attestation_get_details", start, err)
	return attestation, err
}

func (a *instrumentedAttestationUseCase) QueryBySubject(ctx context.Context, subject string, offset, limit int) ([]uuid.UUID, error) {
	start := time.Now()
	ids, err := a.next.QueryBySubject(ctx, subject, offset, limit)
	observe(ctx, a.metrics, "query_by_subject", start, err)
	return ids, err
}

func (a *instrumentedAttestationUseCase) QueryBySchema(ctx context.Context, schemaID uuid.UUID, offset, limit int) ([]uuid.UUID, error) {
	start := time.Now()
	ids, err := a.next.QueryBySchema(ctx, schemaID, offset, limit)
	observe(ctx, a.metrics, "query_by_schema", start, err)
	return ids, err
}
