package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/attestations/internal/metrics"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// metricsDomain labels every measurement emitted by the decorator in this package.
const metricsDomain = "schemas"

// observe reports one finished operation to the business instruments.
func observe(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	metrics.ObserveOperation(ctx, m, metricsDomain, operation, start, err)
}

// instrumentedSchemaUseCase reports every SchemaUseCase call as an outcome
// count and a latency sample.
type instrumentedSchemaUseCase struct {
	next    SchemaUseCase
	metrics metrics.BusinessMetrics
}

// NewSchemaUseCaseWithMetrics instruments useCase with the business metrics m.
func NewSchemaUseCaseWithMetrics(useCase SchemaUseCase, m metrics.BusinessMetrics) SchemaUseCase {
	return &instrumentedSchemaUseCase{next: useCase, metrics: m}
}

func (s *instrumentedSchemaUseCase) Register(ctx context.Context, input *schemasDomain.RegisterSchemaInput, caller uuid.UUID) (*schemasDomain.Schema, error) {
	start := time.Now()
	schema, err := s.next.Register(ctx, input, caller)
	observe(ctx, s.metrics, "schema_register", start, err)
	return schema, err
}

func (s *instrumentedSchemaUseCase) Lookup(ctx context.Context, schemaID uuid.UUID) (*schemasDomain.Schema, error) {
	start := time.Now()
	schema, err := s.next.Lookup(ctx, schemaID)
	observe(ctx, s.metrics, "schema_lookup", start, err)
	return schema, err
}

func (s *instrumentedSchemaUseCase) List(ctx context.Context, offset, limit int) ([]*schemasDomain.Schema, error) {
	start := time.Now()
	schemas, err := s.next.List(ctx, offset, limit)
	observe(ctx, s.metrics, "schema_list", start, err)
	return schemas, err
}

func (s *instrumentedSchemaUseCase) GetCreators(ctx context.Context) (*schemasDomain.CreatorPolicy, error) {
	start := time.Now()
	policy, err := s.next.GetCreators(ctx)
	observe(ctx, s.metrics, "creator_policy_get", start, err)
	return policy, err
}

func (s *instrumentedSchemaUseCase) UpdateCreators(ctx context.Context, creators []uuid.UUID, updatedBy uuid.UUID) error {
	start := time.Now()
	err := s.next.UpdateCreators(ctx, creators, updatedBy)
	observe(ctx, s.metrics, "creator_policy_update", start, err)
	return err
}
