package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	"github.com/allisson/attestations/internal/metrics"
)

// metricsDomain labels every measurement emitted by the decorators in this package.
const metricsDomain = "auth"

// observe begins a measurement and returns the recorder to defer. The error
// pointed at is read when the surrounding call returns, so callers hand in a
// named error result.
func observe(ctx context.Context, m metrics.BusinessMetrics, operation string, err *error) func() {
	start := time.Now()
	return func() {
		metrics.ObserveOperation(ctx, m, metricsDomain, operation, start, *err)
	}
}

// instrumentedClientUseCase reports every ClientUseCase call as an outcome
// count and a latency sample.
type instrumentedClientUseCase struct {
	next ClientUseCase
	m    metrics.BusinessMetrics
}

// NewClientUseCaseWithMetrics instruments base with the business metrics m.
func NewClientUseCaseWithMetrics(base ClientUseCase, m metrics.BusinessMetrics) ClientUseCase {
	return &instrumentedClientUseCase{next: base, m: m}
}

func (c *instrumentedClientUseCase) Create(
	ctx context.Context, input *authDomain.CreateClientInput,
) (_ *authDomain.CreateClientOutput, err error) {
	defer observe(ctx, c.m, "client_create", &err)()
	return c.next.Create(ctx, input)
}

func (c *instrumentedClientUseCase) Update(
	ctx context.Context, clientID uuid.UUID, input *authDomain.UpdateClientInput,
) (err error) {
	defer observe(ctx, c.m, "client_update", &err)()
	return c.next.Update(ctx, clientID, input)
}

func (c *instrumentedClientUseCase) Get(ctx context.Context, clientID uuid.UUID) (_ *authDomain.Client, err error) {
	defer observe(ctx, c.m, "client_get", &err)()
	return c.next.Get(ctx, clientID)
}

func (c *instrumentedClientUseCase) List(ctx context.Context, offset, limit int) (_ []*authDomain.Client, err error) {
	defer observe(ctx, c.m, "client_list", &err)()
	return c.next.List(ctx, offset, limit)
}

func (c *instrumentedClientUseCase) Delete(ctx context.Context, clientID uuid.UUID) (err error) {
	defer observe(ctx, c.m, "client_delete", &err)()
	return c.next.Delete(ctx, clientID)
}

func (c *instrumentedClientUseCase) Unlock(ctx context.Context, clientID uuid.UUID) (err error) {
	defer observe(ctx, c.m, "client_unlock", &err)()
	return c.next.Unlock(ctx, clientID)
}

// instrumentedTokenUseCase reports every TokenUseCase call as an outcome
// count and a latency sample.
type instrumentedTokenUseCase struct {
	next TokenUseCase
	m    metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics instruments base with the business metrics m.
func NewTokenUseCaseWithMetrics(base TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &instrumentedTokenUseCase{next: base, m: m}
}

func (t *instrumentedTokenUseCase) Issue(
	ctx context.Context, input *authDomain.IssueTokenInput,
) (_ *authDomain.IssueTokenOutput, err error) {
	defer observe(ctx, t.m, "token_issue", &err)()
	return t.next.Issue(ctx, input)
}

func (t *instrumentedTokenUseCase) Authenticate(
	ctx context.Context, tokenHash string,
) (_ *authDomain.Client, err error) {
	defer observe(ctx, t.m, "token_authenticate", &err)()
	return t.next.Authenticate(ctx, tokenHash)
}

func (t *instrumentedTokenUseCase) DeleteExpired(ctx context.Context, dryRun bool) (_ int64, err error) {
	defer observe(ctx, t.m, "token_delete_expired", &err)()
	return t.next.DeleteExpired(ctx, dryRun)
}

// instrumentedAuditLogUseCase reports every AuditLogUseCase call as an
// outcome count and a latency sample.
type instrumentedAuditLogUseCase struct {
	next AuditLogUseCase
	m    metrics.BusinessMetrics
}

// NewAuditLogUseCaseWithMetrics instruments base with the business metrics m.
func NewAuditLogUseCaseWithMetrics(base AuditLogUseCase, m metrics.BusinessMetrics) AuditLogUseCase {
	return &instrumentedAuditLogUseCase{next: base, m: m}
}

func (a *instrumentedAuditLogUseCase) Create(
	ctx context.Context,
	requestID uuid.UUID,
	clientID uuid.UUID,
	capability authDomain.Capability,
	path string,
	metadata map[string]any,
) (err error) {
	defer observe(ctx, a.m, "audit_log_create", &err)()
	return a.next.Create(ctx, requestID, clientID, capability, path, metadata)
}

func (a *instrumentedAuditLogUseCase) List(
	ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time,
) (_ []*authDomain.AuditLog, err error) {
	defer observe(ctx, a.m, "audit_log_list", &err)()
	return a.next.List(ctx, offset, limit, createdAtFrom, createdAtTo)
}

func (a *instrumentedAuditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (_ int64, err error) {
	defer observe(ctx, a.m, "audit_log_delete", &err)()
	return a.next.DeleteOlderThan(ctx, days, dryRun)
}

func (a *instrumentedAuditLogUseCase) VerifyBatch(
	ctx context.Context, startTime, endTime time.Time,
) (_ *VerificationReport, err error) {
	defer observe(ctx, a.m, "audit_log_verify_batch", &err)()
	return a.next.VerifyBatch(ctx, startTime, endTime)
}

// instrumentedAdminCredentialUseCase reports every AdminCredentialUseCase
// call as an outcome count and a latency sample.
type instrumentedAdminCredentialUseCase struct {
	next AdminCredentialUseCase
	m    metrics.BusinessMetrics
}

// NewAdminCredentialUseCaseWithMetrics instruments base with the business
// metrics m.
func NewAdminCredentialUseCaseWithMetrics(base AdminCredentialUseCase, m metrics.BusinessMetrics) AdminCredentialUseCase {
	return &instrumentedAdminCredentialUseCase{next: base, m: m}
}

func (a *instrumentedAdminCredentialUseCase) Bootstrap(ctx context.Context) (_ string, err error) {
	defer observe(ctx, a.m, "admin_credential_bootstrap", &err)()
	return a.next.Bootstrap(ctx)
}

func (a *instrumentedAdminCredentialUseCase) Rotate(ctx context.Context) (_ string, err error) {
	defer observe(ctx, a.m, "admin_credential_rotate", &err)()
	return a.next.Rotate(ctx)
}

func (a *instrumentedAdminCredentialUseCase) Verify(ctx context.Context, plainCredential string) (err error) {
	defer observe(ctx, a.m, "admin_credential_verify", &err)()
	return a.next.Verify(ctx, plainCredential)
}
