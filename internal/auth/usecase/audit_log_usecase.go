// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authService "github.com/allisson/attestations/internal/auth/service"
	apperrors "github.com/allisson/attestations/internal/errors"
)

// verifyBatchSize limits how many audit logs are loaded per page during batch verification.
const verifyBatchSize = 500

// VerificationReport summarizes the outcome of a batch signature verification run.
type VerificationReport struct {
	TotalChecked int64
	Signed       int64
	Unsigned     int64
	Valid        int64
	Invalid      int64
	InvalidIDs   []uuid.UUID
}

// auditLogUseCase implements AuditLogUseCase interface for recording audit logs.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	auditSigner  authService.AuditSigner
	signingKey   []byte
}

// Create records an audit log entry for an authenticated operation. Generates a unique
// UUIDv7 identifier and timestamp. The metadata parameter is optional and can be nil.
// When a signing key is configured the entry is signed before persistence so stored
// rows are tamper-evident.
func (a *auditLogUseCase) Create(
	ctx context.Context,
	requestID uuid.UUID,
	clientID uuid.UUID,
	capability authDomain.Capability,
	path string,
	metadata map[string]any,
) error {
	// Create the audit log entity
	auditLog := &authDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  requestID,
		ClientID:   clientID,
		Capability: capability,
		Path:       path,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}

	// Sign before persistence so the stored row can be verified later
	if len(a.signingKey) > 0 {
		signature, err := a.auditSigner.Sign(a.signingKey, auditLog)
		if err != nil {
			return apperrors.Wrap(err, "failed to sign audit log")
		}
		auditLog.Signature = signature
	}

	// Persist the audit log
	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending (newest first) with pagination
// and optional time-based filtering. Accepts createdAtFrom and createdAtTo as optional filters
// (nil means no filter). Both boundaries are inclusive (>= and <=). All timestamps are expected
// in UTC. Returns empty slice if no audit logs found.
func (a *auditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*authDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// DeleteOlderThan removes audit logs older than the given number of days.
// With dryRun it only counts how many logs would be removed.
func (a *auditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		return a.auditLogRepo.CountOlderThan(ctx, cutoff)
	}

	return a.auditLogRepo.DeleteOlderThan(ctx, cutoff)
}

// VerifyBatch re-computes signatures for all audit logs created in the inclusive
// time range and reports tampered or unsigned entries. Logs are processed in
// pages of verifyBatchSize to bound memory usage.
// Returns ErrSigningKeyNotConfigured when no signing key is configured.
func (a *auditLogUseCase) VerifyBatch(
	ctx context.Context,
	startTime, endTime time.Time,
) (*VerificationReport, error) {
	if len(a.signingKey) == 0 {
		return nil, authDomain.ErrSigningKeyNotConfigured
	}

	report := &VerificationReport{}

	offset := 0
	for {
		auditLogs, err := a.auditLogRepo.List(ctx, offset, verifyBatchSize, &startTime, &endTime)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit logs for verification")
		}

		for _, auditLog := range auditLogs {
			report.TotalChecked++

			// Entries created before signing was enabled carry no signature
			if len(auditLog.Signature) == 0 {
				report.Unsigned++
				continue
			}

			report.Signed++
			if err := a.auditSigner.Verify(a.signingKey, auditLog); err != nil {
				if errors.Is(err, authDomain.ErrSignatureInvalid) {
					report.Invalid++
					report.InvalidIDs = append(report.InvalidIDs, auditLog.ID)
					continue
				}
				return nil, apperrors.Wrap(err, "failed to verify audit log signature")
			}
			report.Valid++
		}

		if len(auditLogs) < verifyBatchSize {
			break
		}
		offset += verifyBatchSize
	}

	return report, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
// A nil or empty signingKey disables audit log signing.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	auditSigner authService.AuditSigner,
	signingKey []byte,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		auditSigner:  auditSigner,
		signingKey:   signingKey,
	}
}
