package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
)

// postgresAuditLogColumns is the column order expected by scanPostgresAuditLog.
const postgresAuditLogColumns = `id, request_id, client_id, capability, path, metadata, signature, created_at`

// PostgreSQLAuditLogRepository implements AuditLog persistence for PostgreSQL.
// UUIDs use the native uuid type, metadata a nullable JSONB column.
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// scanPostgresAuditLog decodes one audit_logs row. A NULL metadata column
// comes back as a nil map.
func scanPostgresAuditLog(scan func(dest ...any) error) (*authDomain.AuditLog, error) {
	var (
		auditLog     authDomain.AuditLog
		capability   string
		metadataJSON []byte
	)

	err := scan(
		&auditLog.ID,
		&auditLog.RequestID,
		&auditLog.ClientID,
		&capability,
		&auditLog.Path,
		&metadataJSON,
		&auditLog.Signature,
		&auditLog.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	auditLog.Capability = authDomain.Capability(capability)

	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &auditLog.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
		}
	}

	return &auditLog, nil
}

// Create inserts a new AuditLog. Nil metadata and nil signature are stored as
// database NULL.
func (p *PostgreSQLAuditLogRepository) Create(ctx context.Context, auditLog *authDomain.AuditLog) error {
	querier := database.GetTx(ctx, p.db)

	var metadataJSON []byte
	if auditLog.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(auditLog.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log metadata")
		}
	}

	query := `INSERT INTO audit_logs (` + postgresAuditLogColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(ctx, query,
		auditLog.ID,
		auditLog.RequestID,
		auditLog.ClientID,
		string(auditLog.Capability),
		auditLog.Path,
		metadataJSON,
		auditLog.Signature,
		auditLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending with pagination.
// createdAtFrom and createdAtTo bound the window inclusively; nil means
// unbounded on that side.
func (p *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*authDomain.AuditLog, error) {
	querier := database.GetTx(ctx, p.db)

	var (
		conditions []string
		args       []any
	)
	if createdAtFrom != nil {
		args = append(args, *createdAtFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if createdAtTo != nil {
		args = append(args, *createdAtTo)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT ` + postgresAuditLogColumns + ` FROM audit_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Empty slice rather than nil so callers can serialize the result directly.
	auditLogs := make([]*authDomain.AuditLog, 0)
	for rows.Next() {
		auditLog, err := scanPostgresAuditLog(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log row")
		}
		auditLogs = append(auditLogs, auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating audit log rows")
	}

	return auditLogs, nil
}

// DeleteOlderThan removes audit logs created before the cutoff and returns
// the number of rows removed.
func (p *PostgreSQLAuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// CountOlderThan returns the number of audit logs created before the cutoff.
func (p *PostgreSQLAuditLogRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE created_at < $1`, cutoff).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit logs")
	}

	return count, nil
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL AuditLog repository.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}
