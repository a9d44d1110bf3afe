package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	"github.com/allisson/attestations/internal/database"
	apperrors "github.com/allisson/attestations/internal/errors"
)

// mysqlAuditLogColumns is the column order expected by scanMySQLAuditLog.
const mysqlAuditLogColumns = `id, request_id, client_id, capability, path, metadata, signature, created_at`

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// UUIDs are stored as BINARY(16), metadata as a nullable JSON column.
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// scanMySQLAuditLog decodes one audit_logs row. A NULL metadata column comes
// back as a nil map.
func scanMySQLAuditLog(scan func(dest ...any) error) (*authDomain.AuditLog, error) {
	var (
		auditLog       authDomain.AuditLog
		idBytes        []byte
		requestIDBytes []byte
		clientIDBytes  []byte
		capability     string
		metadataJSON   []byte
	)

	err := scan(
		&idBytes,
		&requestIDBytes,
		&clientIDBytes,
		&capability,
		&auditLog.Path,
		&metadataJSON,
		&auditLog.Signature,
		&auditLog.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := auditLog.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit log id")
	}
	if err := auditLog.RequestID.UnmarshalBinary(requestIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit log request_id")
	}
	if err := auditLog.ClientID.UnmarshalBinary(clientIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit log client_id")
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
func (m *MySQLAuditLogRepository) Create(ctx context.Context, auditLog *authDomain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	id, err := auditLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log id")
	}

	requestID, err := auditLog.RequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log request_id")
	}

	clientID, err := auditLog.ClientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log client_id")
	}

	var metadataJSON []byte
	if auditLog.Metadata != nil {
		metadataJSON, err = json.Marshal(auditLog.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log metadata")
		}
	}

	query := `INSERT INTO audit_logs (` + mysqlAuditLogColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		id,
		requestID,
		clientID,
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
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*authDomain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	var (
		conditions []string
		args       []any
	)
	if createdAtFrom != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *createdAtFrom)
	}
	if createdAtTo != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *createdAtTo)
	}

	query := `SELECT ` + mysqlAuditLogColumns + ` FROM audit_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

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
		auditLog, err := scanMySQLAuditLog(rows.Scan)
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
func (m *MySQLAuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, cutoff)
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
func (m *MySQLAuditLogRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE created_at < ?`, cutoff).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit logs")
	}

	return count, nil
}

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}
