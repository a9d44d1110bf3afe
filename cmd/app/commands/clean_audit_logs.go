package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
)

// RunCleanAuditLogs deletes audit logs older than the given number of days and
// writes the affected count to w, as text or as JSON. With dryRun set it only
// counts and deletes nothing.
func RunCleanAuditLogs(
	ctx context.Context,
	auditLogUseCase authUseCase.AuditLogUseCase,
	logger *slog.Logger,
	w io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning audit logs",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := auditLogUseCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete audit logs: %w", err)
	}

	switch format {
	case "json":
		writeCleanJSON(w, count, days, dryRun)
	default:
		writeCleanText(w, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func writeCleanText(w io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(w, "Dry-run mode: Would delete %d audit log(s) older than %d day(s)\n", count, days)
		return
	}
	_, _ = fmt.Fprintf(w, "Successfully deleted %d audit log(s) older than %d day(s)\n", count, days)
}

func writeCleanJSON(w io.Writer, count int64, days int, dryRun bool) {
	payload := struct {
		Count  int64 `json:"count"`
		Days   int   `json:"days"`
		DryRun bool  `json:"dry_run"`
	}{Count: count, Days: days, DryRun: dryRun}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(encoded))
}
