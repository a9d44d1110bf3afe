package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
)

// RunVerifyAuditLogs re-checks the HMAC signature of every audit log recorded
// between startDate and endDate and writes a report to w, as text or as JSON.
// Dates accept "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS". A non-nil error is
// returned when any signature fails to verify, so the command exits non-zero
// on tampered logs.
func RunVerifyAuditLogs(
	ctx context.Context,
	auditLogUseCase authUseCase.AuditLogUseCase,
	logger *slog.Logger,
	w io.Writer,
	startDate, endDate string,
	format string,
) error {
	start, err := parseDate(startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	end, err := parseDate(endDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	if !end.After(start) {
		return errors.New("end date must be after start date")
	}

	logger.Info("verifying audit logs",
		slog.Time("start_date", start),
		slog.Time("end_date", end),
	)

	report, err := auditLogUseCase.VerifyBatch(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to verify audit logs: %w", err)
	}

	switch format {
	case "json":
		if err := writeVerifyJSON(w, report); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	default:
		writeVerifyText(w, report, start, end)
	}

	logger.Info("verification completed",
		slog.Int64("total_checked", report.TotalChecked),
		slog.Int64("valid", report.Valid),
		slog.Int64("invalid", report.Invalid),
		slog.Int64("unsigned", report.Unsigned),
	)

	if report.Invalid > 0 {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", report.Invalid)
	}

	return nil
}

const dateStampLayout = "2006-01-02 15:04:05"

// parseDate accepts a full timestamp or a bare date, which reads as midnight.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{dateStampLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, want YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", value)
}

func writeVerifyText(w io.Writer, report *authUseCase.VerificationReport, start, end time.Time) {
	_, _ = fmt.Fprintf(w, "Audit Log Integrity Verification\n")
	_, _ = fmt.Fprintf(w, "=================================\n\n")
	_, _ = fmt.Fprintf(w, "Time Range: %s to %s\n\n", start.Format(dateStampLayout), end.Format(dateStampLayout))

	_, _ = fmt.Fprintf(w, "Total Checked:  %d\n", report.TotalChecked)
	_, _ = fmt.Fprintf(w, "Signed:         %d\n", report.Signed)
	_, _ = fmt.Fprintf(w, "Unsigned:       %d (created without signing key)\n", report.Unsigned)
	_, _ = fmt.Fprintf(w, "Valid:          %d\n", report.Valid)
	_, _ = fmt.Fprintf(w, "Invalid:        %d\n\n", report.Invalid)

	switch {
	case report.Invalid > 0:
		_, _ = fmt.Fprintf(w, "WARNING: %d log(s) failed integrity check!\n\n", report.Invalid)
		_, _ = fmt.Fprintf(w, "Invalid Log IDs:\n")
		for _, id := range report.InvalidIDs {
			_, _ = fmt.Fprintf(w, "  - %s\n", id)
		}
		_, _ = fmt.Fprintf(w, "\nStatus: FAILED ❌\n")
	case report.TotalChecked == 0:
		_, _ = fmt.Fprintf(w, "Status: No logs found in specified time range\n")
	default:
		_, _ = fmt.Fprintf(w, "Status: PASSED ✓\n")
	}
}

func writeVerifyJSON(w io.Writer, report *authUseCase.VerificationReport) error {
	payload := struct {
		TotalChecked int64       `json:"total_checked"`
		Signed       int64       `json:"signed"`
		Unsigned     int64       `json:"unsigned"`
		Valid        int64       `json:"valid"`
		Invalid      int64       `json:"invalid"`
		InvalidIDs   []uuid.UUID `json:"invalid_ids"`
		Passed       bool        `json:"passed"`
	}{
		TotalChecked: report.TotalChecked,
		Signed:       report.Signed,
		Unsigned:     report.Unsigned,
		Valid:        report.Valid,
		Invalid:      report.Invalid,
		InvalidIDs:   report.InvalidIDs,
		Passed:       report.Invalid == 0,
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(w, string(encoded))
	return nil
}
