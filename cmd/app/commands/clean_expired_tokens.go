package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
)

// RunCleanExpiredTokens deletes tokens whose expiry has passed and writes the
// affected count to w, as text or as JSON. With dryRun set it only counts and
// deletes nothing.
func RunCleanExpiredTokens(
	ctx context.Context,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	w io.Writer,
	dryRun bool,
	format string,
) error {
	logger.Info("cleaning expired tokens", slog.Bool("dry_run", dryRun))

	count, err := tokenUseCase.DeleteExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	switch format {
	case "json":
		writeCleanTokensJSON(w, count, dryRun)
	default:
		writeCleanTokensText(w, count, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func writeCleanTokensText(w io.Writer, count int64, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(w, "Dry-run mode: Would delete %d expired token(s)\n", count)
		return
	}
	_, _ = fmt.Fprintf(w, "Successfully deleted %d expired token(s)\n", count)
}

func writeCleanTokensJSON(w io.Writer, count int64, dryRun bool) {
	payload := struct {
		Count  int64 `json:"count"`
		DryRun bool  `json:"dry_run"`
	}{Count: count, DryRun: dryRun}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(encoded))
}
