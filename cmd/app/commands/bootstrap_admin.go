package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
)

// RunBootstrapAdmin creates the initial admin credential used to authorize
// creator policy changes and other administrative endpoints. The plain
// credential is printed once and cannot be recovered afterwards.
//
// Returns an error if an active admin credential already exists; use
// rotate-admin to replace it.
//
// Requirements: Database must be migrated and accessible.
func RunBootstrapAdmin(
	ctx context.Context,
	adminCredentialUseCase authUseCase.AdminCredentialUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("bootstrapping admin credential")

	plainCredential, err := adminCredentialUseCase.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin credential: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputAdminCredentialJSON(writer, plainCredential)
	} else {
		outputAdminCredentialText(writer, plainCredential, "Admin credential created successfully!")
	}

	logger.Info("admin credential bootstrapped")

	return nil
}

// outputAdminCredentialText outputs the credential in human-readable text format.
func outputAdminCredentialText(writer io.Writer, plainCredential, header string) {
	_, _ = fmt.Fprintf(writer, "\n%s\n", header)
	_, _ = fmt.Fprintf(writer, "Credential: %s\n", plainCredential)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The credential is shown only once. Store it securely.")
}

// outputAdminCredentialJSON outputs the credential in JSON format for machine consumption.
func outputAdminCredentialJSON(writer io.Writer, plainCredential string) {
	result := map[string]string{
		"credential": plainCredential,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
