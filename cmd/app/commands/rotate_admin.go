package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
)

// RunRotateAdmin replaces the active admin credential with a newly generated
// one. The previous credential stops working immediately. The new plain
// credential is printed once and cannot be recovered afterwards.
//
// Returns an error if no active admin credential exists; use bootstrap-admin
// to create the first one.
//
// Requirements: Database must be migrated and accessible.
func RunRotateAdmin(
	ctx context.Context,
	adminCredentialUseCase authUseCase.AdminCredentialUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("rotating admin credential")

	plainCredential, err := adminCredentialUseCase.Rotate(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate admin credential: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputAdminCredentialJSON(writer, plainCredential)
	} else {
		outputAdminCredentialText(writer, plainCredential, "Admin credential rotated successfully!")
	}

	logger.Info("admin credential rotated")

	return nil
}
