package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
)

// RunUpdateClient replaces an existing client's name, active flag, and policy
// document. The client ID and secret are immutable. In interactive mode the
// current policies are shown before prompting for their replacement.
func RunUpdateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	stdio IOTuple,
	clientIDStr string,
	name string,
	isActive bool,
	policiesJSON string,
	format string,
) error {
	logger.Info("updating client", slog.String("client_id", clientIDStr))

	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return fmt.Errorf("invalid client ID format: %w", err)
	}

	// Fetched up front both to fail fast on unknown IDs and so the interactive
	// prompt can show what is being replaced.
	existing, err := clientUseCase.Get(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to get existing client: %w", err)
	}

	if policiesJSON == "" {
		_, _ = fmt.Fprintln(stdio.Writer, "\nCurrent policies:")
		printPolicies(stdio.Writer, existing.Policies)
	}

	policies, err := resolvePolicies(policiesJSON, stdio)
	if err != nil {
		return err
	}

	if err := clientUseCase.Update(ctx, clientID, &authDomain.UpdateClientInput{
		Name:     name,
		IsActive: isActive,
		Policies: policies,
	}); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	switch format {
	case "json":
		printUpdateJSON(stdio.Writer, clientID, name, isActive)
	default:
		printUpdateText(stdio.Writer, clientID, name, isActive)
	}

	logger.Info("client updated successfully",
		slog.String("client_id", clientID.String()),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
	)

	return nil
}

func printUpdateText(w io.Writer, clientID uuid.UUID, name string, isActive bool) {
	_, _ = fmt.Fprintln(w, "\nClient updated successfully!")
	_, _ = fmt.Fprintf(w, "Client ID: %s\n", clientID.String())
	_, _ = fmt.Fprintf(w, "Name: %s\n", name)
	_, _ = fmt.Fprintf(w, "Active: %t\n", isActive)
}

func printUpdateJSON(w io.Writer, clientID uuid.UUID, name string, isActive bool) {
	encoded, err := json.MarshalIndent(map[string]any{
		"client_id": clientID.String(),
		"name":      name,
		"is_active": isActive,
	}, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(encoded))
}
