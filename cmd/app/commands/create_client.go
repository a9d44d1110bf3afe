package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
)

// RunCreateClient registers a new authentication client and prints its
// credentials. Policies come from the --policies JSON flag or, when the flag
// is empty, from an interactive prompt. The plain secret appears in the
// output exactly once and cannot be recovered afterwards.
func RunCreateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	stdio IOTuple,
	name string,
	isActive bool,
	policiesJSON string,
	format string,
) error {
	logger.Info("creating new client", slog.String("name", name))

	policies, err := resolvePolicies(policiesJSON, stdio)
	if err != nil {
		return err
	}

	output, err := clientUseCase.Create(ctx, &authDomain.CreateClientInput{
		Name:     name,
		IsActive: isActive,
		Policies: policies,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	switch format {
	case "json":
		printCredentialsJSON(stdio.Writer, output)
	default:
		printCredentialsText(stdio.Writer, output)
	}

	logger.Info("client created successfully",
		slog.String("client_id", output.ID.String()),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
	)

	return nil
}

func printCredentialsText(w io.Writer, output *authDomain.CreateClientOutput) {
	_, _ = fmt.Fprintln(w, "\nClient created successfully!")
	_, _ = fmt.Fprintf(w, "Client ID: %s\n", output.ID.String())
	_, _ = fmt.Fprintf(w, "Secret: %s\n", output.PlainSecret)
	_, _ = fmt.Fprintln(w, "\nIMPORTANT: The secret is shown only once. Store it securely.")
}

func printCredentialsJSON(w io.Writer, output *authDomain.CreateClientOutput) {
	encoded, err := json.MarshalIndent(map[string]string{
		"client_id": output.ID.String(),
		"secret":    output.PlainSecret,
	}, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(encoded))
}
