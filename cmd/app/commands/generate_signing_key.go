package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/attestations/internal/signing"
)

// RunGenerateSigningKey generates a cryptographically secure 32-byte root key for
// audit log signing. Key material is zeroed from memory after encoding.
//
// Without KMS parameters the key is printed as plain base64 for AUDIT_SIGNING_KEY.
// With kmsProvider and kmsKeyURI set, the key is encrypted with KMS before output
// and unwrapped by the server at startup.
//
// For local development, use kmsProvider="localsecrets" with kmsKeyURI="base64key://...".
//
// Security: Never use the localsecrets provider in production. Use cloud KMS
// providers (gcpkms, awskms, azurekeyvault, hashivault).
func RunGenerateSigningKey(
	ctx context.Context,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	// KMS parameters must be set together
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri must be set together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use cloud KMS providers:\n  --kms-provider=gcpkms --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n  --kms-provider=awskms --kms-key-uri=\"awskms:///alias/...\"\n  --kms-provider=azurekeyvault --kms-key-uri=\"azurekeyvault://...\"",
		)
	}

	logger.Info("generating audit signing key", slog.Bool("kms", kmsKeyURI != ""))

	// Generate a cryptographically secure 32-byte signing key
	signingKey := make([]byte, signing.MinKeySize)
	if _, err := rand.Read(signingKey); err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}

	output := signingKey

	if kmsKeyURI != "" {
		keeper, err := signing.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		// Encrypt the signing key with KMS
		ciphertext, err := keeper.Encrypt(ctx, signingKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt signing key with KMS: %w", err)
		}
		output = ciphertext
	}

	encodedKey := base64.StdEncoding.EncodeToString(output)

	// Print configuration
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintln(writer, "# Audit Signing Key Configuration (KMS Mode)")
		_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	} else {
		_, _ = fmt.Fprintln(writer, "# Audit Signing Key Configuration")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
	}
	_, _ = fmt.Fprintf(writer, "AUDIT_SIGNING_KEY=\"%s\"\n", encodedKey)

	// Zero out the signing key from memory for security
	for i := range signingKey {
		signingKey[i] = 0
	}

	return nil
}
