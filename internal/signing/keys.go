// Package signing manages the audit log signing root key. The key is supplied
// as base64 through configuration and may be wrapped by a cloud KMS, in which
// case it is unwrapped at startup.
package signing

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// MinKeySize is the minimum accepted root key size in bytes.
const MinKeySize = 32

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeper(ctx context.Context, keyURI string) (*secrets.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LoadRootKey decodes the configured audit signing key. When kmsKeyURI is set,
// the decoded value is treated as KMS ciphertext and unwrapped before use.
// An empty encodedKey returns a nil key, which disables audit log signing.
func LoadRootKey(ctx context.Context, encodedKey, kmsKeyURI string) ([]byte, error) {
	if encodedKey == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audit signing key: %w", err)
	}

	if kmsKeyURI != "" {
		keeper, err := OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = keeper.Close()
		}()

		plaintext, err := keeper.Decrypt(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap audit signing key with KMS: %w", err)
		}
		key = plaintext
	}

	if len(key) < MinKeySize {
		return nil, fmt.Errorf("audit signing key must be at least %d bytes, got %d", MinKeySize, len(key))
	}

	return key, nil
}
