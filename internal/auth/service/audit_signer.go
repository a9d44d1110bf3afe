package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

// signingKeyInfo labels the HKDF derivation. Bump the version suffix if the
// canonical encoding or signature algorithm ever changes.
const signingKeyInfo = "audit-log-signing-v1"

type auditSigner struct{}

// Sign computes the HMAC-SHA256 signature of the log's canonical encoding,
// keyed by a signing key derived from the root key.
func (a *auditSigner) Sign(rootKey []byte, log *authDomain.AuditLog) ([]byte, error) {
	signingKey, err := a.deriveSigningKey(rootKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer clear(signingKey)

	canonical, err := a.canonicalizeLog(log)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize log: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)

	return mac.Sum(nil), nil
}

// Verify recomputes the signature and compares it against the stored one in
// constant time.
func (a *auditSigner) Verify(rootKey []byte, log *authDomain.AuditLog) error {
	expectedSig, err := a.Sign(rootKey, log)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(log.Signature, expectedSig) {
		return authDomain.ErrSignatureInvalid
	}

	return nil
}

// deriveSigningKey expands the root key into a dedicated 32-byte signing key
// with HKDF-SHA256, so the root key itself never touches an HMAC.
func (a *auditSigner) deriveSigningKey(rootKey []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, rootKey, nil, []byte(signingKeyInfo))

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeLog encodes the signed fields in a fixed order: both UUIDs
// raw, then capability, path, and metadata JSON each with a 4-byte length
// prefix, then the creation time as big-endian Unix nanoseconds. The length
// prefixes keep field boundaries unambiguous regardless of field content.
func (a *auditSigner) canonicalizeLog(log *authDomain.AuditLog) ([]byte, error) {
	buf := make([]byte, 0, 1024)

	buf = append(buf, log.RequestID[:]...)
	buf = append(buf, log.ClientID[:]...)

	buf = appendLengthPrefixed(buf, []byte(log.Capability))
	buf = appendLengthPrefixed(buf, []byte(log.Path))

	if log.Metadata != nil {
		metadataBytes, err := json.Marshal(log.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(log.CreatedAt.UnixNano()))

	return buf, nil
}

// appendLengthPrefixed appends a 4-byte big-endian length followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	if len(data) > 0xFFFFFFFF {
		panic("field exceeds uint32 length prefix")
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// NewAuditSigner creates an AuditSigner using HKDF-SHA256 key derivation and
// HMAC-SHA256 signatures.
func NewAuditSigner() AuditSigner {
	return &auditSigner{}
}
