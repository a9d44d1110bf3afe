package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/attestations/internal/errors"
)

// tokenService hashes tokens with plain SHA-256. Tokens carry 256 bits of
// entropy, so a password KDF would add cost without adding security.
type tokenService struct{}

// GenerateToken returns a base64-encoded 256-bit random token together with
// its SHA-256 hash.
func (t *tokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := base64.URLEncoding.EncodeToString(randomBytes)

	return plainToken, t.HashToken(plainToken), nil
}

// HashToken returns the hex-encoded SHA-256 digest of the token.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewTokenService creates a SHA-256 backed TokenService.
func NewTokenService() TokenService {
	return &tokenService{}
}
