package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminCredential is the verified credential that gates creator policy
// administration. The issued value is random, shown once at bootstrap, and
// only its SHA-256 hash is stored. At most one credential is active; rotation
// deactivates the previous one and keeps it for audit history.
type AdminCredential struct {
	ID             uuid.UUID
	CredentialHash string
	IsActive       bool
	CreatedAt      time.Time
	RotatedAt      *time.Time
}
