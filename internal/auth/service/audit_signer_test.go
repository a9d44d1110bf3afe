package service

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

func testRootKey(tb testing.TB) []byte {
	tb.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(tb, err)
	return key
}

func auditRecord(capability authDomain.Capability, path string, metadata map[string]any) *authDomain.AuditLog {
	return &authDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  uuid.Must(uuid.NewV7()),
		ClientID:   uuid.Must(uuid.NewV7()),
		Capability: capability,
		Path:       path,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestAuditSigner_SignAndVerify(t *testing.T) {
	signer := NewAuditSigner()
	rootKey := testRootKey(t)

	tests := []struct {
		name     string
		path     string
		metadata map[string]any
	}{
		{"flat metadata", "/api/v1/schemas/test", map[string]any{"key": "value"}},
		{"nil metadata", "/api/v1/schemas/test", nil},
		{"empty metadata map", "/api/v1/schemas/test", map[string]any{}},
		{
			"nested metadata",
			"/api/v1/schemas/test",
			map[string]any{
				"nested": map[string]any{"key1": "value1", "key2": 123},
				"array":  []any{"item1", "item2"},
			},
		},
		{"unicode path", "/api/v1/subjects/did:web:测试.example/attestations", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := auditRecord(authDomain.ReadCapability, tt.path, tt.metadata)

			signature, err := signer.Sign(rootKey, log)
			require.NoError(t, err)
			assert.Len(t, signature, 32)

			log.Signature = signature
			assert.NoError(t, signer.Verify(rootKey, log))
		})
	}
}

func TestAuditSigner_SignaturesAreDeterministic(t *testing.T) {
	signer := NewAuditSigner()
	rootKey := testRootKey(t)
	log := auditRecord(authDomain.AdminCapability, "/api/v1/creator-policy", nil)

	sig1, err := signer.Sign(rootKey, log)
	require.NoError(t, err)
	sig2, err := signer.Sign(rootKey, log)
	require.NoError(t, err)
	assert.Equal(t, sig1, sig2)

	sig3, err := signer.Sign(testRootKey(t), log)
	require.NoError(t, err)
	assert.NotEqual(t, sig1, sig3)
}

func TestAuditSigner_VerifyDetectsTampering(t *testing.T) {
	signer := NewAuditSigner()
	rootKey := testRootKey(t)

	tests := []struct {
		name   string
		tamper func(log *authDomain.AuditLog)
	}{
		{"path changed", func(log *authDomain.AuditLog) { log.Path = "/api/v1/clients" }},
		{"capability escalated", func(log *authDomain.AuditLog) { log.Capability = authDomain.AdminCapability }},
		{"metadata value changed", func(log *authDomain.AuditLog) { log.Metadata["action"] = "create" }},
		{"client swapped", func(log *authDomain.AuditLog) { log.ClientID = uuid.Must(uuid.NewV7()) }},
		{"timestamp shifted", func(log *authDomain.AuditLog) { log.CreatedAt = log.CreatedAt.Add(time.Second) }},
		{"signature truncated", func(log *authDomain.AuditLog) { log.Signature = log.Signature[:16] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := auditRecord(authDomain.RevokeCapability, "/api/v1/attestations/0198a3f2/revoke", map[string]any{"action": "revoke"})

			signature, err := signer.Sign(rootKey, log)
			require.NoError(t, err)
			log.Signature = signature

			tt.tamper(log)

			assert.ErrorIs(t, signer.Verify(rootKey, log), authDomain.ErrSignatureInvalid)
		})
	}
}

func TestAuditSigner_VerifyRejectsWrongKey(t *testing.T) {
	signer := NewAuditSigner()
	log := auditRecord(authDomain.ReadCapability, "/api/v1/schemas/test", nil)

	signature, err := signer.Sign(testRootKey(t), log)
	require.NoError(t, err)
	log.Signature = signature

	assert.ErrorIs(t, signer.Verify(testRootKey(t), log), authDomain.ErrSignatureInvalid)
}
