package domain

// Capability names an operation class a policy can grant on a path.
type Capability string

const (
	// ReadCapability covers schema and attestation reads and index queries.
	ReadCapability Capability = "read"

	// WriteCapability covers schema registration and attestation creation.
	WriteCapability Capability = "write"

	// RevokeCapability covers attestation revocation.
	RevokeCapability Capability = "revoke"

	// AdminCapability covers creator policy updates, client management, and
	// audit log access.
	AdminCapability Capability = "admin"
)
