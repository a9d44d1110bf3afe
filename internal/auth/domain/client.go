// Package domain defines authentication and authorization domain models and business logic.
//
// Clients authenticate with a secret and are authorized through capability
// policies matched against resource paths.
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PolicyDocument grants a set of capabilities on one resource path pattern.
// Patterns support wildcards; see Client.IsAllowed for the matching rules.
type PolicyDocument struct {
	Path         string       `json:"path"`
	Capabilities []Capability `json:"capabilities"`
}

// Client is an API principal. Secret holds the argon2id hash of the client
// secret, never the plain value. FailedAttempts and LockedUntil carry the
// brute-force lockout state and are managed by the authentication flow.
type Client struct {
	ID             uuid.UUID
	Secret         string
	Name           string
	IsActive       bool
	Policies       []PolicyDocument
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
}

// matchPath reports whether a request path satisfies a policy path pattern.
// Three pattern forms exist:
//
//   - "*" alone matches every path.
//   - A trailing "/*" matches anything below the prefix, but not the prefix
//     itself: "/api/v1/schemas/*" matches "/api/v1/schemas/abc" and deeper,
//     not "/api/v1/schemas".
//   - A "*" segment elsewhere matches exactly one path segment:
//     "/api/v1/attestations/*/revoke" matches
//     "/api/v1/attestations/abc/revoke" but not "/api/v1/attestations/revoke".
//
// Matching is case-sensitive throughout.
func matchPath(policyPath, requestPath string) bool {
	if policyPath == "*" {
		return true
	}

	if !strings.Contains(policyPath, "*") {
		return policyPath == requestPath
	}

	// The prefix form only applies when the prefix itself is literal; a
	// wildcard before the trailing "/*" makes every "*" a segment match.
	if prefix, ok := strings.CutSuffix(policyPath, "/*"); ok && !strings.Contains(prefix, "*") {
		return strings.HasPrefix(requestPath, prefix+"/")
	}

	// Segment wildcards require the same path depth.
	policySegments := strings.Split(policyPath, "/")
	requestSegments := strings.Split(requestPath, "/")
	if len(policySegments) != len(requestSegments) {
		return false
	}

	for i, segment := range policySegments {
		if segment != "*" && segment != requestSegments[i] {
			return false
		}
	}

	return true
}

// IsAllowed reports whether any of the client's policies grants the
// capability on the path. A policy counts only when both its path pattern
// matches and its capability list contains the capability; an empty path or
// capability is always denied.
func (c *Client) IsAllowed(path string, capability Capability) bool {
	if path == "" || capability == "" {
		return false
	}

	for _, policy := range c.Policies {
		if matchPath(policy.Path, path) && slices.Contains(policy.Capabilities, capability) {
			return true
		}
	}

	return false
}

// CreateClientInput carries the parameters for registering a new client.
// The secret is generated server-side and cannot be chosen by the caller.
type CreateClientInput struct {
	Name     string
	IsActive bool
	Policies []PolicyDocument
}

// CreateClientOutput is the result of registering a client. PlainSecret is
// handed out exactly once; only its hash is stored.
type CreateClientOutput struct {
	ID          uuid.UUID
	PlainSecret string
}

// UpdateClientInput carries the mutable client fields. The ID and secret
// cannot be changed through an update.
type UpdateClientInput struct {
	Name     string
	IsActive bool
	Policies []PolicyDocument
}
