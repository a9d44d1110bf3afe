package http

import (
	"context"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

// Unexported key types keep these context values collision-free across
// packages.
type (
	clientKey     struct{}
	pathKey       struct{}
	capabilityKey struct{}
)

// WithClient stores the authenticated client in the context. The
// authentication middleware sets it after validating the token.
func WithClient(ctx context.Context, client *authDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient returns the authenticated client, or false when the request
// never passed authentication.
func GetClient(ctx context.Context) (*authDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*authDomain.Client)
	return client, ok
}

// WithPath stores the authorized request path for audit logging.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// GetPath returns the authorized request path, or false when authorization
// has not run.
func GetPath(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(pathKey{}).(string)
	return path, ok
}

// WithCapability stores the capability the authorization check granted.
func WithCapability(ctx context.Context, capability authDomain.Capability) context.Context {
	return context.WithValue(ctx, capabilityKey{}, capability)
}

// GetCapability returns the granted capability, or false when authorization
// has not run.
func GetCapability(ctx context.Context) (authDomain.Capability, bool) {
	capability, ok := ctx.Value(capabilityKey{}).(authDomain.Capability)
	return capability, ok
}
