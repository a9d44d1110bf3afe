package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authService "github.com/allisson/attestations/internal/auth/service"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
	apperrors "github.com/allisson/attestations/internal/errors"
	"github.com/allisson/attestations/internal/httputil"
)

// bearerToken extracts the token from a "Bearer <token>" Authorization
// header. The scheme comparison is case-insensitive; a missing header, wrong
// scheme, or empty token all report false.
func bearerToken(c *gin.Context) (string, bool) {
	const prefix = "bearer "

	header := c.GetHeader("Authorization")
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := header[len(prefix):]
	return token, token != ""
}

// AuthenticationMiddleware authenticates requests by the Bearer token in the
// Authorization header. The token is hashed, resolved to its client, and the
// client is stored in the request context for GetClient. Missing or invalid
// credentials yield 401; a token whose client was deactivated yields 403.
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainToken, ok := bearerToken(c)
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		tokenHash := tokenService.HashToken(plainToken)

		client, err := tokenUseCase.Authenticate(c.Request.Context(), tokenHash)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))

		logger.Debug("authentication successful",
			slog.String("client_id", client.ID.String()),
			slog.String("client_name", client.Name))

		c.Next()
	}
}

// AuthorizationMiddleware checks that the authenticated client's policies
// grant the capability on the request path, and records every decision in
// the audit trail with the caller's IP and user agent. It must run after
// AuthenticationMiddleware: a request without a client in context yields
// 401, a denied capability yields 403.
//
// An audit write failure is logged but never blocks the request; losing one
// trail entry is preferable to failing authorized traffic.
func AuthorizationMiddleware(
	capability authDomain.Capability,
	auditLogUseCase authUseCase.AuditLogUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			logger.Debug("authorization failed: no authenticated client in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		path := c.Request.URL.Path
		allowed := client.IsAllowed(path, capability)

		requestID := uuid.Must(uuid.NewV7())
		metadata := map[string]any{
			"allowed":    allowed,
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}
		if err := auditLogUseCase.Create(c.Request.Context(), requestID, client.ID, capability, path, metadata); err != nil {
			logger.Error("failed to record audit log",
				slog.String("client_id", client.ID.String()),
				slog.String("path", path),
				slog.String("error", err.Error()))
		}

		if !allowed {
			logger.Debug("authorization failed: insufficient permissions",
				slog.String("client_id", client.ID.String()),
				slog.String("client_name", client.Name),
				slog.String("path", path),
				slog.String("capability", string(capability)))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		ctx := WithPath(c.Request.Context(), path)
		ctx = WithCapability(ctx, capability)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authorization successful",
			slog.String("client_id", client.ID.String()),
			slog.String("client_name", client.Name),
			slog.String("path", path),
			slog.String("capability", string(capability)))

		c.Next()
	}
}
