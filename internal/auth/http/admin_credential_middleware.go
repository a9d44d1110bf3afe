package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
	"github.com/allisson/attestations/internal/httputil"
)

// AdminCredentialHeader carries the plain admin credential on privileged requests.
const AdminCredentialHeader = "X-Admin-Credential"

// AdminCredentialMiddleware requires a valid admin credential in the
// X-Admin-Credential header in addition to the bearer token authentication.
//
// It is applied to operations that change registry governance, such as
// replacing the schema creator policy. The credential is verified against
// the active admin credential hash via AdminCredentialUseCase.Verify.
//
// Error handling:
//   - Missing header → 401 Unauthorized
//   - Invalid credential → 401 Unauthorized
//   - Other errors → 500 Internal Server Error
//
// Usage:
//
//	router.PUT("/api/v1/creator-policy",
//	    AuthenticationMiddleware(tokenUseCase, tokenService, logger),
//	    AuthorizationMiddleware(authDomain.AdminCapability, auditLogUseCase, logger),
//	    AdminCredentialMiddleware(adminCredentialUseCase, logger),
//	    handler)
func AdminCredentialMiddleware(
	adminCredentialUseCase authUseCase.AdminCredentialUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainCredential := c.GetHeader(AdminCredentialHeader)
		if plainCredential == "" {
			logger.Debug("admin credential check failed: missing header")
			httputil.HandleErrorGin(c, authDomain.ErrInvalidAdminCredential, logger)
			c.Abort()
			return
		}

		if err := adminCredentialUseCase.Verify(c.Request.Context(), plainCredential); err != nil {
			logger.Debug("admin credential check failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
