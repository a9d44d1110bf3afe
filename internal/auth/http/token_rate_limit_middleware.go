package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// TokenRateLimitMiddleware enforces a token bucket limit per source IP on the
// token issuance endpoint. Issuance is unauthenticated, so the IP is the only
// identity available to slow credential stuffing and secret brute force. The
// IP comes from c.ClientIP(), which honors X-Forwarded-For and X-Real-IP
// before falling back to the connection address.
func TokenRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limiter := store.get(clientIP)
		if !limiter.Allow() {
			retryAfter := rejectRateLimited(c, limiter, "Too many token requests from this IP. Please retry after the specified delay.")
			logger.Debug("token rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))
			return
		}

		c.Next()
	}
}
