package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/attestations/internal/errors"
	"github.com/allisson/attestations/internal/httputil"
)

// rejectRateLimited writes the 429 response with a Retry-After estimate and
// aborts the request. Returns the advertised delay in seconds.
func rejectRateLimited(c *gin.Context, limiter *rate.Limiter, message string) int {
	retryAfter := retryAfterSeconds(limiter)

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": message,
	})
	c.Abort()

	return retryAfter
}

// RateLimitMiddleware enforces a token bucket limit per authenticated client,
// keyed by client ID. It must run after AuthenticationMiddleware; a request
// that reaches it without a client in context is rejected as unauthorized
// rather than sharing one global bucket.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			logger.Error("rate limit middleware: no authenticated client in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		limiter := store.get(client.ID.String())
		if !limiter.Allow() {
			retryAfter := rejectRateLimited(c, limiter, "Too many requests. Please retry after the specified delay.")
			logger.Debug("rate limit exceeded",
				slog.String("client_id", client.ID.String()),
				slog.Int("retry_after", retryAfter))
			return
		}

		c.Next()
	}
}
