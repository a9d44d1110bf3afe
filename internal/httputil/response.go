// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/attestations/internal/errors"
)

// ErrorResponse is the JSON error envelope all endpoints return.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorStatus maps a domain error to its HTTP status and response body.
// Unrecognized errors become 500 with a generic message so internal details
// never reach the client.
func errorStatus(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "The requested resource was not found"}
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: "conflict", Message: "A conflict occurred with existing data"}
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_input", Message: err.Error()}
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication is required"}
	case apperrors.Is(err, apperrors.ErrLocked):
		return http.StatusLocked, ErrorResponse{Error: "client_locked", Message: "Account is locked due to too many failed authentication attempts"}
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: "You don't have permission to access this resource"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
	}
}

// HandleErrorGin writes the JSON error response for a domain error and logs
// the full error chain. A nil error writes nothing.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := errorStatus(err)

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleValidationErrorGin writes a 400 Bad Request for malformed or invalid
// request input. The error text is safe to expose: it describes the caller's
// input, not internal state.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
