// Package http serves the admin surface of the auth domain over Gin: client
// management, audit log access and token issuance, plus the middleware that
// authenticates requests and enforces capability checks.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	"github.com/allisson/attestations/internal/auth/http/dto"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
	"github.com/allisson/attestations/internal/httputil"
	customValidation "github.com/allisson/attestations/internal/validation"
)

// ClientHandler handles HTTP requests for client management. All routes
// require the admin capability; enforcement happens in the middleware chain.
type ClientHandler struct {
	clientUseCase   authUseCase.ClientUseCase
	auditLogUseCase authUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(
	clientUseCase authUseCase.ClientUseCase,
	auditLogUseCase authUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *ClientHandler {
	return &ClientHandler{
		clientUseCase:   clientUseCase,
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// parseClientID reads the :id route parameter. On malformed input it writes
// the validation error response and reports false.
func (h *ClientHandler) parseClientID(c *gin.Context) (uuid.UUID, bool) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			errors.New("invalid client ID format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}

	return clientID, true
}

// bindAndValidate decodes the JSON body into req and runs its validation
// rules, writing the error response and reporting false on failure.
func bindAndValidate(c *gin.Context, req interface{ Validate() error }, logger *slog.Logger) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleValidationErrorGin(c, err, logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), logger)
		return false
	}

	return true
}

// CreateHandler creates a new authentication client with policies.
// POST /api/v1/clients. Returns 201 Created with the client ID and the plain
// secret; the secret is only available in this response.
func (h *ClientHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateClientRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	output, err := h.clientUseCase.Create(c.Request.Context(), &authDomain.CreateClientInput{
		Name:     req.Name,
		IsActive: req.IsActive,
		Policies: req.Policies,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateClientResponse{
		ID:     output.ID.String(),
		Secret: output.PlainSecret,
	})
}

// GetHandler retrieves a client by ID. The secret is never included.
// GET /api/v1/clients/:id.
func (h *ClientHandler) GetHandler(c *gin.Context) {
	clientID, ok := h.parseClientID(c)
	if !ok {
		return
	}

	client, err := h.clientUseCase.Get(c.Request.Context(), clientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientToResponse(client))
}

// UpdateHandler replaces a client's name, active flag and policy set.
// PUT /api/v1/clients/:id. Returns 200 OK with the updated client.
func (h *ClientHandler) UpdateHandler(c *gin.Context) {
	clientID, ok := h.parseClientID(c)
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	input := &authDomain.UpdateClientInput{
		Name:     req.Name,
		IsActive: req.IsActive,
		Policies: req.Policies,
	}
	if err := h.clientUseCase.Update(c.Request.Context(), clientID, input); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Re-read so the response reflects what was stored.
	client, err := h.clientUseCase.Get(c.Request.Context(), clientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientToResponse(client))
}

// DeleteHandler deactivates a client. The row is kept so audit history
// stays resolvable.
// DELETE /api/v1/clients/:id. Returns 204 No Content.
func (h *ClientHandler) DeleteHandler(c *gin.Context) {
	clientID, ok := h.parseClientID(c)
	if !ok {
		return
	}

	if err := h.clientUseCase.Delete(c.Request.Context(), clientID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// UnlockHandler clears a client's failed attempt counter and lock expiry.
// POST /api/v1/clients/:id/unlock. Returns 200 OK with the updated client.
func (h *ClientHandler) UnlockHandler(c *gin.Context) {
	clientID, ok := h.parseClientID(c)
	if !ok {
		return
	}

	if err := h.clientUseCase.Unlock(c.Request.Context(), clientID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	client, err := h.clientUseCase.Get(c.Request.Context(), clientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientToResponse(client))
}

// ListHandler retrieves clients with pagination support.
// GET /api/v1/clients?offset=0&limit=50.
func (h *ClientHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	clients, err := h.clientUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientsToListResponse(clients))
}
