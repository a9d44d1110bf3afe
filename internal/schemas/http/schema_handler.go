// Package http exposes schema registration and lookup plus the creator
// policy endpoints over Gin.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authHttp "github.com/allisson/attestations/internal/auth/http"
	apperrors "github.com/allisson/attestations/internal/errors"
	"github.com/allisson/attestations/internal/httputil"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
	"github.com/allisson/attestations/internal/schemas/http/dto"
	schemasUseCase "github.com/allisson/attestations/internal/schemas/usecase"
	customValidation "github.com/allisson/attestations/internal/validation"
)

// requireClient returns the authenticated client stored by the
// authentication middleware, writing the unauthorized response when the
// request never carried one.
func requireClient(c *gin.Context, logger *slog.Logger) (*authDomain.Client, bool) {
	client, ok := authHttp.GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return nil, false
	}

	return client, true
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

// SchemaHandler handles HTTP requests for schema registration and lookup.
type SchemaHandler struct {
	schemaUseCase schemasUseCase.SchemaUseCase
	logger        *slog.Logger
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(schemaUseCase schemasUseCase.SchemaUseCase, logger *slog.Logger) *SchemaHandler {
	return &SchemaHandler{schemaUseCase: schemaUseCase, logger: logger}
}

// RegisterHandler registers a new attestation schema with the authenticated
// client as its creator. Whether that client may create schemas at all is
// decided by the use case against the creator policy.
// POST /api/v1/schemas. Returns 201 Created with the stored schema.
func (h *SchemaHandler) RegisterHandler(c *gin.Context) {
	client, ok := requireClient(c, h.logger)
	if !ok {
		return
	}

	var req dto.RegisterSchemaRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	attesters, err := dto.ParseUUIDList(req.AuthorizedAttesters)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	schema, err := h.schemaUseCase.Register(c.Request.Context(), &schemasDomain.RegisterSchemaInput{
		Name:                req.Name,
		Description:         req.Description,
		Revocable:           req.Revocable,
		AuthorizedAttesters: attesters,
	}, client.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSchemaToResponse(schema))
}

// GetHandler retrieves a schema by ID.
// GET /api/v1/schemas/:id. Returns 200 OK with the schema definition.
func (h *SchemaHandler) GetHandler(c *gin.Context) {
	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			errors.New("invalid schema ID format: must be a valid UUID"), h.logger)
		return
	}

	schema, err := h.schemaUseCase.Lookup(c.Request.Context(), schemaID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSchemaToResponse(schema))
}

// ListHandler retrieves schemas with pagination support, newest first.
// GET /api/v1/schemas?offset=0&limit=50.
func (h *SchemaHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	schemas, err := h.schemaUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSchemasToListResponse(schemas))
}
