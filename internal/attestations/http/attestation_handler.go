// Package http exposes the attestation lifecycle over Gin: creation,
// revocation, validity checks, detail reads and the subject and schema
// index queries.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
	"github.com/allisson/attestations/internal/attestations/http/dto"
	attestationsUseCase "github.com/allisson/attestations/internal/attestations/usecase"
	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authHttp "github.com/allisson/attestations/internal/auth/http"
	apperrors "github.com/allisson/attestations/internal/errors"
	"github.com/allisson/attestations/internal/httputil"
	customValidation "github.com/allisson/attestations/internal/validation"
)

// AttestationHandler handles HTTP requests for attestation lifecycle operations.
type AttestationHandler struct {
	attestationUseCase attestationsUseCase.AttestationUseCase
	logger             *slog.Logger
}

// NewAttestationHandler creates a new AttestationHandler.
func NewAttestationHandler(
	attestationUseCase attestationsUseCase.AttestationUseCase,
	logger *slog.Logger,
) *AttestationHandler {
	return &AttestationHandler{attestationUseCase: attestationUseCase, logger: logger}
}

// requireClient returns the authenticated client stored by the
// authentication middleware, writing the unauthorized response when the
// request never carried one.
func (h *AttestationHandler) requireClient(c *gin.Context) (*authDomain.Client, bool) {
	client, ok := authHttp.GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}

	return client, true
}

// parseAttestationID reads the :id route parameter. On malformed input it
// writes the validation error response and reports false.
func (h *AttestationHandler) parseAttestationID(c *gin.Context) (uuid.UUID, bool) {
	attestationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			errors.New("invalid attestation ID format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}

	return attestationID, true
}

// CreateHandler creates a new attestation with the authenticated client as
// its attester. Whether that client may attest against the schema at all is
// decided by the use case.
// POST /api/v1/attestations. Returns 201 Created with the stored attestation.
func (h *AttestationHandler) CreateHandler(c *gin.Context) {
	client, ok := h.requireClient(c)
	if !ok {
		return
	}

	var req dto.CreateAttestationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	schemaID, err := uuid.Parse(req.SchemaID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			errors.New("invalid schema_id format: must be a valid UUID"), h.logger)
		return
	}

	attestation, err := h.attestationUseCase.Create(c.Request.Context(), &attestationsDomain.CreateAttestationInput{
		SchemaID: schemaID,
		Subject:  req.Subject,
		Data:     req.Data,
	}, client.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAttestationToResponse(attestation))
}

// GetHandler retrieves the full attestation record by ID.
// GET /api/v1/attestations/:id. Returns 200 OK with the attestation details.
func (h *AttestationHandler) GetHandler(c *gin.Context) {
	attestationID, ok := h.parseAttestationID(c)
	if !ok {
		return
	}

	attestation, err := h.attestationUseCase.GetDetails(c.Request.Context(), attestationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAttestationToResponse(attestation))
}

// ValidityHandler reports whether an attestation is currently valid.
// GET /api/v1/attestations/:id/validity. Returns 200 OK with {"valid": bool}
// and 404 when the attestation does not exist.
func (h *AttestationHandler) ValidityHandler(c *gin.Context) {
	attestationID, ok := h.parseAttestationID(c)
	if !ok {
		return
	}

	valid, err := h.attestationUseCase.IsValid(c.Request.Context(), attestationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ValidityResponse{Valid: valid})
}

// RevokeHandler revokes an attestation. Only the original attester may
// revoke; repeat revocations succeed without effect.
// POST /api/v1/attestations/:id/revoke. Returns 204 No Content.
func (h *AttestationHandler) RevokeHandler(c *gin.Context) {
	client, ok := h.requireClient(c)
	if !ok {
		return
	}

	attestationID, ok := h.parseAttestationID(c)
	if !ok {
		return
	}

	if err := h.attestationUseCase.Revoke(c.Request.Context(), attestationID, client.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// QueryBySubjectHandler retrieves attestation IDs for a subject in creation
// order. An unknown subject yields an empty list.
// GET /api/v1/subjects/:subject/attestations?offset=0&limit=50.
func (h *AttestationHandler) QueryBySubjectHandler(c *gin.Context) {
	subject := c.Param("subject")
	if subject == "" {
		httputil.HandleValidationErrorGin(c, errors.New("subject cannot be empty"), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ids, err := h.attestationUseCase.QueryBySubject(c.Request.Context(), subject, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAttestationIDsToListResponse(ids))
}

// QueryBySchemaHandler retrieves attestation IDs for a schema in creation
// order. A schema with no attestations yields an empty list.
// GET /api/v1/schemas/:id/attestations?offset=0&limit=50.
func (h *AttestationHandler) QueryBySchemaHandler(c *gin.Context) {
	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			errors.New("invalid schema ID format: must be a valid UUID"), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ids, err := h.attestationUseCase.QueryBySchema(c.Request.Context(), schemaID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAttestationIDsToListResponse(ids))
}
