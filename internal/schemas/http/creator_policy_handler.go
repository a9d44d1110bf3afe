package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/attestations/internal/httputil"
	"github.com/allisson/attestations/internal/schemas/http/dto"
	schemasUseCase "github.com/allisson/attestations/internal/schemas/usecase"
)

// CreatorPolicyHandler handles HTTP requests for the global schema creator policy.
type CreatorPolicyHandler struct {
	schemaUseCase schemasUseCase.SchemaUseCase
	logger        *slog.Logger
}

// NewCreatorPolicyHandler creates a new CreatorPolicyHandler.
func NewCreatorPolicyHandler(schemaUseCase schemasUseCase.SchemaUseCase, logger *slog.Logger) *CreatorPolicyHandler {
	return &CreatorPolicyHandler{schemaUseCase: schemaUseCase, logger: logger}
}

// GetHandler retrieves the active creator policy. When no policy was ever
// stored the creators list comes back empty.
// GET /api/v1/creator-policy.
func (h *CreatorPolicyHandler) GetHandler(c *gin.Context) {
	policy, err := h.schemaUseCase.GetCreators(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCreatorPolicyToResponse(policy))
}

// UpdateHandler replaces the creator policy with the provided list and
// records the authenticated admin client as its author. The admin capability
// and the X-Admin-Credential header are both enforced by middleware before
// this runs.
// PUT /api/v1/creator-policy. Returns 200 OK with the new active policy.
func (h *CreatorPolicyHandler) UpdateHandler(c *gin.Context) {
	client, ok := requireClient(c, h.logger)
	if !ok {
		return
	}

	var req dto.UpdateCreatorPolicyRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	creators, err := dto.ParseUUIDList(req.Creators)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.schemaUseCase.UpdateCreators(c.Request.Context(), creators, client.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Re-read so the response reflects what was stored.
	policy, err := h.schemaUseCase.GetCreators(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCreatorPolicyToResponse(policy))
}
