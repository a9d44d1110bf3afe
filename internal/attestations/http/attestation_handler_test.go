package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
	"github.com/allisson/attestations/internal/attestations/http/dto"
	"github.com/allisson/attestations/internal/attestations/usecase/mocks"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// setupAttestationHandler creates a test handler with mocked dependencies.
func setupAttestationHandler(t *testing.T) (*AttestationHandler, *mocks.MockAttestationUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockAttestationUseCase := &mocks.MockAttestationUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewAttestationHandler(mockAttestationUseCase, logger)

	return handler, mockAttestationUseCase
}

func TestAttestationHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attesterID := uuid.Must(uuid.NewV7())
		schemaID := uuid.Must(uuid.NewV7())
		attestationID := uuid.Must(uuid.NewV7())

		request := dto.CreateAttestationRequest{
			SchemaID: schemaID.String(),
			Subject:  "user-123",
			Data:     json.RawMessage(`{"level": 2}`),
		}

		expectedAttestation := &attestationsDomain.Attestation{
			ID:        attestationID,
			SchemaID:  schemaID,
			Attester:  attesterID,
			Subject:   "user-123",
			Data:      json.RawMessage(`{"level": 2}`),
			Revoked:   false,
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(input *attestationsDomain.CreateAttestationInput) bool {
			return input.SchemaID == schemaID && input.Subject == "user-123"
		}), attesterID).
			Return(expectedAttestation, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/attestations", request)
		setAuthenticatedClient(c, attesterID)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.AttestationResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, attestationID.String(), response.ID)
		assert.Equal(t, attesterID.String(), response.Attester)
		assert.Equal(t, "user-123", response.Subject)
		assert.False(t, response.Revoked)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoAuthenticatedClient", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		request := dto.CreateAttestationRequest{
			SchemaID: uuid.Must(uuid.NewV7()).String(),
			Subject:  "user-123",
			Data:     json.RawMessage(`{}`),
		}
		c, w := createTestContext(http.MethodPost, "/api/v1/attestations", request)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupAttestationHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v1/attestations", nil)
		setAuthenticatedClient(c, uuid.Must(uuid.NewV7()))
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_ValidationFailed_MissingSubject", func(t *testing.T) {
		handler, _ := setupAttestationHandler(t)

		request := dto.CreateAttestationRequest{
			SchemaID: uuid.Must(uuid.NewV7()).String(),
			Subject:  "",
			Data:     json.RawMessage(`{}`),
		}
		c, w := createTestContext(http.MethodPost, "/api/v1/attestations", request)
		setAuthenticatedClient(c, uuid.Must(uuid.NewV7()))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_SchemaNotFound", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attesterID := uuid.Must(uuid.NewV7())
		request := dto.CreateAttestationRequest{
			SchemaID: uuid.Must(uuid.NewV7()).String(),
			Subject:  "user-123",
			Data:     json.RawMessage(`{}`),
		}

		mockUseCase.On("Create", mock.Anything, mock.Anything, attesterID).
			Return(nil, schemasDomain.ErrSchemaNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/attestations", request)
		setAuthenticatedClient(c, attesterID)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_UnauthorizedAttester", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attesterID := uuid.Must(uuid.NewV7())
		request := dto.CreateAttestationRequest{
			SchemaID: uuid.Must(uuid.NewV7()).String(),
			Subject:  "user-123",
			Data:     json.RawMessage(`{}`),
		}

		mockUseCase.On("Create", mock.Anything, mock.Anything, attesterID).
			Return(nil, attestationsDomain.ErrUnauthorizedAttester).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/attestations", request)
		setAuthenticatedClient(c, attesterID)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestAttestationHandler_GetHandler(t *testing.T) {
	t.Run("Success_ExistingAttestation", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attestationID := uuid.Must(uuid.NewV7())
		expected := &attestationsDomain.Attestation{
			ID:        attestationID,
			SchemaID:  uuid.Must(uuid.NewV7()),
			Attester:  uuid.Must(uuid.NewV7()),
			Subject:   "user-123",
			Data:      json.RawMessage(`{"level": 2}`),
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("GetDetails", mock.Anything, attestationID).Return(expected, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/attestations/"+attestationID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.AttestationResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, attestationID.String(), response.ID)
		assert.JSONEq(t, `{"level": 2}`, string(response.Data))
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("GetDetails", mock.Anything, attestationID).
			Return(nil, attestationsDomain.ErrAttestationNotFound).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/attestations/"+attestationID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, _ := setupAttestationHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/attestations/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAttestationHandler_ValidityHandler(t *testing.T) {
	t.Run("Success_ValidAttestation", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("IsValid", mock.Anything, attestationID).Return(true, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/attestations/"+attestationID.String()+"/validity", nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}

		handler.ValidityHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ValidityResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response.Valid)
	})

	t.Run("Success_RevokedAttestation", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("IsValid", mock.Anything, attestationID).Return(false, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/attestations/"+attestationID.String()+"/validity", nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}

		handler.ValidityHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ValidityResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Valid)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("IsValid", mock.Anything, attestationID).
			Return(false, attestationsDomain.ErrAttestationNotFound).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/attestations/"+attestationID.String()+"/validity", nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}

		handler.ValidityHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAttestationHandler_RevokeHandler(t *testing.T) {
	t.Run("Success_RevokedByAttester", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attesterID := uuid.Must(uuid.NewV7())
		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, attestationID, attesterID).Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/attestations/"+attestationID.String()+"/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}
		setAuthenticatedClient(c, attesterID)

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoAuthenticatedClient", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		attestationID := uuid.Must(uuid.NewV7())
		c, w := createTestContext(http.MethodPost, "/api/v1/attestations/"+attestationID.String()+"/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_CallerIsNotAttester", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		callerID := uuid.Must(uuid.NewV7())
		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, attestationID, callerID).
			Return(attestationsDomain.ErrUnauthorizedAttester).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/attestations/"+attestationID.String()+"/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}
		setAuthenticatedClient(c, callerID)

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		callerID := uuid.Must(uuid.NewV7())
		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, attestationID, callerID).
			Return(attestationsDomain.ErrAttestationNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/attestations/"+attestationID.String()+"/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: attestationID.String()}}
		setAuthenticatedClient(c, callerID)

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAttestationHandler_QueryBySubjectHandler(t *testing.T) {
	t.Run("Success_ReturnsOrderedIDs", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		first := uuid.Must(uuid.NewV7())
		second := uuid.Must(uuid.NewV7())

		mockUseCase.On("QueryBySubject", mock.Anything, "user-123", 0, 50).
			Return([]uuid.UUID{first, second}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/subjects/user-123/attestations", nil)
		c.Params = gin.Params{{Key: "subject", Value: "user-123"}}

		handler.QueryBySubjectHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListAttestationIDsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, []string{first.String(), second.String()}, response.Data)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_UnknownSubjectReturnsEmptyList", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		mockUseCase.On("QueryBySubject", mock.Anything, "nobody", 0, 50).
			Return([]uuid.UUID{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/subjects/nobody/attestations", nil)
		c.Params = gin.Params{{Key: "subject", Value: "nobody"}}

		handler.QueryBySubjectHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, []interface{}{}, response["data"])
	})

	t.Run("Error_EmptySubject", func(t *testing.T) {
		handler, _ := setupAttestationHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/subjects//attestations", nil)
		c.Params = gin.Params{{Key: "subject", Value: ""}}

		handler.QueryBySubjectHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAttestationHandler_QueryBySchemaHandler(t *testing.T) {
	t.Run("Success_ReturnsOrderedIDs", func(t *testing.T) {
		handler, mockUseCase := setupAttestationHandler(t)

		schemaID := uuid.Must(uuid.NewV7())
		attestationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("QueryBySchema", mock.Anything, schemaID, 0, 50).
			Return([]uuid.UUID{attestationID}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas/"+schemaID.String()+"/attestations", nil)
		c.Params = gin.Params{{Key: "id", Value: schemaID.String()}}

		handler.QueryBySchemaHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListAttestationIDsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, []string{attestationID.String()}, response.Data)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, _ := setupAttestationHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas/not-a-uuid/attestations", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.QueryBySchemaHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
