package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
	"github.com/allisson/attestations/internal/schemas/http/dto"
	"github.com/allisson/attestations/internal/schemas/usecase/mocks"
)

// setupSchemaHandler creates a test handler with mocked dependencies.
func setupSchemaHandler(t *testing.T) (*SchemaHandler, *mocks.MockSchemaUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockSchemaUseCase := &mocks.MockSchemaUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewSchemaHandler(mockSchemaUseCase, logger)

	return handler, mockSchemaUseCase
}

func TestSchemaHandler_RegisterHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		callerID := uuid.Must(uuid.NewV7())
		schemaID := uuid.Must(uuid.NewV7())
		attesterID := uuid.Must(uuid.NewV7())

		request := dto.RegisterSchemaRequest{
			Name:                "KYC",
			Description:         "know your customer verification",
			Revocable:           true,
			AuthorizedAttesters: []string{attesterID.String()},
		}

		expectedSchema := &schemasDomain.Schema{
			ID:                  schemaID,
			Name:                "KYC",
			Description:         request.Description,
			Creator:             callerID,
			Revocable:           true,
			AuthorizedAttesters: []uuid.UUID{attesterID},
			CreatedAt:           time.Now().UTC(),
		}

		mockUseCase.On("Register", mock.Anything, mock.MatchedBy(func(input *schemasDomain.RegisterSchemaInput) bool {
			return input.Name == "KYC" &&
				input.Revocable &&
				len(input.AuthorizedAttesters) == 1 &&
				input.AuthorizedAttesters[0] == attesterID
		}), callerID).
			Return(expectedSchema, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/schemas", request)
		setAuthenticatedClient(c, callerID)

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.SchemaResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, schemaID.String(), response.ID)
		assert.Equal(t, callerID.String(), response.Creator)
		assert.Equal(t, []string{attesterID.String()}, response.AuthorizedAttesters)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_EmptyAttesterList", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		callerID := uuid.Must(uuid.NewV7())
		request := dto.RegisterSchemaRequest{Name: "residency"}

		expectedSchema := &schemasDomain.Schema{
			ID:                  uuid.Must(uuid.NewV7()),
			Name:                "residency",
			Creator:             callerID,
			AuthorizedAttesters: []uuid.UUID{},
		}

		mockUseCase.On("Register", mock.Anything, mock.MatchedBy(func(input *schemasDomain.RegisterSchemaInput) bool {
			return len(input.AuthorizedAttesters) == 0
		}), callerID).
			Return(expectedSchema, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/schemas", request)
		setAuthenticatedClient(c, callerID)

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.SchemaResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, []string{}, response.AuthorizedAttesters)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoAuthenticatedClient", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		request := dto.RegisterSchemaRequest{Name: "KYC"}
		c, w := createTestContext(http.MethodPost, "/api/v1/schemas", request)

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupSchemaHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v1/schemas", nil)
		setAuthenticatedClient(c, uuid.Must(uuid.NewV7()))
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_ValidationFailed_MissingName", func(t *testing.T) {
		handler, _ := setupSchemaHandler(t)

		request := dto.RegisterSchemaRequest{Name: ""}
		c, w := createTestContext(http.MethodPost, "/api/v1/schemas", request)
		setAuthenticatedClient(c, uuid.Must(uuid.NewV7()))

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_ValidationFailed_MalformedAttesterID", func(t *testing.T) {
		handler, _ := setupSchemaHandler(t)

		request := dto.RegisterSchemaRequest{
			Name:                "KYC",
			AuthorizedAttesters: []string{"not-a-uuid"},
		}
		c, w := createTestContext(http.MethodPost, "/api/v1/schemas", request)
		setAuthenticatedClient(c, uuid.Must(uuid.NewV7()))

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_CallerNotAuthorizedCreator", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		callerID := uuid.Must(uuid.NewV7())
		request := dto.RegisterSchemaRequest{Name: "KYC"}

		mockUseCase.On("Register", mock.Anything, mock.Anything, callerID).
			Return(nil, schemasDomain.ErrUnauthorizedSchemaCreator).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/schemas", request)
		setAuthenticatedClient(c, callerID)

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestSchemaHandler_GetHandler(t *testing.T) {
	t.Run("Success_ExistingSchema", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		schemaID := uuid.Must(uuid.NewV7())
		expectedSchema := &schemasDomain.Schema{
			ID:                  schemaID,
			Name:                "KYC",
			Creator:             uuid.Must(uuid.NewV7()),
			Revocable:           true,
			AuthorizedAttesters: []uuid.UUID{},
			CreatedAt:           time.Now().UTC(),
		}

		mockUseCase.On("Lookup", mock.Anything, schemaID).Return(expectedSchema, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas/"+schemaID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: schemaID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.SchemaResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, schemaID.String(), response.ID)
		assert.Equal(t, "KYC", response.Name)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, _ := setupSchemaHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_SchemaNotFound", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		schemaID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Lookup", mock.Anything, schemaID).
			Return(nil, schemasDomain.ErrSchemaNotFound).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas/"+schemaID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: schemaID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestSchemaHandler_ListHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		schemas := []*schemasDomain.Schema{
			{ID: uuid.Must(uuid.NewV7()), Name: "schema-b", AuthorizedAttesters: []uuid.UUID{}},
			{ID: uuid.Must(uuid.NewV7()), Name: "schema-a", AuthorizedAttesters: []uuid.UUID{}},
		}

		mockUseCase.On("List", mock.Anything, 0, 50).Return(schemas, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListSchemasResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Len(t, response.Data, 2)
		assert.Equal(t, "schema-b", response.Data[0].Name)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_EmptyList", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		mockUseCase.On("List", mock.Anything, 0, 50).
			Return([]*schemasDomain.Schema{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListSchemasResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Empty(t, response.Data)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		handler, mockUseCase := setupSchemaHandler(t)

		mockUseCase.On("List", mock.Anything, 0, 50).
			Return(nil, errors.New("database error")).
			Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/schemas", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}
