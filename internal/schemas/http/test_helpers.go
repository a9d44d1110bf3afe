package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authHttp "github.com/allisson/attestations/internal/auth/http"
)

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// setAuthenticatedClient injects an authenticated client into the request
// context the way the authentication middleware does.
func setAuthenticatedClient(c *gin.Context, clientID uuid.UUID) *authDomain.Client {
	client := &authDomain.Client{
		ID:       clientID,
		Name:     "test-client",
		IsActive: true,
	}
	c.Request = c.Request.WithContext(authHttp.WithClient(c.Request.Context(), client))
	return client
}
