package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menu-api/middleware"
	"menu-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// guardedRouter wires the body guard in front of the routes the way
// main.go does, so the size cap and content-type checks are exercised
// end to end.
func guardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupRouter(t)

	r := gin.New()
	r.Use(middleware.BodyGuard())
	routes.SetupRoutes(r)
	return r
}

func TestRegisterRejectsOversizedBody(t *testing.T) {
	r := guardedRouter(t)

	payload := map[string]interface{}{
		"name":        strings.Repeat("a", middleware.MaxBodyBytes+1),
		"email":       "big@example.com",
		"phoneNumber": "+2348012345678",
		"password":    "password123",
	}
	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", payload)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Request body too large", body["message"])
}

func TestRegisterRejectsNonJSONContentType(t *testing.T) {
	r := guardedRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Content-Type must be application/json", body["message"])
}
