package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menu-api/config"
	"menu-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signClaims(t *testing.T, issuedAt, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: 7,
		Email:  "user@example.com",
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret)
	require.NoError(t, err)
	return signed
}

func TestTokenRoundTrip(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	user := &models.User{ID: 42, Email: "admin@example.com", Role: models.RoleAdmin}

	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenExpired(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	token := signClaims(t, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

	_, err := ParseToken(token)
	require.Error(t, err)
	assert.Equal(t, "Token has expired", err.Error())
}

func TestParseTokenIssuedInFuture(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	token := signClaims(t, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	_, err := ParseToken(token)
	require.Error(t, err)
	assert.Equal(t, "Token is not valid yet", err.Error())
}

func TestParseTokenMalformed(t *testing.T) {
	config.JWTSecret = []byte("test-secret")

	_, err := ParseToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, "Invalid token", err.Error())
}

func TestParseTokenWrongSecret(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	token := signClaims(t, time.Now(), time.Now().Add(time.Hour))

	config.JWTSecret = []byte("another-secret")
	defer func() { config.JWTSecret = []byte("test-secret") }()

	_, err := ParseToken(token)
	require.Error(t, err)
}

func guardedRouter(roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthRequired()}
	if len(roles) > 0 {
		handlers = append(handlers, RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": GetUserID(c), "role": GetRole(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	r := guardedRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredValidToken(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	r := guardedRouter()

	token, err := GenerateToken(&models.User{ID: 3, Email: "a@b.co", Role: models.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleRequiredRejectsWrongRole(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	r := guardedRouter(models.RoleAdmin)

	token, err := GenerateToken(&models.User{ID: 3, Email: "a@b.co", Role: models.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleRequiredAllowsMatchingRole(t *testing.T) {
	config.JWTSecret = []byte("test-secret")
	r := guardedRouter(models.RoleAdmin)

	token, err := GenerateToken(&models.User{ID: 3, Email: "a@b.co", Role: models.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
