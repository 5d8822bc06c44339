package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/parts-order-api/internal/models"
	"github.com/fieldworks/parts-order-api/internal/service"
)

func signedToken(t *testing.T, secret string, expiry time.Duration) string {
	t.Helper()
	claims := models.JWTClaims{
		UserID: "user@corp.com",
		Role:   models.RoleRequester,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func jwtTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService(nil, nil, service.AuthServiceConfig{Secret: secret, TokenTTL: time.Hour})
	r := gin.New()
	r.GET("/protected", JWT(authSvc), func(c *gin.Context) {
		claims, _ := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"userId": claims.(*models.JWTClaims).UserID})
	})
	return r
}

func TestJWTMiddlewareAcceptsBearerToken(t *testing.T) {
	r := jwtTestRouter("secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", time.Hour))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user@corp.com")
}

func TestJWTMiddlewareAcceptsQueryToken(t *testing.T) {
	r := jwtTestRouter("secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+signedToken(t, "secret", time.Hour), nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	r := jwtTestRouter("secret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	r := jwtTestRouter("secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", -time.Hour))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesBlocksOtherRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only",
		func(c *gin.Context) {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "user@corp.com", Role: models.RoleRequester})
		},
		RequireRoles(models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin-only", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only",
		func(c *gin.Context) {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin@corp.com", Role: models.RoleAdmin})
		},
		RequireRoles(models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin-only", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
