package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/infrastructure/auth"
	"github.com/coffeecommand/backend/internal/infrastructure/config"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "coffeecommand"
)

func mintToken(t *testing.T, userID uuid.UUID, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   userID.String(),
		Username: "barista",
		Role:     role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: testIssuer})
	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/test", func(c *gin.Context) {
		ident := GetIdentity(c)
		if ident == nil {
			c.String(http.StatusInternalServerError, "no identity")
			return
		}
		c.String(http.StatusOK, ident.Username)
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	router := authRouter()

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(AuthHeaderKey, "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, uuid.New(), "worker", -time.Minute))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, uuid.New(), "worker", time.Hour))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "barista", w.Body.String())
	})
}

func TestRequireAdmin(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		role := identity.Role(c.GetHeader("X-Test-Role"))
		c.Set(PrincipalKey, identity.NewPrincipal(uuid.New(), "tester", role, nil))
	})
	router.Use(RequireAdmin())
	router.GET("/admin", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("X-Test-Role", string(identity.RoleAdmin))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("worker is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("X-Test-Role", string(identity.RoleWorker))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
