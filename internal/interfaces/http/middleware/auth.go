package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/coffeecommand/backend/internal/application/access"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/infrastructure/auth"
	"github.com/coffeecommand/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	IdentityKey   = "auth_identity"
	PrincipalKey  = "auth_principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuth verifies the bearer token and stores the caller's identity in the
// gin context. Tokens are minted by the identity provider; this only checks
// signature, issuer and expiry.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		ident, err := jwtService.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Token validation failed")
			return
		}

		c.Set(IdentityKey, ident)
		c.Next()
	}
}

// LoadPrincipal resolves the authenticated identity into a Principal with
// its branch grants attached. Must run after JWTAuth. Handlers downstream
// can assume GetPrincipal succeeds.
func LoadPrincipal(grants *access.GrantService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := GetIdentity(c)
		if ident == nil {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		principal, err := grants.PrincipalFor(c.Request.Context(), ident.UserID, ident.Username, ident.Role)
		if err != nil {
			logger.Error("Failed to load principal",
				zap.String("user_id", ident.UserID.String()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Failed to load permissions"))
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// RequireAdmin rejects non-admin principals. Must run after LoadPrincipal.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok || !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("PERMISSION_DENIED", "Admin access required"))
			return
		}
		c.Next()
	}
}

// GetIdentity returns the verified token identity, nil when unauthenticated
func GetIdentity(c *gin.Context) *auth.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	ident, ok := value.(*auth.Identity)
	if !ok {
		return nil
	}
	return ident
}

// GetPrincipal returns the resolved principal for the request
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return identity.Principal{}, false
	}
	principal, ok := value.(identity.Principal)
	return principal, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
