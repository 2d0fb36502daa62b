package auth

import (
	"errors"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrMissingUserID = errors.New("missing user_id in claims")
	ErrUnknownRole   = errors.New("unknown role in claims")
)

// Claims represents the verified identity carried by a bearer token. Tokens
// are minted by the external identity provider; this service only verifies
// signature, expiry and issuer.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Identity is the decoded, validated form of the claims
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     identity.Role
}

// JWTService verifies bearer tokens
type JWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a new JWT verification service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// VerifyToken parses and validates a bearer token and returns the identity
// it carries
func (s *JWTService) VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrMissingUserID
	}

	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrUnknownRole
	}

	return &Identity{
		UserID:   userID,
		Username: claims.Username,
		Role:     role,
	}, nil
}
