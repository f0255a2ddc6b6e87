package middleware

import (
	"errors"
	"strings"

	"github.com/gethired/gethired/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware requires a valid access token and puts the caller's identity
// in Locals.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, err := m.claimsFromRequest(c)
		if err != nil {
			return err
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		return c.Next()
	}
}

// Optional sets the identity when a valid bearer token is present and lets
// anonymous requests through untouched. Used by endpoints whose behavior
// is richer for signed-in users (saved/applied tabs, relevance sort).
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		if claims, err := m.claimsFromRequest(c); err == nil {
			c.Locals(CtxUserIDKey, claims.UserID)
			c.Locals(CtxEmailKey, claims.Email)
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) claimsFromRequest(c fiber.Ctx) (jwt.Claims, error) {
	token, ok := bearerTokenFromHeader(c.Get("Authorization"))
	if !ok {
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		}
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}
	if claims.TokenType != jwt.TokenTypeAccess || m.jwt.IsRefreshToken(claims) {
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
	}
	return claims, nil
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
