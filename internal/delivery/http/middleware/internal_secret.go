package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"
)

// CtxInternalKey is set when the caller proved knowledge of the shared
// secret; handlers use it to unlock internal-only parameters.
const CtxInternalKey = "internal_caller"

// InternalSecretMiddleware guards the /internal surface: callers must
// present the shared secret in X-Internal-Secret. With no secret
// configured the whole surface is closed.
type InternalSecretMiddleware struct {
	secret string
}

func NewInternalSecretMiddleware(secret string) *InternalSecretMiddleware {
	return &InternalSecretMiddleware{secret: secret}
}

func (m *InternalSecretMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m.secret == "" {
			return NewAppError(fiber.StatusNotFound, "Not found", nil, nil)
		}

		got := c.Get("X-Internal-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.secret)) != 1 {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		c.Locals(CtxInternalKey, true)
		return c.Next()
	}
}

// Detect marks internal callers on otherwise public routes without
// rejecting anyone.
func (m *InternalSecretMiddleware) Detect() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m.secret != "" {
			got := c.Get("X-Internal-Secret")
			if got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(m.secret)) == 1 {
				c.Locals(CtxInternalKey, true)
			}
		}
		return c.Next()
	}
}
