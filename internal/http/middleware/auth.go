package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"popforge/internal/auth"
)

// SubjectLocalKey is the key used to store the authenticated subject in
// Fiber's context locals.
const SubjectLocalKey = "auth_subject"

// RequireBearer gates a route behind a bearer access token.
//
// It fails with 401 when the Authorization header is absent, and 403 when
// the scheme is not Bearer or the token does not verify (bad signature or
// expired). On success the token's subject is stored in locals under
// SubjectLocalKey for downstream handlers. The guard runs before any
// pipeline side effect.
func RequireBearer(verifier auth.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication credentials not provided")
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return fiber.NewError(fiber.StatusForbidden, "invalid authentication scheme")
		}

		subject, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusForbidden, "invalid or expired token")
		}

		c.Locals(SubjectLocalKey, subject)
		return c.Next()
	}
}
