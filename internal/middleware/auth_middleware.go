package middleware

import (
	"log"
	"strings"

	"conduit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys under which the resolved identity is stored for downstream
// handlers.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// AuthRequired resolves the caller's identity from the Authorization header
// and rejects the request when it cannot. The expected scheme is the
// literal `Token`, not `Bearer`. A missing or malformed header is an
// authentication failure (401); a well-formed header carrying an invalid or
// expired token is an authorization failure (403). No storage lookup
// happens here; the token content is trusted as-is.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := extractToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header must be 'Token <token>'",
			})
		}
		return resolveIdentity(c, authService, tokenString)
	}
}

// AuthOptional resolves the caller's identity when an Authorization header
// is present, and continues as anonymous when it is not. A present but
// invalid token is still rejected; optional means the header may be
// absent, not that garbage is accepted. Routes opt into this mode
// explicitly.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next() // anonymous caller
		}
		tokenString, ok := extractToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header must be 'Token <token>'",
			})
		}
		return resolveIdentity(c, authService, tokenString)
	}
}

// extractToken pulls the credential out of the Authorization header,
// enforcing the `Token` scheme.
func extractToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Token" {
		return "", false
	}
	return parts[1], true
}

// resolveIdentity validates the credential and attaches the resolved
// identity to the request context.
func resolveIdentity(c *fiber.Ctx, authService *services.AuthService, tokenString string) error {
	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		log.Printf("Token validation failed: %v", err)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}

	userID, _ := claims["user_id"].(string)
	userEmail, _ := claims["email"].(string)
	c.Locals(UserIDKey, userID)
	c.Locals(UserEmailKey, userEmail)

	return c.Next()
}

// CallerID returns the resolved user id for the current request, or the
// empty string for an anonymous caller.
func CallerID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
