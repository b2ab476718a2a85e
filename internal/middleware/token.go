package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/apperr"
)

const (
	bearerPrefix = "bearer "
	userIDKey    = "user_id"
)

// Resolver turns a bearer token into the id of an existing account.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// TokenAccess gates a route on a resolvable bearer token and stores the
// resolved id for the handler. Handlers scope every read and write to it.
func TokenAccess(resolver Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractBearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		id, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(userIDKey, id)
		return c.Next()
	}
}

// UserID returns the id stored by TokenAccess, or "" on an ungated route.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" || !strings.HasPrefix(strings.ToLower(header), bearerPrefix) {
		return "", apperr.New(apperr.CodeInvalidToken, "Forbidden: Not authenticated.")
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", apperr.New(apperr.CodeInvalidToken, "Forbidden: Not authenticated.")
	}
	return token, nil
}
