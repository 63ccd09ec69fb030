package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

const userKey = "user"

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user in the request locals. Browsers cannot set headers on
// WebSocket upgrades, so the access_token query parameter is accepted too.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("access_token")
		}
		if token == "" {
			return errUnauthorized(c, "Authentication credentials were not provided.")
		}

		user, err := deps.Auth.Authenticate(token)
		if err != nil {
			return errUnauthorized(c, "Given token not valid.")
		}

		c.Locals(userKey, *user)
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// currentUser returns the user set by RequireAuth.
func currentUser(c *fiber.Ctx) domain.UserRef {
	u, _ := c.Locals(userKey).(domain.UserRef)
	return u
}
