package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/plantops/opsboard/internal/pkg/opserr"
)

// AdminKey guards a route group with a shared key. With no key configured every request is
// refused.
func AdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		given := c.Get(HeaderAdminKey)
		if key == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			return opserr.ErrUnauthorized.Msg("missing or invalid %s header", HeaderAdminKey)
		}
		return c.Next()
	}
}
