package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plantops/opsboard/internal/pkg/flog"
)

const LocalsRequestID = "requestId"

// RequestID copies the id assigned by the logger chain into the request locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(LocalsRequestID, id.String())
		}
		return c.Next()
	}
}
