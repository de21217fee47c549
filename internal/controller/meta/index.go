package meta

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plantops/opsboard/internal/pkg/bininfo"
)

func RegisterIndex(app *fiber.App) {
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "opsboard analytics API",
			"version": bininfo.Version,
			"v1":      "/api/v1",
		})
	})
}
