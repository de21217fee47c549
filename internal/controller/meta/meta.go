package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/pkg/bininfo"
	"github.com/plantops/opsboard/internal/service"
)

type Meta struct {
	fx.In

	HealthService *service.Health
}

func RegisterMeta(app *fiber.App, c Meta) {
	app.Get("/api/bininfo", c.BinInfo)

	app.Get("/health", cache.New(cache.Config{
		// cache it for a second to mitigate potential DDoS
		Expiration: time.Second,
	}), c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"version": bininfo.Version,
		"build":   bininfo.BuildTime,
	})
}

func (c *Meta) Health(ctx *fiber.Ctx) error {
	if err := c.HealthService.Ping(ctx.UserContext()); err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	return ctx.JSON(fiber.Map{
		"status": "ok",
	})
}
