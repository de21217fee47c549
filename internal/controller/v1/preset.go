package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/server/svr"
	"github.com/plantops/opsboard/internal/service"
)

type Preset struct {
	fx.In

	PresetService *service.Preset
}

func RegisterPreset(v1 *svr.V1, c Preset) {
	v1.Get("/presets", c.List)
	v1.Post("/presets/:name/run", c.Run)
}

func (c *Preset) List(ctx *fiber.Ctx) error {
	presets, err := c.PresetService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(presets)
}

func (c *Preset) Run(ctx *fiber.Ctx) error {
	result, err := c.PresetService.Run(ctx.UserContext(), ctx.Params("name"))
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}
