package meta

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/fx"

	modelcache "github.com/plantops/opsboard/internal/model/cache"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/server/svr"
	"github.com/plantops/opsboard/internal/service"
	"github.com/plantops/opsboard/internal/util/rekuest"
)

type AdminController struct {
	fx.In

	PresetService *service.Preset
}

type FlushCacheRequest struct {
	// Name of the cache to flush. Empty flushes every cache.
	Name string `json:"name" validate:"max=64"`
}

func RegisterAdmin(admin *svr.Admin, c AdminController) {
	admin.Get("/cache", c.ListCaches)
	admin.Post("/cache/flush", c.FlushCache)
	admin.Post("/presets/warm", c.WarmPresets)
}

func (c *AdminController) ListCaches(ctx *fiber.Ctx) error {
	return ctx.JSON(modelcache.Names())
}

func (c *AdminController) FlushCache(ctx *fiber.Ctx) error {
	var request FlushCacheRequest
	if len(ctx.Body()) > 0 {
		if err := rekuest.ValidBody(ctx, &request); err != nil {
			return err
		}
	}
	if request.Name != "" && !lo.Contains(modelcache.Names(), request.Name) {
		return opserr.ErrNotFound.Msg("cache %s does not exist", request.Name)
	}

	if err := modelcache.Delete(ctx.UserContext(), request.Name); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *AdminController) WarmPresets(ctx *fiber.Ctx) error {
	failed, err := c.PresetService.Warm(ctx.UserContext(), 0)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"failed": lo.Ternary(failed == nil, []string{}, failed),
	})
}
