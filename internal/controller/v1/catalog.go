package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/pkg/cachectrl"
	"github.com/plantops/opsboard/internal/server/svr"
	"github.com/plantops/opsboard/internal/service"
)

type Catalog struct {
	fx.In

	CatalogService *service.Catalog
	Config         *appconfig.Config
}

func RegisterCatalog(v1 *svr.V1, c Catalog) {
	v1.Get("/tables", c.GetTables)
	v1.Get("/tables/:table/columns", c.GetColumns)
}

func (c *Catalog) GetTables(ctx *fiber.Ctx) error {
	return ctx.JSON(c.CatalogService.Tables())
}

func (c *Catalog) GetColumns(ctx *fiber.Ctx) error {
	columns, err := c.CatalogService.GetColumns(ctx.UserContext(), ctx.Params("table"))
	if err != nil {
		return err
	}

	cachectrl.OptIn(ctx, c.Config.CatalogCacheTTL)
	return ctx.JSON(columns)
}
