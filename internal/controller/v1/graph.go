package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/cachectrl"
	"github.com/plantops/opsboard/internal/pkg/middlewares"
	"github.com/plantops/opsboard/internal/server/svr"
	"github.com/plantops/opsboard/internal/service"
	"github.com/plantops/opsboard/internal/util/rekuest"
)

type Graph struct {
	fx.In

	GraphService *service.Graph
}

func RegisterGraph(v1 *svr.V1, c Graph) {
	v1.Post("/graphs/run", c.Run)
}

// Run executes a graph request. Clients send the same X-Opsboard-Session header with every run
// of one editor so that superseded runs are answered with 409.
func (c *Graph) Run(ctx *fiber.Ctx) error {
	var req model.RunRequest
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	result, err := c.GraphService.Run(ctx.UserContext(), ctx.Get(middlewares.HeaderSession), req)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(result)
}
