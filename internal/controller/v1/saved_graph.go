package v1

import (
	"strconv"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/fiberstore"
	"github.com/plantops/opsboard/internal/pkg/middlewares"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/server/svr"
	"github.com/plantops/opsboard/internal/service"
	"github.com/plantops/opsboard/internal/util/rekuest"
)

type SavedGraph struct {
	fx.In

	SavedGraphService *service.SavedGraph
	ExportService     *service.Export
	Redis             *redis.Client
	RedSync           *redsync.Redsync
}

func RegisterSavedGraph(v1 *svr.V1, c SavedGraph) {
	group := v1.Group("/graphs/saved")

	group.Get("/", c.List)
	group.Post("/", middlewares.Idempotency(middlewares.IdempotencyConfig{
		Lifetime:            time.Hour * 24,
		KeepResponseHeaders: []string{fiber.HeaderContentType},
		Storage:             fiberstore.NewRedis(c.Redis, "idempotency#savedGraph:"),
		RedSync:             c.RedSync,
	}), c.Add)
	group.Get("/:id", c.Get)
	group.Delete("/:id", c.Delete)
	group.Get("/:id/export", c.Export)
	group.Post("/:id/archive", c.Archive)
}

func graphID(ctx *fiber.Ctx) (int, error) {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, opserr.ErrInvalidReq.Msg("invalid or missing graph id")
	}
	return id, nil
}

func (c *SavedGraph) List(ctx *fiber.Ctx) error {
	summaries, err := c.SavedGraphService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(summaries)
}

func (c *SavedGraph) Add(ctx *fiber.Ctx) error {
	var req model.SaveGraphRequest
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	graph, err := c.SavedGraphService.Add(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(graph)
}

func (c *SavedGraph) Get(ctx *fiber.Ctx) error {
	id, err := graphID(ctx)
	if err != nil {
		return err
	}

	graph, err := c.SavedGraphService.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(graph)
}

func (c *SavedGraph) Delete(ctx *fiber.Ctx) error {
	id, err := graphID(ctx)
	if err != nil {
		return err
	}

	if err := c.SavedGraphService.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *SavedGraph) Export(ctx *fiber.Ctx) error {
	id, err := graphID(ctx)
	if err != nil {
		return err
	}

	graph, body, err := c.ExportService.CSV(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	ctx.Attachment("graph-" + strconv.Itoa(graph.GraphID) + ".csv")
	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return ctx.Send(body)
}

func (c *SavedGraph) Archive(ctx *fiber.Ctx) error {
	id, err := graphID(ctx)
	if err != nil {
		return err
	}

	key, err := c.ExportService.Archive(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key": key,
	})
}
