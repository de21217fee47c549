package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/server/svr"
	"github.com/plantops/opsboard/internal/service"
	"github.com/plantops/opsboard/internal/util/rekuest"
)

type Query struct {
	fx.In

	QueryService *service.Query
}

type CompileResponse struct {
	SQL     string        `json:"sql"`
	Args    []interface{} `json:"args"`
	Literal string        `json:"literal"`
}

func RegisterQuery(v1 *svr.V1, c Query) {
	v1.Post("/queries/compile", c.Compile)
}

// Compile returns the statement a spec would run, without running it.
func (c *Query) Compile(ctx *fiber.Ctx) error {
	var spec model.QuerySpec
	if err := rekuest.ValidBody(ctx, &spec); err != nil {
		return err
	}

	stmt, err := c.QueryService.Compile(ctx.UserContext(), spec)
	if err != nil {
		return err
	}

	args := stmt.Args
	if args == nil {
		args = []interface{}{}
	}
	return ctx.JSON(CompileResponse{
		SQL:     stmt.SQL,
		Args:    args,
		Literal: stmt.Literal(),
	})
}
