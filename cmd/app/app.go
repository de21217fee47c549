package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/plantops/opsboard/cmd/app/cli/compile"
	"github.com/plantops/opsboard/cmd/app/cli/migrate"
	"github.com/plantops/opsboard/cmd/app/cli/render"
	"github.com/plantops/opsboard/cmd/app/server"
	"github.com/plantops/opsboard/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "opsboard",
		Description: "Plant operations analytics backend. Compiles query specs against the warehouse, augments and merges series, and lays them out as charts. Built with Go, fiber, bun and go.uber.org/fx.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			migrate.Command(),
			compile.Command(),
			render.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
