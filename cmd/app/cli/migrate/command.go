package migrate

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	appcli "github.com/plantops/opsboard/cmd/app/cli"
	"github.com/plantops/opsboard/internal/repo"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the saved graph table when it does not exist",
		Action: func(c *cli.Context) error {
			var savedGraphRepo *repo.SavedGraph
			return appcli.Start(c.Context, func(ctx context.Context) error {
				return run(ctx, savedGraphRepo)
			}, &savedGraphRepo)
		},
	}
}

func run(ctx context.Context, r *repo.SavedGraph) error {
	if err := r.CreateTable(ctx); err != nil {
		return err
	}
	log.Info().
		Str("evt.name", "cli.migrate.done").
		Msg("saved graph table is ready")
	return nil
}
