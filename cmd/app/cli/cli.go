package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/app"
	"github.com/plantops/opsboard/internal/app/appcontext"
)

// Start brings up the CLI application graph, fills targets from it, and calls run before
// stopping the graph again.
func Start(ctx context.Context, run func(ctx context.Context) error, targets ...interface{}) error {
	a := app.New(appcontext.Declare(appcontext.EnvCLI), fx.Populate(targets...))
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.Stop(context.Background()); err != nil {
			log.Warn().Err(err).Msg("cli: failed to stop application")
		}
	}()

	return run(ctx)
}
