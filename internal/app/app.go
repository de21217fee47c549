package app

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/app/appcontext"
	"github.com/plantops/opsboard/internal/controller"
	"github.com/plantops/opsboard/internal/infra"
	"github.com/plantops/opsboard/internal/model/cache"
	"github.com/plantops/opsboard/internal/pkg/logger"
	"github.com/plantops/opsboard/internal/repo"
	"github.com/plantops/opsboard/internal/server"
	"github.com/plantops/opsboard/internal/service"
	"github.com/plantops/opsboard/internal/workers/warmwkr"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Infrastructures
		infra.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits
		fx.Invoke(infra.SentryInit),
		fx.Invoke(infra.Datadog),
		fx.Invoke(func(client *redis.Client) { cache.Initialize(client) }),
	}

	if ctx.Env == appcontext.EnvServer {
		baseOpts = append(baseOpts,
			// Servers
			server.Module(),

			// Controllers are fx#Invoke functions and run in registration order, after the
			// singletons above.
			controller.Module(),

			// Workers
			fx.Invoke(warmwkr.Start),
		)
	}

	baseOpts = append(baseOpts,
		// fx Extra Options
		fx.StartTimeout(10*time.Second),
		// StopTimeout is not typically needed, since we're using fiber's Shutdown(),
		// in which fiber has its own IdleTimeout for controlling the shutdown timeout.
		// It acts as a countermeasure in case the fiber app is not properly shutting down.
		fx.StopTimeout(5*time.Minute),
	)

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
