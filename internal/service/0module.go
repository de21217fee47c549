package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/pkg/runseq"
)

func Module() fx.Option {
	return fx.Module("service", fx.Provide(
		NewCatalog,
		NewQuery,
		NewGraph,
		NewEvent,
		NewSavedGraph,
		NewExport,
		NewPreset,
		NewHealth,
		NewSequencer,
	))
}

// NewSequencer keeps run tickets in Redis so that stale-run detection spans instances.
func NewSequencer(client *redis.Client, conf *appconfig.Config) runseq.Sequencer {
	return runseq.NewRedis(client, conf.RunSequenceTTL)
}
