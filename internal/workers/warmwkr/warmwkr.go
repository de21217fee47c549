// Package warmwkr periodically runs every dashboard preset so that their queries stay memoized.
package warmwkr

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/service"
)

type PresetRunner interface {
	List(ctx context.Context) ([]model.Preset, error)
	Run(ctx context.Context, name string) (*model.RunResult, error)
}

type WorkerDeps struct {
	fx.In

	PresetService *service.Preset
	RedSync       *redsync.Redsync
}

type Worker struct {
	// count counts batches worker has completed so far
	count int

	// sep describes the separation time in-between different presets
	sep time.Duration

	// interval describes the interval in-between different batches
	interval time.Duration

	// timeout bounds a single batch
	timeout time.Duration

	presets PresetRunner
	lock    *redsync.Mutex
}

func Start(conf *appconfig.Config, deps WorkerDeps, lc fx.Lifecycle) {
	if !conf.WorkerEnabled {
		log.Info().
			Str("evt.name", "worker.warm.disabled").
			Msg("preset warming worker is disabled")
		return
	}

	w := &Worker{
		sep:      conf.WorkerSeparation,
		interval: conf.WorkerInterval,
		timeout:  conf.WorkerTimeout,
		presets:  deps.PresetService,
		// one instance warms per batch; the others skip it
		lock: deps.RedSync.NewMutex("mutex:warmwkr", redsync.WithExpiry(conf.WorkerTimeout), redsync.WithTries(1)),
	}

	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			cancel = w.do()
			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}

func (w *Worker) do() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			if err := w.lock.LockContext(ctx); err != nil {
				log.Debug().
					Err(err).
					Str("evt.name", "worker.warm.lock_skipped").
					Msg("another instance is warming presets, skipping batch")
			} else {
				w.batch(ctx)
				if _, err := w.lock.UnlockContext(context.Background()); err != nil {
					log.Warn().Err(err).Str("evt.name", "worker.warm.unlock_failed").Msg("failed to release worker lock")
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(w.interval):
			}
		}
	}()

	return cancel
}

// batch runs every preset once. A failing preset is logged and does not stop the batch.
func (w *Worker) batch(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	log.Info().
		Int("count", w.count).
		Msg("worker batch started")

	presets, err := w.presets.List(ctx)
	if err != nil {
		log.Error().Err(err).Str("evt.name", "worker.warm.list_failed").Msg("failed to list presets")
		return
	}

	for i, p := range presets {
		if i > 0 {
			select {
			case <-ctx.Done():
				log.Warn().Err(ctx.Err()).Int("count", w.count).Msg("worker batch aborted")
				return
			case <-time.After(w.sep):
			}
		}

		log.Info().Str("preset", p.Name).Str("service", "PresetService").Msg("worker calculating")
		err := observeCalcDuration("PresetService", p.Name, func() error {
			_, err := w.presets.Run(ctx, p.Name)
			return err
		})
		if err != nil {
			log.Warn().Err(err).Str("preset", p.Name).Msg("worker failed to warm preset")
			continue
		}
		log.Debug().Str("preset", p.Name).Str("service", "PresetService").Msg("worker finished")
	}

	log.Info().Int("count", w.count).Msg("worker batch finished")
	w.count++
}

func (w *Worker) Count() int {
	return w.count
}
