package service

import (
	"context"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/model"
	modelcache "github.com/plantops/opsboard/internal/model/cache"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/util/rekuest"
)

type Runner interface {
	Run(ctx context.Context, session string, req model.RunRequest) (*model.RunResult, error)
}

// Preset serves the dashboard cards defined in the presets file.
type Preset struct {
	graph Runner
	conf  *appconfig.Config
}

func NewPreset(graphService *Graph, conf *appconfig.Config) *Preset {
	return &Preset{graph: graphService, conf: conf}
}

// List returns the presets in file order. A missing presets file means no presets.
func (s *Preset) List(ctx context.Context) ([]model.Preset, error) {
	if modelcache.Presets == nil {
		return s.load()
	}
	var presets []model.Preset
	err := modelcache.Presets.MutexGetSet(&presets, s.load, time.Hour*24)
	return presets, err
}

func (s *Preset) Get(ctx context.Context, name string) (*model.Preset, error) {
	presets, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := lo.Find(presets, func(p model.Preset) bool {
		return p.Name == name
	})
	if !ok {
		return nil, opserr.ErrNotFound.Msg("preset %s not found", name)
	}
	return &p, nil
}

func (s *Preset) Run(ctx context.Context, name string) (*model.RunResult, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.graph.Run(ctx, "", p.Request)
}

// Warm runs every preset once so that their queries are memoized, pausing separation between
// presets. It returns the names of the presets that failed.
func (s *Preset) Warm(ctx context.Context, separation time.Duration) ([]string, error) {
	presets, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var failed []string
	for i, p := range presets {
		if i > 0 && separation > 0 {
			select {
			case <-ctx.Done():
				return failed, ctx.Err()
			case <-time.After(separation):
			}
		}
		if _, err := s.graph.Run(ctx, "", p.Request); err != nil {
			log.Warn().
				Err(err).
				Str("evt.name", "preset.warm.failed").
				Str("preset", p.Name).
				Msg("failed to warm preset")
			failed = append(failed, p.Name)
		}
	}
	return failed, nil
}

func (s *Preset) load() ([]model.Preset, error) {
	b, err := os.ReadFile(s.conf.PresetsFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().
			Str("evt.name", "preset.file.missing").
			Str("file", s.conf.PresetsFile).
			Msg("presets file not found, serving no presets")
		return []model.Preset{}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to read presets file")
	}

	var presets []model.Preset
	if err := json.Unmarshal(b, &presets); err != nil {
		return nil, errors.Wrap(err, "failed to parse presets file")
	}
	for i := range presets {
		if err := rekuest.ValidStruct(&presets[i]); err != nil {
			return nil, errors.Wrapf(err, "invalid preset at index %d", i)
		}
	}
	if dup := lo.FindDuplicatesBy(presets, func(p model.Preset) string { return p.Name }); len(dup) > 0 {
		return nil, errors.Errorf("duplicate preset name %s", dup[0].Name)
	}
	return presets, nil
}
