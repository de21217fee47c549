package warmwkr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

type fakePresets struct {
	presets []model.Preset
	ran     []string
}

func (f *fakePresets) List(context.Context) ([]model.Preset, error) {
	return f.presets, nil
}

func (f *fakePresets) Run(_ context.Context, name string) (*model.RunResult, error) {
	f.ran = append(f.ran, name)
	if name == "broken" {
		return nil, opserr.ErrExecution
	}
	return &model.RunResult{}, nil
}

func TestBatchRunsEveryPreset(t *testing.T) {
	f := &fakePresets{presets: []model.Preset{{Name: "holds"}, {Name: "broken"}, {Name: "yields"}}}
	w := &Worker{presets: f, timeout: time.Minute}

	w.batch(context.Background())

	assert.Equal(t, []string{"holds", "broken", "yields"}, f.ran)
	assert.Equal(t, 1, w.Count())
}

func TestBatchStopsOnCancel(t *testing.T) {
	f := &fakePresets{presets: []model.Preset{{Name: "holds"}, {Name: "yields"}}}
	w := &Worker{presets: f, timeout: time.Minute, sep: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.batch(ctx)

	assert.Equal(t, []string{"holds"}, f.ran)
	assert.Equal(t, 0, w.Count())
}
