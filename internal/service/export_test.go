package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

func TestWriteCSV(t *testing.T) {
	a := model.NewRow(model.StringKey("LINE-1"))
	a.Set("Y", null.FloatFrom(1.5))
	a.Set("Y2", null.Float{})
	b := model.NewRow(model.StringKey("LINE,2"))
	b.Set("Y", null.FloatFrom(-3))
	b.Set("Y_Trend", null.FloatFrom(0.25))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []model.Row{a, b}))

	assert.Equal(t, "X,Y,Y2,Y_Trend\nLINE-1,1.5,,\n\"LINE,2\",-3,,0.25\n", buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "X\n", buf.String())
}

func TestExportArchiveDisabled(t *testing.T) {
	e := &Export{graphs: &SavedGraph{repo: &memoryGraphStore{}}}
	_, err := e.Archive(context.Background(), 1)
	assert.ErrorIs(t, err, opserr.ErrConfiguration)
}
