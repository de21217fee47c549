package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
)

type fixedRunner struct {
	result *model.RunResult
}

func (r fixedRunner) Run(context.Context, string, model.RunRequest) (*model.RunResult, error) {
	return r.result, nil
}

func TestTable(t *testing.T) {
	a := model.NewRow(model.StringKey("LINE-1"))
	a.Set(model.FieldY, null.FloatFrom(1.5))
	b := model.NewRow(model.StringKey("LINE-2"))
	b.Set(model.FieldY, null.FloatFrom(-3))
	b.Set(model.FieldY2, null.Float{})

	var buf bytes.Buffer
	Table(&buf, []model.Row{a, b})

	out := buf.String()
	assert.Contains(t, out, "Y2")
	assert.Contains(t, out, "LINE-1")
	assert.Contains(t, out, "1.5")
	assert.Contains(t, out, "-3")
}

func TestRunJSON(t *testing.T) {
	row := model.NewRow(model.StringKey("A"))
	row.Set(model.FieldY, null.FloatFrom(2))
	runner := fixedRunner{result: &model.RunResult{
		RunID: "run-1",
		Chart: model.Chart{Rows: []model.Row{row}},
	}}

	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), &buf, runner, model.RunRequest{}, true))
	assert.Contains(t, buf.String(), `"runId": "run-1"`)
}
