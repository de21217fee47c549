package series

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

func TestNormalize(t *testing.T) {
	day := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	raw := []map[string]interface{}{
		{"x": day, "y": int64(4)},
		{"X": "2023-05-02", "Y": "4.5"},
		{"X": []byte("Line 3"), "Y": nil},
		{"X": 7.5, "Y": "n/a"},
		{"X": nil, "Y": float32(2)},
	}

	rows, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, "2023-05-01", rows[0].X.String())
	assert.Equal(t, model.KeyTime, rows[0].X.Kind())
	assert.Equal(t, null.FloatFrom(4), rows[0].Fields[model.FieldY])

	assert.Equal(t, "2023-05-02", rows[1].X.String())
	assert.Equal(t, model.KeyTime, rows[1].X.Kind())
	assert.Equal(t, null.FloatFrom(4.5), rows[1].Fields[model.FieldY])

	assert.Equal(t, "Line 3", rows[2].X.String())
	assert.Equal(t, model.KeyString, rows[2].X.Kind())
	assert.True(t, rows[2].Has(model.FieldY))
	assert.False(t, rows[2].Fields[model.FieldY].Valid)

	assert.Equal(t, "7.5", rows[3].X.String())
	assert.False(t, rows[3].Fields[model.FieldY].Valid)

	assert.Equal(t, "", rows[4].X.String())
	assert.Equal(t, null.FloatFrom(2), rows[4].Fields[model.FieldY])
}

func TestNormalizeKeepsOrder(t *testing.T) {
	rows, err := Normalize([]map[string]interface{}{
		{"X": "b", "Y": 1},
		{"X": "a", "Y": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "b", rows[0].X.String())
	assert.Equal(t, "a", rows[1].X.String())
}

func TestNormalizeTimestampsAgreeAcrossSources(t *testing.T) {
	rows, err := Normalize([]map[string]interface{}{
		{"X": time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), "Y": 1},
		{"X": "2023-05-01T00:00:00Z", "Y": 1},
		{"X": "2023-05-01 00:00:00", "Y": 1},
	})
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, "2023-05-01", r.X.String())
	}
}

func TestNormalizeFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		raw  []map[string]interface{}
	}{
		{"missing X", []map[string]interface{}{{"X": "a", "Y": 1}, {"DATE": "b", "Y": 2}}},
		{"missing Y", []map[string]interface{}{{"X": "a", "VALUE": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Normalize(tt.raw)
			assert.Nil(t, rows)
			assert.True(t, errors.Is(err, opserr.ErrDataShape))
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	rows, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNormalizeNonFiniteX(t *testing.T) {
	raw := []map[string]interface{}{
		{"x": math.NaN(), "y": 1},
		{"x": math.Inf(1), "y": 2},
		{"x": math.Inf(-1), "y": 3},
		{"x": 4.0, "y": 4},
	}

	rows, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, model.KeyString, rows[0].X.Kind())
	assert.Equal(t, "NaN", rows[0].X.String())
	assert.Equal(t, model.KeyString, rows[1].X.Kind())
	assert.Equal(t, "+Inf", rows[1].X.String())
	assert.Equal(t, model.KeyNumber, rows[3].X.Kind())

	b, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"X":"NaN","Y":1},{"X":"+Inf","Y":2},{"X":"-Inf","Y":3},{"X":4,"Y":4}]`, string(b))

	var back []model.Row
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 4)
	assert.Equal(t, rows[1].X.ID(), back[1].X.ID())
	assert.Equal(t, rows[3].X.ID(), back[3].X.ID())
}
