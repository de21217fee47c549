package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
)

func numericSeries(ys ...float64) []model.Row {
	rows := make([]model.Row, len(ys))
	for i, y := range ys {
		rows[i] = model.NewRow(model.NumberKey(float64(i)))
		rows[i].Set(model.FieldY, null.FloatFrom(y))
	}
	return rows
}

func TestAddTrendIdentity(t *testing.T) {
	rows := AddTrend(numericSeries(0, 1, 2), model.FieldY)
	require.Len(t, rows, 3)
	for i, r := range rows {
		v, ok := r.Get("Y_Trend")
		require.True(t, ok)
		assert.InDelta(t, float64(i), v.Float64, 1e-9)
	}
}

func TestAddTrendOverDates(t *testing.T) {
	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]model.Row, 4)
	for i := range rows {
		rows[i] = model.NewRow(model.TimeKey(start.AddDate(0, 0, i)))
		rows[i].Set(model.FieldY, null.FloatFrom(10+2*float64(i)))
	}
	out := AddTrend(rows, model.FieldY)
	for i, r := range out {
		assert.InDelta(t, 10+2*float64(i), r.Fields["Y_Trend"].Float64, 1e-6)
	}
}

func TestAddTrendSkipsUnusablePoints(t *testing.T) {
	rows := numericSeries(0, 1, 2)
	rows = append(rows, model.NewRow(model.StringKey("unknown")))
	rows[3].Set(model.FieldY, null.FloatFrom(100))
	rows[1].Set(model.FieldY, null.Float{})

	out := AddTrend(rows, model.FieldY)
	require.Len(t, out, 4)
	assert.InDelta(t, 1.0, out[1].Fields["Y_Trend"].Float64, 1e-9)
	assert.False(t, out[3].Has("Y_Trend"), "rows without a timestamp are not annotated")
}

func TestAddTrendFewerThanTwoPoints(t *testing.T) {
	tests := map[string][]model.Row{
		"empty":       nil,
		"single":      numericSeries(5),
		"one numeric": append(numericSeries(5), model.NewRow(model.NumberKey(3))),
	}
	for name, rows := range tests {
		t.Run(name, func(t *testing.T) {
			out := AddTrend(rows, model.FieldY)
			assert.Equal(t, rows, out)
			for _, r := range out {
				assert.False(t, r.Has("Y_Trend"))
			}
		})
	}
}

func TestAddTrendEqualX(t *testing.T) {
	rows := []model.Row{model.NewRow(model.NumberKey(1)), model.NewRow(model.NumberKey(1))}
	rows[0].Set(model.FieldY, null.FloatFrom(1))
	rows[1].Set(model.FieldY, null.FloatFrom(2))
	out := AddTrend(rows, model.FieldY)
	assert.Equal(t, rows, out)
	assert.False(t, out[0].Has("Y_Trend"))
}

func TestAddTrendSortsInput(t *testing.T) {
	rows := numericSeries(0, 1, 2)
	rows[0], rows[2] = rows[2], rows[0]

	out := AddTrend(rows, model.FieldY)
	assert.Equal(t, "0", out[0].X.String())
	assert.Equal(t, "2", out[2].X.String())
	assert.False(t, rows[0].Has("Y_Trend"), "input must not be modified")
}

func TestAddMovingAverage(t *testing.T) {
	out := AddMovingAverage(numericSeries(1, 2, 3, 4, 5), model.FieldY, 3)

	want := []null.Float{{}, {}, null.FloatFrom(2), null.FloatFrom(3), null.FloatFrom(4)}
	for i, r := range out {
		v, ok := r.Get("Y_MA3")
		require.True(t, ok, "row %d must carry an explicit value", i)
		assert.Equal(t, want[i].Valid, v.Valid)
		if want[i].Valid {
			assert.InDelta(t, want[i].Float64, v.Float64, 1e-9)
		}
	}
}

func TestAddMovingAverageNullCountsAsZero(t *testing.T) {
	rows := numericSeries(3, 3, 3)
	rows[1].Set(model.FieldY, null.Float{})
	out := AddMovingAverage(rows, model.FieldY, 3)
	assert.InDelta(t, 2.0, out[2].Fields["Y_MA3"].Float64, 1e-9)
}

func TestAddMovingAverageUnchanged(t *testing.T) {
	rows := numericSeries(1, 2)
	assert.Equal(t, rows, AddMovingAverage(rows, model.FieldY, 3))
	assert.Equal(t, rows, AddMovingAverage(rows, model.FieldY, 0))
	assert.Equal(t, rows, AddMovingAverage(rows, model.FieldY, -2))
}

func TestAugmentLayersFields(t *testing.T) {
	rows := numericSeries(1, 2, 3, 4, 5, 6, 7)
	out := Augment(rows, model.FieldY, model.Analytics{Trend: true, MAPeriods: []int{3, 7, 3, 0, 15}})

	assert.Equal(t, []string{"Y", "Y_MA3", "Y_MA7", "Y_Trend"}, out[0].FieldNames())
	assert.InDelta(t, 4.0, out[6].Fields["Y_MA7"].Float64, 1e-9)
	assert.InDelta(t, 6.0, out[6].Fields["Y_MA3"].Float64, 1e-9)
	assert.InDelta(t, 7.0, out[6].Fields["Y_Trend"].Float64, 1e-9)
	assert.False(t, out[0].Has("Y_MA15"))
	assert.Equal(t, []string{"Y"}, rows[0].FieldNames())
}

func TestAugmentIsDeterministic(t *testing.T) {
	rows := numericSeries(4, 8, 15, 16, 23, 42)
	a := model.Analytics{Trend: true, MAPeriods: []int{3}}

	first := Augment(rows, model.FieldY, a)
	second := Augment(rows, model.FieldY, a)
	assert.Equal(t, first, second)

	again := Augment(first, model.FieldY, a)
	assert.Equal(t, first, again)
}

func TestAugmentWithoutAnalytics(t *testing.T) {
	rows := numericSeries(2, 1)
	out := Augment(rows, model.FieldY, model.Analytics{})
	assert.Equal(t, []string{"Y"}, out[0].FieldNames())
	assert.False(t, math.IsNaN(out[0].Fields["Y"].Float64))
}
