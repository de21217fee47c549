// Package analytics derives trendline and moving average fields from a series. Augmenters never
// fail: when a series cannot support a derived field, it is returned unchanged.
package analytics

import (
	"math"

	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
)

// AddTrend annotates every row whose X has a timestamp with the ordinary least-squares fit of
// yKey over X. The input is left untouched; rows come back sorted by X.
// With fewer than two usable points, or when all usable X are equal, rows are returned as given.
func AddTrend(rows []model.Row, yKey string) []model.Row {
	sorted := sortedCopy(rows)
	if !addTrend(sorted, yKey) {
		return rows
	}
	return sorted
}

// addTrend fits and annotates rows in place. It reports whether the trend was added.
func addTrend(rows []model.Row, yKey string) bool {
	var (
		origin              float64
		n, sx, sy, sxy, sxx float64
		originSet           bool
	)
	for _, r := range rows {
		x, ok := r.X.Timestamp()
		if !ok {
			continue
		}
		y, ok := r.Get(yKey)
		if !ok || !y.Valid || math.IsNaN(y.Float64) || math.IsInf(y.Float64, 0) {
			continue
		}
		if !originSet {
			origin, originSet = x, true
		}
		x -= origin
		n++
		sx += x
		sy += y.Float64
		sxy += x * y.Float64
		sxx += x * x
	}
	if n < 2 {
		return false
	}

	denom := n*sxx - sx*sx
	if denom == 0 || math.IsNaN(denom) {
		return false
	}
	slope := (n*sxy - sx*sy) / denom
	intercept := (sy - slope*sx) / n
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return false
	}

	field := model.TrendField(yKey)
	for i := range rows {
		x, ok := rows[i].X.Timestamp()
		if !ok {
			continue
		}
		rows[i].Set(field, null.FloatFrom(slope*(x-origin)+intercept))
	}
	return true
}

func sortedCopy(rows []model.Row) []model.Row {
	out := model.CloneRows(rows)
	model.SortRows(out)
	return out
}
