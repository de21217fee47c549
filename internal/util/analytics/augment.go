package analytics

import (
	"github.com/rs/zerolog/log"

	"github.com/plantops/opsboard/internal/model"
)

// Augment sorts a copy of rows by X once, then layers the trend and every requested moving
// average on it. The derived fields are disjoint, so their order does not matter.
func Augment(rows []model.Row, yKey string, a model.Analytics) []model.Row {
	out := sortedCopy(rows)
	if a.Trend && !addTrend(out, yKey) {
		log.Debug().
			Str("evt.name", "analytics.trend.skipped").
			Str("field", yKey).
			Int("rows", len(out)).
			Msg("not enough usable points for a trendline")
	}
	for _, p := range a.Periods() {
		if !addMovingAverage(out, yKey, p) {
			log.Debug().
				Str("evt.name", "analytics.ma.skipped").
				Str("field", yKey).
				Int("period", p).
				Int("rows", len(out)).
				Msg("series shorter than moving average period")
		}
	}
	return out
}
