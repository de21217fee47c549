package analytics

import (
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
)

// AddMovingAverage annotates rows with the trailing mean of yKey over period rows. The first
// period-1 rows get an explicit null; a null yKey counts as 0 in the window sum. For a
// non-positive period or fewer rows than period, rows are returned as given.
func AddMovingAverage(rows []model.Row, yKey string, period int) []model.Row {
	if period <= 0 || len(rows) < period {
		return rows
	}
	sorted := sortedCopy(rows)
	addMovingAverage(sorted, yKey, period)
	return sorted
}

func addMovingAverage(rows []model.Row, yKey string, period int) bool {
	if period <= 0 || len(rows) < period {
		return false
	}
	field := model.MovingAverageField(yKey, period)
	var sum float64
	for i := range rows {
		sum += value(rows[i], yKey)
		if i >= period {
			sum -= value(rows[i-period], yKey)
		}
		if i < period-1 {
			rows[i].Set(field, null.Float{})
			continue
		}
		rows[i].Set(field, null.FloatFrom(sum/float64(period)))
	}
	return true
}

func value(r model.Row, yKey string) float64 {
	v, ok := r.Get(yKey)
	if !ok || !v.Valid {
		return 0
	}
	return v.Float64
}
