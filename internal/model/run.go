package model

import "github.com/samber/lo"

// Analytics selects the derived fields added to a series.
type Analytics struct {
	Trend     bool  `json:"trend"`
	MAPeriods []int `json:"maPeriods,omitempty" validate:"max=8,dive,min=1"`
}

// Periods returns the requested moving average periods with non-positive values and
// duplicates removed, in request order.
func (a Analytics) Periods() []int {
	return lo.Uniq(lo.Filter(a.MAPeriods, func(p int, _ int) bool {
		return p > 0
	}))
}

type SeriesRequest struct {
	Spec      QuerySpec `json:"spec" validate:"required"`
	Analytics Analytics `json:"analytics"`
}

type RunRequest struct {
	Primary    SeriesRequest   `json:"primary" validate:"required"`
	Secondary  *SeriesRequest  `json:"secondary,omitempty"`
	References []ReferenceMark `json:"references,omitempty" validate:"max=16,dive"`
}

func (r RunRequest) HasSecondary() bool {
	return r.Secondary != nil
}

type CompiledSQL struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

type RunResult struct {
	RunID string      `json:"runId"`
	Chart Chart       `json:"chart"`
	SQL   CompiledSQL `json:"sql"`
}

// RunEvent is published after every completed run.
type RunEvent struct {
	RunID        string   `json:"runId"`
	Session      string   `json:"session,omitempty"`
	Tables       []string `json:"tables"`
	Rows         int      `json:"rows"`
	DurationMsec int64    `json:"durationMsec"`
}
