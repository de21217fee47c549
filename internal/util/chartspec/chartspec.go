// Package chartspec assembles the declarative chart handed to the rendering surface and
// guarantees its row invariants.
package chartspec

import (
	"strconv"

	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/util/series"
)

const (
	AxisPrimary   = "primary"
	AxisSecondary = "secondary"
	AxisLeft      = "left"
	AxisRight     = "right"
)

// Default lays out the axes and marks of a run: a shared X axis (doubled on top for a
// secondary series), a left Y axis for the primary series and a right one for the secondary.
func Default(req model.RunRequest) ([]model.Axis, []model.Mark) {
	axes := []model.Axis{
		{ID: AxisPrimary, Type: model.AxisTypeX, DataKey: model.FieldX},
	}
	if req.HasSecondary() {
		axes = append(axes, model.Axis{ID: AxisSecondary, Type: model.AxisTypeX, DataKey: model.FieldX, Orientation: "top"})
	}
	axes = append(axes, model.Axis{ID: AxisLeft, Type: model.AxisTypeY, Label: req.Primary.Spec.YColumn})
	if req.HasSecondary() {
		axes = append(axes, model.Axis{ID: AxisRight, Type: model.AxisTypeY, Orientation: "right", Label: req.Secondary.Spec.YColumn})
	}

	marks := seriesMarks("Primary", req.Primary, AxisLeft, func(s string) string { return s })
	if req.HasSecondary() {
		marks = append(marks, seriesMarks("Secondary", *req.Secondary, AxisRight, series.RenameSecondary)...)
	}
	return axes, marks
}

func seriesMarks(label string, s model.SeriesRequest, axis string, rename func(string) string) []model.Mark {
	agg := s.Spec.Normalized().Aggregate
	marks := []model.Mark{{
		Type:    model.MarkTypeLine,
		DataKey: rename(model.FieldY),
		Name:    label + " (" + string(agg) + ")",
		AxisID:  axis,
	}}
	if s.Analytics.Trend {
		marks = append(marks, model.Mark{
			Type:    model.MarkTypeLine,
			DataKey: rename(model.TrendField(model.FieldY)),
			Name:    label + " Trend",
			AxisID:  axis,
			Dashed:  true,
		})
	}
	for _, p := range s.Analytics.Periods() {
		marks = append(marks, model.Mark{
			Type:    model.MarkTypeLine,
			DataKey: rename(model.MovingAverageField(model.FieldY, p)),
			Name:    label + " MA" + strconv.Itoa(p),
			AxisID:  axis,
		})
	}
	return marks
}

// ValidateReferences checks that every reference mark is drawable on axes. A mark without an
// axis is placed on the left one.
func ValidateReferences(refs []model.ReferenceMark, axes []model.Axis) ([]model.ReferenceMark, error) {
	yAxes := lo.FilterMap(axes, func(a model.Axis, _ int) (string, bool) {
		return a.ID, a.Type == model.AxisTypeY
	})

	out := make([]model.ReferenceMark, 0, len(refs))
	for i, ref := range refs {
		if ref.AxisID == "" {
			ref.AxisID = AxisLeft
		}
		if !lo.Contains(yAxes, ref.AxisID) {
			return nil, opserr.ErrConfiguration.Msg("reference %d uses unknown axis %q", i, ref.AxisID)
		}
		switch ref.Type {
		case model.ReferenceTypeLine:
			if (ref.X == nil) == (ref.Y == nil) {
				return nil, opserr.ErrConfiguration.Msg("reference line %d needs exactly one of x or y", i)
			}
		case model.ReferenceTypeDot:
			if ref.X == nil || ref.Y == nil {
				return nil, opserr.ErrConfiguration.Msg("reference dot %d needs both x and y", i)
			}
		case model.ReferenceTypeArea:
			xSpan := ref.X != nil && ref.X2 != nil
			ySpan := ref.Y != nil && ref.Y2 != nil
			if !xSpan && !ySpan {
				return nil, opserr.ErrConfiguration.Msg("reference area %d needs x..x2 or y..y2", i)
			}
		default:
			return nil, opserr.ErrConfiguration.Msg("reference %d has unknown type %q", i, ref.Type)
		}
		out = append(out, ref)
	}
	return out, nil
}

// Finalize returns rows sorted by X with unique keys, every mark data key present on every row.
// Duplicate keys collapse onto the last row, like series.Merge; missing fields become explicit
// nulls.
func Finalize(rows []model.Row, marks []model.Mark) []model.Row {
	index := make(map[model.KeyID]int, len(rows))
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if i, ok := index[r.X.ID()]; ok {
			out[i] = r.Clone()
			continue
		}
		index[r.X.ID()] = len(out)
		out = append(out, r.Clone())
	}
	model.SortRows(out)

	for i := range out {
		for _, m := range marks {
			if !out[i].Has(m.DataKey) {
				out[i].Set(m.DataKey, null.Float{})
			}
		}
	}
	return out
}

// Compose builds the chart of a run from its final rows.
func Compose(rows []model.Row, req model.RunRequest) (model.Chart, error) {
	axes, marks := Default(req)
	refs, err := ValidateReferences(req.References, axes)
	if err != nil {
		return model.Chart{}, err
	}
	return model.Chart{
		Rows:       Finalize(rows, marks),
		Axes:       axes,
		Marks:      marks,
		References: refs,
	}, nil
}
