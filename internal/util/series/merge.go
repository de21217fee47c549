package series

import (
	"strings"

	"github.com/plantops/opsboard/internal/model"
)

const secondaryPrefix = model.FieldY2

// RenameSecondary maps a field of the secondary series onto the merged row. The value marker is
// anchored at the start of the name: Y becomes Y2 and Y_<suffix> becomes Y2_<suffix>. Any other
// name is namespaced as Y2_<name> so it can never collide with a primary field.
func RenameSecondary(field string) string {
	if field == model.FieldY {
		return secondaryPrefix
	}
	if strings.HasPrefix(field, model.FieldY+"_") {
		return secondaryPrefix + field[len(model.FieldY):]
	}
	return secondaryPrefix + "_" + field
}

// Merge aligns a primary and a secondary series on X. Primary rows are taken verbatim,
// secondary fields are renamed with RenameSecondary. Every X of either input appears exactly
// once in the output, sorted ascending; an X present on one side only carries no fields of the
// other. A repeated primary X keeps its last row; repeated secondary rows overwrite field by field.
// Keys align by ID: a number X never matches a string X with the same text.
func Merge(primary, secondary []model.Row) []model.Row {
	index := make(map[model.KeyID]int, len(primary)+len(secondary))
	merged := make([]model.Row, 0, len(primary)+len(secondary))

	for _, r := range primary {
		key := r.X.ID()
		if i, ok := index[key]; ok {
			merged[i] = r.Clone()
			continue
		}
		index[key] = len(merged)
		merged = append(merged, r.Clone())
	}

	for _, r := range secondary {
		key := r.X.ID()
		i, ok := index[key]
		if !ok {
			i = len(merged)
			index[key] = i
			merged = append(merged, model.NewRow(r.X))
		}
		for name, v := range r.Fields {
			merged[i].Set(RenameSecondary(name), v)
		}
	}

	model.SortRows(merged)
	return merged
}
