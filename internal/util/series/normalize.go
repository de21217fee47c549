// Package series shapes warehouse rows into chart-ready series and aligns two series on X.
package series

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

// Normalize maps raw warehouse rows to {X, Y} rows, preserving their order. X and Y are looked
// up case-insensitively since Postgres folds unquoted aliases to lower case. A row without an X
// or Y column fails the whole result: Normalize returns nil and opserr.ErrDataShape.
func Normalize(raw []map[string]interface{}) ([]model.Row, error) {
	rows := make([]model.Row, 0, len(raw))
	for i, r := range raw {
		xv, ok := lookup(r, model.FieldX)
		if !ok {
			return nil, opserr.ErrDataShape.Msg("row %d has no %s column", i, model.FieldX)
		}
		yv, ok := lookup(r, model.FieldY)
		if !ok {
			return nil, opserr.ErrDataShape.Msg("row %d has no %s column", i, model.FieldY)
		}

		row := model.NewRow(ToKey(xv))
		row.Set(model.FieldY, ToFloat(yv))
		rows = append(rows, row)
	}
	return rows, nil
}

func lookup(r map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// ToKey coerces a driver value into an X key. Date-like strings and times become time keys so
// that two independently fetched series agree on the canonical representation; NULL becomes
// the empty string key.
func ToKey(v interface{}) model.Key {
	switch t := v.(type) {
	case nil:
		return model.StringKey("")
	case model.Key:
		return t
	case time.Time:
		return model.TimeKey(t)
	case *time.Time:
		if t == nil {
			return model.StringKey("")
		}
		return model.TimeKey(*t)
	case string:
		return model.ParseKeyString(t)
	case []byte:
		return model.ParseKeyString(string(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return model.NumberKey(f)
		}
		return model.StringKey(t.String())
	case bool:
		return model.StringKey(strconv.FormatBool(t))
	}
	if f, ok := number(v); ok {
		return model.NumberKey(f)
	}
	return model.StringKey("")
}

// ToFloat coerces a driver value into a nullable number. NULL, NaN, infinities and
// non-numeric values are null.
func ToFloat(v interface{}) null.Float {
	var f float64
	switch t := v.(type) {
	case nil:
		return null.Float{}
	case null.Float:
		return t
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return null.Float{}
		}
		f = p
	case []byte:
		p, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		if err != nil {
			return null.Float{}
		}
		f = p
	case json.Number:
		p, err := t.Float64()
		if err != nil {
			return null.Float{}
		}
		f = p
	default:
		n, ok := number(v)
		if !ok {
			return null.Float{}
		}
		f = n
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

func number(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
