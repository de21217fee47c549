package model

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

const (
	FieldX = "X"
	FieldY = "Y"

	// FieldY2 is the value field of the secondary series after a merge.
	FieldY2 = "Y2"

	DateLayout    = "2006-01-02"
	InstantLayout = "2006-01-02T15:04:05.000Z"
)

// dateLayouts are tried in order when deciding whether a string X is date-like.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

type KeyKind uint8

const (
	KeyString KeyKind = iota
	KeyNumber
	KeyTime
)

// Key is the X value of a row. Two keys are the same point on the X axis iff their
// canonical strings are equal.
type Key struct {
	kind KeyKind
	str  string
	num  float64
	t    time.Time
}

func StringKey(s string) Key {
	return Key{kind: KeyString, str: s}
}

// NumberKey returns a number key. NaN and infinities have no place on a numeric axis and no
// JSON number form, so they become string keys ("NaN", "+Inf", "-Inf").
func NumberKey(f float64) Key {
	str := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return StringKey(str)
	}
	return Key{kind: KeyNumber, num: f, str: str}
}

func TimeKey(t time.Time) Key {
	t = t.UTC()
	layout := InstantLayout
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		layout = DateLayout
	}
	return Key{kind: KeyTime, t: t, str: t.Format(layout)}
}

// ParseKeyString turns a string into a time key when it is date-like, or a string key otherwise.
func ParseKeyString(s string) Key {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return TimeKey(t)
		}
	}
	return StringKey(s)
}

func (k Key) Kind() KeyKind {
	return k.kind
}

func (k Key) String() string {
	return k.str
}

// KeyID is the identity of a key. The number 1 and the string "1" are different points.
type KeyID struct {
	Kind KeyKind
	Str  string
}

func (k Key) ID() KeyID {
	return KeyID{Kind: k.kind, Str: k.str}
}

// Timestamp converts the key to a number on a continuous axis: numbers map to themselves,
// times to Unix milliseconds. Plain strings have no timestamp.
func (k Key) Timestamp() (float64, bool) {
	switch k.kind {
	case KeyNumber:
		return k.num, true
	case KeyTime:
		return float64(k.t.UnixMilli()), true
	}
	return 0, false
}

// Compare orders keys ascending. Keys with a timestamp come first, ordered by timestamp; plain
// strings follow in lexical order. Ties fall back to the canonical string, then the kind, so
// Compare returns 0 exactly when both keys have the same ID.
func (k Key) Compare(o Key) int {
	kt, kok := k.Timestamp()
	ot, ook := o.Timestamp()
	switch {
	case kok && ook:
		if kt < ot {
			return -1
		} else if kt > ot {
			return 1
		}
	case kok:
		return -1
	case ook:
		return 1
	}
	if c := strings.Compare(k.str, o.str); c != 0 {
		return c
	}
	switch {
	case k.kind < o.kind:
		return -1
	case k.kind > o.kind:
		return 1
	}
	return 0
}

func (k Key) MarshalJSON() ([]byte, error) {
	if k.kind == KeyNumber {
		return []byte(k.str), nil
	}
	return json.Marshal(k.str)
}

func (k *Key) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = ParseKeyString(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*k = StringKey("")
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return errors.Wrap(err, "key must be a string or a number")
	}
	*k = NumberKey(f)
	return nil
}

// Row is one point of a chart-ready series: the X key plus an open set of named nullable
// numeric fields. A field missing from Fields is absent; a field holding an invalid
// null.Float is an explicit null.
type Row struct {
	X      Key
	Fields map[string]null.Float
}

func NewRow(x Key) Row {
	return Row{X: x, Fields: map[string]null.Float{}}
}

func (r Row) Get(field string) (null.Float, bool) {
	v, ok := r.Fields[field]
	return v, ok
}

func (r Row) Has(field string) bool {
	_, ok := r.Fields[field]
	return ok
}

// Set assigns a field, allocating the field map when needed.
func (r *Row) Set(field string, v null.Float) {
	if r.Fields == nil {
		r.Fields = map[string]null.Float{}
	}
	r.Fields[field] = v
}

func (r Row) Clone() Row {
	c := Row{X: r.X, Fields: make(map[string]null.Float, len(r.Fields))}
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return c
}

// FieldNames returns the names of the fields present on the row, sorted.
func (r Row) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"X":`)
	x, err := r.X.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(x)
	for _, name := range r.FieldNames() {
		buf.WriteByte(',')
		n, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(n)
		buf.WriteByte(':')
		v, err := r.Fields[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Row) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	x, ok := raw[FieldX]
	if !ok {
		return errors.New("row is missing X")
	}
	row := Row{Fields: make(map[string]null.Float, len(raw)-1)}
	if err := row.X.UnmarshalJSON(x); err != nil {
		return err
	}
	for name, v := range raw {
		if name == FieldX {
			continue
		}
		var f null.Float
		if err := f.UnmarshalJSON(v); err != nil {
			return errors.Wrapf(err, "field %s", name)
		}
		row.Fields[name] = f
	}
	*r = row
	return nil
}

// SortRows sorts rows ascending by X in place, keeping the relative order of equal keys.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].X.Compare(rows[j].X) < 0
	})
}

// CloneRows deep-copies rows.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// TrendField names the trendline field derived from a value field.
func TrendField(yKey string) string {
	return yKey + "_Trend"
}

// MovingAverageField names the N-period moving average field derived from a value field.
func MovingAverageField(yKey string, period int) string {
	return yKey + "_MA" + strconv.Itoa(period)
}
