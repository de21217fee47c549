// Package sqlbuild turns a model.QuerySpec into a parameterized SELECT statement.
package sqlbuild

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

// Statement is a built query. SQL carries placeholders in the configured format, Args the
// bound filter values in placeholder order.
type Statement struct {
	SQL  string        `json:"sql"`
	Args []interface{} `json:"args"`

	// raw is the statement with '?' placeholders, kept for Literal.
	raw string
}

type options struct {
	schema      string
	placeholder sq.PlaceholderFormat
}

type Option func(*options)

// WithSchema qualifies unqualified table names with schema.
func WithSchema(schema string) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// WithPlaceholder selects the placeholder format of Statement.SQL. The default is sq.Dollar.
func WithPlaceholder(f sq.PlaceholderFormat) Option {
	return func(o *options) {
		o.placeholder = f
	}
}

// Build assembles the statement for spec. It is pure: the only failure mode is a spec that
// cannot describe a query, reported as opserr.ErrConfiguration.
func Build(spec model.QuerySpec, opts ...Option) (*Statement, error) {
	o := options{placeholder: sq.Dollar}
	for _, opt := range opts {
		opt(&o)
	}

	spec = spec.Normalized()
	if err := check(spec); err != nil {
		return nil, err
	}

	table := spec.Table
	if o.schema != "" && !strings.Contains(table, ".") {
		table = o.schema + "." + table
	}

	xExpr := truncate(spec.XSource(), spec.TimeGrain)
	yExpr := spec.YColumn
	if spec.Aggregate != model.AggregateNone {
		yExpr = string(spec.Aggregate) + "(" + spec.YColumn + ")"
	}

	b := sq.Select(xExpr+" AS "+model.FieldX, yExpr+" AS "+model.FieldY).
		From(table)

	for _, f := range spec.Filters {
		b = b.Where(f.Column+" "+string(f.Operator)+" ?", f.Value)
	}

	if len(spec.GroupBy) > 0 {
		groups := append([]string{truncate(spec.GroupBy[0], spec.TimeGrain)}, spec.GroupBy[1:]...)
		b = b.GroupBy(groups...)
	}

	raw, args, err := b.OrderBy(model.FieldX).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, opserr.ErrConfiguration.Msg("failed to assemble query: %s", err.Error())
	}

	text, err := o.placeholder.ReplacePlaceholders(raw)
	if err != nil {
		return nil, opserr.ErrConfiguration.Msg("failed to assemble query: %s", err.Error())
	}

	return &Statement{SQL: text, Args: args, raw: raw}, nil
}

func check(spec model.QuerySpec) error {
	if spec.Table == "" {
		return opserr.ErrConfiguration.Msg("table is required")
	}
	if spec.YColumn == "" {
		return opserr.ErrConfiguration.Msg("yColumn is required")
	}
	if spec.XSource() == "" {
		return opserr.ErrConfiguration.Msg("xColumn or groupBy is required")
	}
	if !model.ValidTableName(spec.Table) {
		return opserr.ErrConfiguration.Msg("invalid table name %q", spec.Table)
	}
	for _, col := range spec.Columns() {
		if !model.ValidIdentifier(col) {
			return opserr.ErrConfiguration.Msg("invalid column name %q", col)
		}
	}
	if !spec.Aggregate.Valid() {
		return opserr.ErrConfiguration.Msg("unknown aggregate %q", spec.Aggregate)
	}
	for _, f := range spec.Filters {
		if !f.Operator.Valid() {
			return opserr.ErrConfiguration.Msg("unknown operator %q on column %s", f.Operator, f.Column)
		}
	}
	if !spec.TimeGrain.Valid() {
		return opserr.ErrConfiguration.Msg("unknown time grain %q", spec.TimeGrain)
	}
	return nil
}

func truncate(col string, grain model.TimeGrain) string {
	if grain == model.TimeGrainNone {
		return col
	}
	return "DATE_TRUNC('" + string(grain) + "', " + col + ")"
}

// Literal renders the statement with every bound value inlined as a quoted literal, single
// quotes doubled. The result is meant for previews and logs, never for execution.
func (s *Statement) Literal() string {
	var sb strings.Builder
	sb.Grow(len(s.raw) + 16*len(s.Args))
	n := 0
	inQuote := false
	for _, c := range s.raw {
		switch {
		case c == '\'':
			inQuote = !inQuote
			sb.WriteRune(c)
		case c == '?' && !inQuote && n < len(s.Args):
			sb.WriteString(quote(s.Args[n]))
			n++
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

func quote(v interface{}) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case nil:
		return "NULL"
	default:
		s = fmt.Sprint(t)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
