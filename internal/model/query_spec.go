package model

import (
	"encoding/hex"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
)

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)
	tableNameRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_$]*\.)?[A-Za-z_][A-Za-z0-9_$]*$`)
)

// ValidIdentifier reports whether s is a plain, unquoted SQL identifier.
func ValidIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// ValidTableName is ValidIdentifier with an optional schema qualifier.
func ValidTableName(s string) bool {
	return tableNameRe.MatchString(s)
}

type Aggregate string

const (
	AggregateSum   Aggregate = "SUM"
	AggregateAvg   Aggregate = "AVG"
	AggregateMin   Aggregate = "MIN"
	AggregateMax   Aggregate = "MAX"
	AggregateCount Aggregate = "COUNT"
	AggregateNone  Aggregate = "NONE"
)

var Aggregates = []Aggregate{AggregateSum, AggregateAvg, AggregateMin, AggregateMax, AggregateCount, AggregateNone}

func (a Aggregate) Valid() bool {
	return lo.Contains(Aggregates, a)
}

type Operator string

const (
	OperatorEq   Operator = "="
	OperatorNe   Operator = "!="
	OperatorGt   Operator = ">"
	OperatorLt   Operator = "<"
	OperatorGe   Operator = ">="
	OperatorLe   Operator = "<="
	OperatorLike Operator = "LIKE"
)

var Operators = []Operator{OperatorEq, OperatorNe, OperatorGt, OperatorLt, OperatorGe, OperatorLe, OperatorLike}

func (o Operator) Valid() bool {
	return lo.Contains(Operators, o)
}

// TimeGrain truncates the X column to a calendar bucket. The zero value selects X as-is.
type TimeGrain string

const (
	TimeGrainNone  TimeGrain = ""
	TimeGrainDay   TimeGrain = "day"
	TimeGrainWeek  TimeGrain = "week"
	TimeGrainMonth TimeGrain = "month"
)

func (g TimeGrain) Valid() bool {
	switch g {
	case TimeGrainNone, TimeGrainDay, TimeGrainWeek, TimeGrainMonth:
		return true
	}
	return false
}

type Filter struct {
	Column   string   `json:"column" validate:"required,sqlident"`
	Operator Operator `json:"operator" validate:"required"`
	Value    string   `json:"value"`
}

// QuerySpec is the structural description of a single series request.
type QuerySpec struct {
	Table     string    `json:"table" validate:"required,sqltable"`
	XColumn   string    `json:"xColumn" validate:"omitempty,sqlident"`
	YColumn   string    `json:"yColumn" validate:"required,sqlident"`
	Aggregate Aggregate `json:"aggregate"`
	GroupBy   []string  `json:"groupBy,omitempty" validate:"dive,sqlident"`
	Filters   []Filter  `json:"filters,omitempty" validate:"dive"`
	TimeGrain TimeGrain `json:"timeGrain,omitempty"`
}

// Normalized returns a copy with defaults applied and duplicate group-by columns removed,
// keeping the first occurrence of each.
func (s QuerySpec) Normalized() QuerySpec {
	if s.Aggregate == "" {
		s.Aggregate = AggregateNone
	}
	s.GroupBy = lo.Uniq(s.GroupBy)
	s.Filters = append([]Filter(nil), s.Filters...)
	return s
}

// XSource is the column selected as X: the first group-by column, or XColumn.
func (s QuerySpec) XSource() string {
	if len(s.GroupBy) > 0 {
		return s.GroupBy[0]
	}
	return s.XColumn
}

// Columns lists every column the spec references, in first-seen order.
func (s QuerySpec) Columns() []string {
	cols := []string{}
	if s.XColumn != "" {
		cols = append(cols, s.XColumn)
	}
	cols = append(cols, s.YColumn)
	cols = append(cols, s.GroupBy...)
	for _, f := range s.Filters {
		cols = append(cols, f.Column)
	}
	return lo.Uniq(lo.Compact(cols))
}

// Fingerprint is a stable hash of the normalized spec, used as memoization key.
func (s QuerySpec) Fingerprint() (string, error) {
	b, err := json.Marshal(s.Normalized())
	if err != nil {
		return "", err
	}
	h := xxh3.Hash128(b).Bytes()
	return hex.EncodeToString(h[:]), nil
}
