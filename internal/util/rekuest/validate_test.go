package rekuest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

func TestValidStructRunRequest(t *testing.T) {
	ok := model.RunRequest{
		Primary: model.SeriesRequest{Spec: model.QuerySpec{Table: "HOLDS", XColumn: "D", YColumn: "QTY"}},
	}
	assert.NoError(t, ValidStruct(&ok))

	bad := model.RunRequest{
		Primary: model.SeriesRequest{
			Spec:      model.QuerySpec{Table: "HOLDS"},
			Analytics: model.Analytics{MAPeriods: []int{0}},
		},
	}
	err := ValidStruct(&bad)
	assert.True(t, errors.Is(err, opserr.ErrInvalidReq))

	var oe *opserr.OpsError
	assert.True(t, errors.As(err, &oe))
	violations := (*oe.Extras)["violations"].([]*ErrorResponse)
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "RunRequest.primary.spec.yColumn")
	assert.Contains(t, fields, "RunRequest.primary.analytics.maPeriods[0]")
}

func TestValidStructRejectsUnsafeIdentifiers(t *testing.T) {
	spec := model.QuerySpec{
		Table:   "T; DROP TABLE T",
		XColumn: "A)",
		YColumn: "B) FROM T --",
		GroupBy: []string{"C", "1=1"},
		Filters: []model.Filter{{Column: "D OR 1", Operator: model.OperatorEq, Value: "x"}},
	}
	err := ValidStruct(&spec)
	assert.True(t, errors.Is(err, opserr.ErrInvalidReq))

	var oe *opserr.OpsError
	assert.True(t, errors.As(err, &oe))
	violations := (*oe.Extras)["violations"].([]*ErrorResponse)
	got := make(map[string]string, len(violations))
	for _, v := range violations {
		got[v.Field] = v.Violation
	}
	assert.Equal(t, map[string]string{
		"QuerySpec.table":             "sqltable",
		"QuerySpec.xColumn":           "sqlident",
		"QuerySpec.yColumn":           "sqlident",
		"QuerySpec.groupBy[1]":        "sqlident",
		"QuerySpec.filters[0].column": "sqlident",
	}, got)
	for _, v := range violations {
		assert.Contains(t, v.Message, "must be")
	}
}

func TestValidStructAcceptsQualifiedTable(t *testing.T) {
	spec := model.QuerySpec{Table: "plant.HOLDS", YColumn: "QTY", GroupBy: []string{"LINE"}}
	assert.NoError(t, ValidStruct(&spec))
}
