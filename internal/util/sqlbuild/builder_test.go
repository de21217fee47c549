package sqlbuild

import (
	"errors"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

func TestBuildRawSelect(t *testing.T) {
	stmt, err := Build(model.QuerySpec{
		Table:     "CAP_TORQUE",
		XColumn:   "SAMPLE_DATE",
		YColumn:   "TORQUE",
		Aggregate: model.AggregateNone,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT SAMPLE_DATE AS X, TORQUE AS Y FROM CAP_TORQUE ORDER BY X", stmt.SQL)
	assert.Empty(t, stmt.Args)
	assert.NotContains(t, stmt.SQL, "GROUP BY")
}

func TestBuildDefaultsToNoAggregate(t *testing.T) {
	stmt, err := Build(model.QuerySpec{Table: "T", XColumn: "A", YColumn: "B"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT A AS X, B AS Y FROM T ORDER BY X", stmt.SQL)
}

func TestBuildAggregate(t *testing.T) {
	for _, agg := range []model.Aggregate{model.AggregateSum, model.AggregateAvg, model.AggregateMin, model.AggregateMax, model.AggregateCount} {
		t.Run(string(agg), func(t *testing.T) {
			stmt, err := Build(model.QuerySpec{
				Table:     "FILL_WEIGHTS",
				XColumn:   "LINE",
				YColumn:   "WEIGHT",
				Aggregate: agg,
				GroupBy:   []string{"LINE"},
			})
			require.NoError(t, err)
			assert.Equal(t, "SELECT LINE AS X, "+string(agg)+"(WEIGHT) AS Y FROM FILL_WEIGHTS GROUP BY LINE ORDER BY X", stmt.SQL)
		})
	}
}

func TestBuildGroupByAliasesFirstColumn(t *testing.T) {
	stmt, err := Build(model.QuerySpec{
		Table:     "T",
		XColumn:   "C",
		YColumn:   "V",
		Aggregate: model.AggregateSum,
		GroupBy:   []string{"A", "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT A AS X, SUM(V) AS Y FROM T GROUP BY A, B ORDER BY X", stmt.SQL)
	assert.NotContains(t, stmt.SQL, "B AS X")
	assert.NotContains(t, stmt.SQL, "C AS X")
}

func TestBuildGroupByDeduplicates(t *testing.T) {
	stmt, err := Build(model.QuerySpec{
		Table:     "T",
		YColumn:   "V",
		Aggregate: model.AggregateCount,
		GroupBy:   []string{"A", "B", "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT A AS X, COUNT(V) AS Y FROM T GROUP BY A, B ORDER BY X", stmt.SQL)
}

func TestBuildFiltersAreBound(t *testing.T) {
	stmt, err := Build(model.QuerySpec{
		Table:   "HOLDS",
		XColumn: "HOLD_DATE",
		YColumn: "QTY",
		Filters: []model.Filter{
			{Column: "PLANT", Operator: model.OperatorEq, Value: "O'Fallon"},
			{Column: "QTY", Operator: model.OperatorGe, Value: "10"},
			{Column: "REASON", Operator: model.OperatorLike, Value: "%seal%"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT HOLD_DATE AS X, QTY AS Y FROM HOLDS WHERE PLANT = $1 AND QTY >= $2 AND REASON LIKE $3 ORDER BY X", stmt.SQL)
	assert.Equal(t, []interface{}{"O'Fallon", "10", "%seal%"}, stmt.Args)
}

func TestLiteralBaseline(t *testing.T) {
	filters := []model.Filter{
		{Column: "PLANT", Operator: model.OperatorEq, Value: "O'Fallon"},
		{Column: "QTY", Operator: model.OperatorNe, Value: "0"},
		{Column: "REASON", Operator: model.OperatorLike, Value: "it's ?"},
	}
	stmt, err := Build(model.QuerySpec{Table: "HOLDS", XColumn: "D", YColumn: "QTY", Filters: filters})
	require.NoError(t, err)

	literal := stmt.Literal()
	assert.Equal(t, "SELECT D AS X, QTY AS Y FROM HOLDS WHERE PLANT = 'O''Fallon' AND QTY != '0' AND REASON LIKE 'it''s ?' ORDER BY X", literal)

	where := literal[strings.Index(literal, "WHERE ")+len("WHERE ") : strings.Index(literal, " ORDER BY")]
	assert.Len(t, strings.Split(where, " AND "), len(filters))
}

func TestBuildWithQuestionPlaceholder(t *testing.T) {
	stmt, err := Build(model.QuerySpec{
		Table:   "T",
		XColumn: "A",
		YColumn: "B",
		Filters: []model.Filter{{Column: "C", Operator: model.OperatorLt, Value: "5"}},
	}, WithPlaceholder(sq.Question))
	require.NoError(t, err)
	assert.Equal(t, "SELECT A AS X, B AS Y FROM T WHERE C < ? ORDER BY X", stmt.SQL)
}

func TestBuildWithSchema(t *testing.T) {
	stmt, err := Build(model.QuerySpec{Table: "PRESAGE", XColumn: "A", YColumn: "B"}, WithSchema("plant"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT A AS X, B AS Y FROM plant.PRESAGE ORDER BY X", stmt.SQL)

	stmt, err = Build(model.QuerySpec{Table: "other.PRESAGE", XColumn: "A", YColumn: "B"}, WithSchema("plant"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT A AS X, B AS Y FROM other.PRESAGE ORDER BY X", stmt.SQL)
}

func TestBuildTimeGrain(t *testing.T) {
	stmt, err := Build(model.QuerySpec{
		Table:     "COMPLAINTS",
		YColumn:   "ID",
		Aggregate: model.AggregateCount,
		GroupBy:   []string{"CREATED", "SITE"},
		TimeGrain: model.TimeGrainWeek,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT DATE_TRUNC('week', CREATED) AS X, COUNT(ID) AS Y FROM COMPLAINTS GROUP BY DATE_TRUNC('week', CREATED), SITE ORDER BY X", stmt.SQL)
	assert.Equal(t, "SELECT DATE_TRUNC('week', CREATED) AS X, COUNT(ID) AS Y FROM COMPLAINTS GROUP BY DATE_TRUNC('week', CREATED), SITE ORDER BY X", stmt.Literal())
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name string
		spec model.QuerySpec
	}{
		{"empty table", model.QuerySpec{XColumn: "A", YColumn: "B"}},
		{"empty y column", model.QuerySpec{Table: "T", XColumn: "A"}},
		{"no x source", model.QuerySpec{Table: "T", YColumn: "B"}},
		{"table injection", model.QuerySpec{Table: "T; DROP TABLE T", XColumn: "A", YColumn: "B"}},
		{"column injection", model.QuerySpec{Table: "T", XColumn: "A", YColumn: "B) FROM T --"}},
		{"filter column injection", model.QuerySpec{Table: "T", XColumn: "A", YColumn: "B", Filters: []model.Filter{{Column: "1=1 OR C", Operator: model.OperatorEq, Value: "x"}}}},
		{"unknown aggregate", model.QuerySpec{Table: "T", XColumn: "A", YColumn: "B", Aggregate: "MEDIAN"}},
		{"unknown operator", model.QuerySpec{Table: "T", XColumn: "A", YColumn: "B", Filters: []model.Filter{{Column: "C", Operator: "IN", Value: "x"}}}},
		{"unknown grain", model.QuerySpec{Table: "T", XColumn: "A", YColumn: "B", TimeGrain: "hour"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Build(tt.spec)
			assert.Nil(t, stmt)
			assert.True(t, errors.Is(err, opserr.ErrConfiguration), "expected configuration error, got %v", err)
		})
	}
}

func TestBuildDoesNotMutateSpec(t *testing.T) {
	spec := model.QuerySpec{Table: "T", YColumn: "B", GroupBy: []string{"A", "A"}}
	_, err := Build(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A"}, spec.GroupBy)
	assert.Equal(t, model.Aggregate(""), spec.Aggregate)
}
