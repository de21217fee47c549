package selector

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/plantops/opsboard/internal/pkg/opserr"
)

type widget struct {
	bun.BaseModel `bun:"widgets"`

	ID   int    `bun:",pk"`
	Name string `bun:"name"`
}

func newSelector(t *testing.T) (S[widget], sqlmock.Sqlmock) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	return New[widget](bun.NewDB(sqldb, pgdialect.New())), mock
}

func TestSelectOneNotFound(t *testing.T) {
	sel, mock := newSelector(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := sel.SelectOne(context.Background(), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", 1)
	})
	assert.ErrorIs(t, err, opserr.ErrNotFound)
}

func TestSelectManyEmpty(t *testing.T) {
	sel, mock := newSelector(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := sel.SelectMany(context.Background(), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
