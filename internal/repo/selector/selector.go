package selector

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/plantops/opsboard/internal/pkg/opserr"
)

// S runs model-bound selects for T and maps missing rows to opserr.ErrNotFound.
type S[T any] struct {
	DB *bun.DB
}

func New[T any](db *bun.DB) S[T] {
	return S[T]{
		DB: db,
	}
}

func (r S[T]) SelectOne(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (*T, error) {
	var m T
	err := fn(r.DB.NewSelect().Model(&m)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, opserr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &m, nil
}

// SelectMany returns an empty slice, not an error, when nothing matches.
func (r S[T]) SelectMany(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) ([]*T, error) {
	m := []*T{}
	err := fn(r.DB.NewSelect().Model(&m)).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return m, nil
}
