package repo

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/repo/selector"
)

type SavedGraph struct {
	db  *bun.DB
	sel selector.S[model.SavedGraph]
}

func NewSavedGraph(db *bun.DB) *SavedGraph {
	return &SavedGraph{db: db, sel: selector.New[model.SavedGraph](db)}
}

func (r *SavedGraph) CreateTable(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*model.SavedGraph)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *SavedGraph) Add(ctx context.Context, graph *model.SavedGraph) error {
	_, err := r.db.NewInsert().
		Model(graph).
		Returning("graph_id, created_at").
		Exec(ctx)
	return err
}

// List returns every saved graph, newest first.
func (r *SavedGraph) List(ctx context.Context) ([]*model.SavedGraph, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("graph_id DESC")
	})
}

func (r *SavedGraph) GetByID(ctx context.Context, id int) (*model.SavedGraph, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("graph_id = ?", id)
	})
}

func (r *SavedGraph) Delete(ctx context.Context, id int) error {
	res, err := r.db.NewDelete().
		Model((*model.SavedGraph)(nil)).
		Where("graph_id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return opserr.ErrNotFound
	}
	return nil
}
