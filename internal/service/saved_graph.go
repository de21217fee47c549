package service

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/repo"
)

type SavedGraphStore interface {
	Add(ctx context.Context, graph *model.SavedGraph) error
	List(ctx context.Context) ([]*model.SavedGraph, error)
	GetByID(ctx context.Context, id int) (*model.SavedGraph, error)
	Delete(ctx context.Context, id int) error
}

type SavedGraph struct {
	repo SavedGraphStore
}

func NewSavedGraph(savedGraphRepo *repo.SavedGraph) *SavedGraph {
	return &SavedGraph{repo: savedGraphRepo}
}

// Add stores req as a new saved graph. Its rows are kept sorted by X.
func (s *SavedGraph) Add(ctx context.Context, req *model.SaveGraphRequest) (*model.SavedGraph, error) {
	if req.UseSecondary && (!req.Agg2.Valid || !req.Y2Name.Valid) {
		return nil, opserr.ErrInvalidReq.Msg("a graph with a secondary series needs agg2 and y2Name")
	}

	var graph model.SavedGraph
	if err := copier.Copy(&graph, req); err != nil {
		return nil, errors.Wrap(err, "failed to copy saved graph")
	}
	graph.Data = model.CloneRows(req.Data)
	model.SortRows(graph.Data)

	if err := s.repo.Add(ctx, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

// List returns summaries of every saved graph, newest first.
func (s *SavedGraph) List(ctx context.Context) ([]*model.SavedGraphSummary, error) {
	graphs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.SavedGraphSummary, 0, len(graphs))
	for _, g := range graphs {
		var summary model.SavedGraphSummary
		if err := copier.Copy(&summary, g); err != nil {
			return nil, errors.Wrap(err, "failed to copy saved graph summary")
		}
		summary.Points = len(g.Data)
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

func (s *SavedGraph) Get(ctx context.Context, id int) (*model.SavedGraph, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SavedGraph) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
