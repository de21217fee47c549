package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

type memoryGraphStore struct {
	graphs []*model.SavedGraph
}

func (m *memoryGraphStore) Add(_ context.Context, g *model.SavedGraph) error {
	g.GraphID = len(m.graphs) + 1
	m.graphs = append(m.graphs, g)
	return nil
}

func (m *memoryGraphStore) List(context.Context) ([]*model.SavedGraph, error) {
	out := make([]*model.SavedGraph, 0, len(m.graphs))
	for i := len(m.graphs) - 1; i >= 0; i-- {
		if m.graphs[i] != nil {
			out = append(out, m.graphs[i])
		}
	}
	return out, nil
}

func (m *memoryGraphStore) GetByID(_ context.Context, id int) (*model.SavedGraph, error) {
	if id < 1 || id > len(m.graphs) || m.graphs[id-1] == nil {
		return nil, opserr.ErrNotFound
	}
	return m.graphs[id-1], nil
}

func (m *memoryGraphStore) Delete(_ context.Context, id int) error {
	if _, err := m.GetByID(context.Background(), id); err != nil {
		return err
	}
	m.graphs[id-1] = nil
	return nil
}

func TestSavedGraphLifecycle(t *testing.T) {
	s := &SavedGraph{repo: &memoryGraphStore{}}
	ctx := context.Background()

	data := points(3, 1, 2)
	data[0], data[2] = data[2], data[0]

	g, err := s.Add(ctx, &model.SaveGraphRequest{
		Name:   "Holds by day",
		Data:   data,
		Agg1:   "SUM",
		Y1Name: "QTY",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, g.GraphID)
	assert.Equal(t, "Holds by day", g.Name)
	assert.False(t, g.UseSecondary)
	assert.Equal(t, "0", g.Data[0].X.String())

	_, err = s.Add(ctx, &model.SaveGraphRequest{
		Name:         "Holds vs yield",
		Data:         points(1),
		Agg1:         "SUM",
		Agg2:         null.StringFrom("AVG"),
		Y1Name:       "QTY",
		Y2Name:       null.StringFrom("YIELD"),
		UseSecondary: true,
	})
	require.NoError(t, err)

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Holds vs yield", summaries[0].Name)
	assert.Equal(t, null.StringFrom("YIELD"), summaries[0].Y2Name)
	assert.Equal(t, 1, summaries[0].Points)
	assert.Equal(t, 3, summaries[1].Points)

	require.NoError(t, s.Delete(ctx, 1))
	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, opserr.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 1), opserr.ErrNotFound)
}

func TestSavedGraphSecondaryNeedsNames(t *testing.T) {
	s := &SavedGraph{repo: &memoryGraphStore{}}
	_, err := s.Add(context.Background(), &model.SaveGraphRequest{
		Name:         "broken",
		Data:         points(1),
		Agg1:         "SUM",
		Y1Name:       "QTY",
		UseSecondary: true,
	})
	assert.ErrorIs(t, err, opserr.ErrInvalidReq)
}
