package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

type SavedGraph struct {
	bun.BaseModel `bun:"saved_graphs,alias:sg"`

	GraphID      int         `bun:",pk,autoincrement" json:"id"`
	Name         string      `bun:",notnull" json:"name"`
	Data         []Row       `bun:"type:jsonb,notnull" json:"data"`
	Agg1         string      `bun:",notnull" json:"agg1"`
	Agg2         null.String `json:"agg2"`
	Y1Name       string      `bun:"y1_name,notnull" json:"y1Name"`
	Y2Name       null.String `bun:"y2_name" json:"y2Name"`
	UseSecondary bool        `bun:",notnull" json:"useSecondary"`
	CreatedAt    *time.Time  `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// SavedGraphSummary is the listing shape of a saved graph, without its data.
type SavedGraphSummary struct {
	GraphID      int         `json:"id"`
	Name         string      `json:"name"`
	Agg1         string      `json:"agg1"`
	Agg2         null.String `json:"agg2"`
	Y1Name       string      `json:"y1Name"`
	Y2Name       null.String `json:"y2Name"`
	UseSecondary bool        `json:"useSecondary"`
	Points       int         `json:"points"`
	CreatedAt    *time.Time  `json:"createdAt"`
}

// SaveGraphRequest is what a client submits to keep a rendered graph.
type SaveGraphRequest struct {
	Name         string      `json:"name" validate:"required,max=128"`
	Data         []Row       `json:"data" validate:"required,min=1"`
	Agg1         string      `json:"agg1" validate:"required,oneof=SUM AVG MIN MAX COUNT NONE"`
	Agg2         null.String `json:"agg2"`
	Y1Name       string      `json:"y1Name" validate:"required"`
	Y2Name       null.String `json:"y2Name"`
	UseSecondary bool        `json:"useSecondary"`
}
