package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/plantops/opsboard/internal/model"
)

// Catalog reads column metadata from information_schema.
type Catalog struct {
	db *bun.DB
}

func NewCatalog(db *bun.DB) *Catalog {
	return &Catalog{db: db}
}

// GetColumns lists the columns of table in schema, in ordinal order. Table names are matched
// case-insensitively.
func (r *Catalog) GetColumns(ctx context.Context, schema, table string) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.NewSelect().
		TableExpr("information_schema.columns").
		Column("column_name", "data_type").
		Where("table_schema = ?", schema).
		Where("upper(table_name) = upper(?)", table).
		OrderExpr("ordinal_position ASC").
		Scan(ctx, &columns)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: failed to list columns of %s.%s", schema, table)
	}
	return columns, nil
}
