package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/model"
	modelcache "github.com/plantops/opsboard/internal/model/cache"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/repo"
)

type ColumnLister interface {
	GetColumns(ctx context.Context, schema, table string) ([]model.Column, error)
}

// Catalog guards which tables and columns a query may reference.
type Catalog struct {
	repo    ColumnLister
	columns memo[[]model.Column]
	conf    *appconfig.Config
}

func NewCatalog(catalogRepo *repo.Catalog, conf *appconfig.Config) *Catalog {
	return &Catalog{
		repo:    catalogRepo,
		columns: setMemo(modelcache.Columns),
		conf:    conf,
	}
}

// Tables returns the allowlisted tables.
func (s *Catalog) Tables() []model.Table {
	return lo.Map(s.conf.WarehouseTables, func(t string, _ int) model.Table {
		return model.Table{Name: t}
	})
}

func (s *Catalog) allowed(table string) (string, bool) {
	name := table
	if i := strings.LastIndex(name, "."); i >= 0 {
		if !strings.EqualFold(name[:i], s.conf.WarehouseSchema) {
			return "", false
		}
		name = name[i+1:]
	}
	name = strings.ToUpper(name)
	return name, lo.Contains(s.conf.WarehouseTables, name)
}

// GetColumns lists the columns of an allowlisted table.
func (s *Catalog) GetColumns(ctx context.Context, table string) ([]model.Column, error) {
	name, ok := s.allowed(table)
	if !ok {
		return nil, opserr.ErrNotFound.Msg("table %s is not available", table)
	}

	columns, _, err := memoized(ctx, s.columns, "columns", s.conf.WarehouseSchema+"|"+name, s.conf.CatalogCacheTTL, func() ([]model.Column, error) {
		return s.repo.GetColumns(ctx, s.conf.WarehouseSchema, name)
	})
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, opserr.ErrNotFound.Msg("table %s has no columns in schema %s", name, s.conf.WarehouseSchema)
	}
	return columns, nil
}

// Check rejects a spec reading from a table outside the allowlist or naming a column the table
// does not have.
func (s *Catalog) Check(ctx context.Context, spec model.QuerySpec) error {
	if spec.Table == "" {
		return opserr.ErrConfiguration.Msg("table is required")
	}
	if _, ok := s.allowed(spec.Table); !ok {
		return opserr.ErrConfiguration.Msg("table %s is not available", spec.Table)
	}
	columns, err := s.GetColumns(ctx, spec.Table)
	if err != nil {
		if errors.Is(err, opserr.ErrNotFound) {
			return opserr.ErrConfiguration.Msg("%s", err.Error())
		}
		return err
	}

	known := lo.SliceToMap(columns, func(c model.Column) (string, struct{}) {
		return strings.ToUpper(c.Name), struct{}{}
	})
	for _, col := range spec.Columns() {
		if _, ok := known[strings.ToUpper(col)]; !ok {
			return opserr.ErrConfiguration.Msg("column %s does not exist on table %s", col, spec.Table)
		}
	}
	return nil
}
