package service

import (
	"context"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/model"
	modelcache "github.com/plantops/opsboard/internal/model/cache"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/repo"
	"github.com/plantops/opsboard/internal/util/series"
	"github.com/plantops/opsboard/internal/util/sqlbuild"
)

type Executor interface {
	Query(ctx context.Context, table string, stmt *sqlbuild.Statement) ([]map[string]interface{}, error)
}

type SpecChecker interface {
	Check(ctx context.Context, spec model.QuerySpec) error
}

// Query builds, executes and normalizes single series.
type Query struct {
	warehouse Executor
	catalog   SpecChecker
	rows      memo[[]map[string]interface{}]
	conf      *appconfig.Config
}

func NewQuery(warehouse *repo.Warehouse, catalog *Catalog, conf *appconfig.Config) *Query {
	return &Query{
		warehouse: warehouse,
		catalog:   catalog,
		rows:      setMemo(modelcache.QueryRows),
		conf:      conf,
	}
}

// Statement builds spec against the configured warehouse schema without touching the catalog.
func (s *Query) Statement(spec model.QuerySpec) (*sqlbuild.Statement, error) {
	return sqlbuild.Build(spec, sqlbuild.WithSchema(s.conf.WarehouseSchema))
}

// Compile checks spec against the catalog and builds it.
func (s *Query) Compile(ctx context.Context, spec model.QuerySpec) (*sqlbuild.Statement, error) {
	if err := s.catalog.Check(ctx, spec); err != nil {
		return nil, err
	}
	return s.Statement(spec)
}

// Fetch returns the normalized series of spec. Raw rows are memoized by the spec fingerprint so
// identical requests within the cache TTL do not reach the warehouse.
func (s *Query) Fetch(ctx context.Context, spec model.QuerySpec) ([]model.Row, *sqlbuild.Statement, error) {
	stmt, err := s.Compile(ctx, spec)
	if err != nil {
		return nil, nil, err
	}

	fingerprint, err := spec.Fingerprint()
	if err != nil {
		return nil, nil, opserr.ErrConfiguration.Msg("cannot fingerprint query: %s", err.Error())
	}

	raw, _, err := memoized(ctx, s.rows, "queryRows", s.conf.WarehouseSchema+"|"+fingerprint, s.conf.QueryCacheTTL, func() ([]map[string]interface{}, error) {
		return s.warehouse.Query(ctx, spec.Table, stmt)
	})
	if err != nil {
		return nil, stmt, err
	}

	rows, err := series.Normalize(raw)
	if err != nil {
		return nil, stmt, err
	}
	return rows, stmt, nil
}
