package repo

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/pkg/observability"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/util/sqlbuild"
)

// Warehouse executes built statements against the analytical warehouse.
type Warehouse struct {
	db      *bun.DB
	timeout time.Duration
}

func NewWarehouse(db *bun.DB, conf *appconfig.Config) *Warehouse {
	return &Warehouse{db: db, timeout: conf.WarehouseQueryTimeout}
}

// Query runs stmt with its bound arguments and returns every row as a column name to value map.
// Any driver failure is reported as opserr.ErrExecution carrying the driver message verbatim.
func (r *Warehouse) Query(ctx context.Context, table string, stmt *sqlbuild.Statement) (rows []map[string]interface{}, err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("opsboard/warehouse").Start(ctx, "warehouse.query")
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", table),
		attribute.String("db.statement", stmt.SQL),
	)
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.WarehouseQueryDuration.WithLabelValues(table, outcome).Observe(time.Since(start).Seconds())
		span.End()
	}()

	sqlRows, err := r.db.DB.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		log.Warn().
			Err(err).
			Str("evt.name", "warehouse.query.failed").
			Str("sql", stmt.SQL).
			Msg("warehouse rejected statement")
		return nil, opserr.ErrExecution.Msg("%s", err.Error())
	}
	defer sqlRows.Close()

	rows = []map[string]interface{}{}
	if err := r.db.ScanRows(ctx, sqlRows, &rows); err != nil {
		return nil, opserr.ErrExecution.Msg("%s", err.Error())
	}
	return rows, nil
}
