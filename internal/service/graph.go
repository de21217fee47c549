package service

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/observability"
	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/pkg/runseq"
	"github.com/plantops/opsboard/internal/util/analytics"
	"github.com/plantops/opsboard/internal/util/chartspec"
	"github.com/plantops/opsboard/internal/util/series"
	"github.com/plantops/opsboard/internal/util/sqlbuild"
)

type SeriesFetcher interface {
	Fetch(ctx context.Context, spec model.QuerySpec) ([]model.Row, *sqlbuild.Statement, error)
}

// Graph orchestrates a run: both series are fetched and augmented concurrently, then merged
// and laid out as a chart.
type Graph struct {
	query     SeriesFetcher
	sequencer runseq.Sequencer
	events    RunPublisher
	conf      *appconfig.Config
}

func NewGraph(query *Query, sequencer runseq.Sequencer, events *Event, conf *appconfig.Config) *Graph {
	return &Graph{
		query:     query,
		sequencer: sequencer,
		events:    events,
		conf:      conf,
	}
}

// Run executes req. When session is not empty, a run that completes after a newer run of the
// same session began is rejected with opserr.ErrStaleRun.
func (s *Graph) Run(ctx context.Context, session string, req model.RunRequest) (*model.RunResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	ticket, err := s.sequencer.Begin(ctx, session)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		primary, secondary []model.Row
		compiled           model.CompiledSQL
	)

	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rows, stmt, err := s.series(ectx, "primary", req.Primary)
		if err != nil {
			return err
		}
		primary, compiled.Primary = rows, stmt.Literal()
		return nil
	})
	if req.HasSecondary() {
		eg.Go(func() error {
			rows, stmt, err := s.series(ectx, "secondary", *req.Secondary)
			if err != nil {
				return err
			}
			secondary, compiled.Secondary = rows, stmt.Literal()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	current, err := s.sequencer.IsCurrent(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if !current {
		observability.GraphRunStale.Inc()
		log.Debug().
			Str("evt.name", "graph.run.stale").
			Str("ticket", ticket.String()).
			Msg("discarding superseded run")
		return nil, opserr.ErrStaleRun.Msg("run %s was superseded by a newer run of the session", ticket)
	}

	rows := primary
	if req.HasSecondary() {
		rows = series.Merge(primary, secondary)
	}

	chart, err := chartspec.Compose(rows, req)
	if err != nil {
		return nil, err
	}

	result := &model.RunResult{
		RunID: xid.New().String(),
		Chart: chart,
		SQL:   compiled,
	}

	tables := []string{req.Primary.Spec.Table}
	if req.HasSecondary() {
		tables = append(tables, req.Secondary.Spec.Table)
	}
	s.events.PublishRun(model.RunEvent{
		RunID:        result.RunID,
		Session:      session,
		Tables:       lo.Uniq(tables),
		Rows:         len(chart.Rows),
		DurationMsec: time.Since(start).Milliseconds(),
	})

	return result, nil
}

// check rejects requests that would fail after reaching the warehouse.
func (s *Graph) check(req model.RunRequest) error {
	sr := []model.SeriesRequest{req.Primary}
	if req.HasSecondary() {
		sr = append(sr, *req.Secondary)
	}
	for _, r := range sr {
		for _, p := range r.Analytics.Periods() {
			if p > s.conf.MaxMAPeriod {
				return opserr.ErrInvalidReq.Msg("moving average period %d exceeds the maximum of %d", p, s.conf.MaxMAPeriod)
			}
		}
	}

	axes, _ := chartspec.Default(req)
	_, err := chartspec.ValidateReferences(req.References, axes)
	return err
}

func (s *Graph) series(ctx context.Context, name string, r model.SeriesRequest) ([]model.Row, *sqlbuild.Statement, error) {
	start := time.Now()
	defer func() {
		observability.GraphRunDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	rows, stmt, err := s.query.Fetch(ctx, r.Spec)
	if err != nil {
		return nil, nil, err
	}
	return analytics.Augment(rows, model.FieldY, r.Analytics), stmt, nil
}
