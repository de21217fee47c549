package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/pkg/archiver"
	"github.com/plantops/opsboard/internal/pkg/opserr"
)

const RealmSavedGraphs = "saved_graphs"

type GraphGetter interface {
	Get(ctx context.Context, id int) (*model.SavedGraph, error)
}

// Export renders saved graphs as CSV and archives them to object storage.
type Export struct {
	graphs   GraphGetter
	archiver *archiver.Archiver
}

func NewExport(savedGraphService *SavedGraph, s3Client *s3.Client, conf *appconfig.Config) *Export {
	e := &Export{graphs: savedGraphService}
	if s3Client != nil {
		e.archiver = &archiver.Archiver{
			S3Client:  s3Client,
			S3Bucket:  conf.ExportS3Bucket,
			S3Prefix:  conf.ExportS3Prefix,
			RealmName: RealmSavedGraphs,
		}
	}
	return e
}

// CSV renders the saved graph id.
func (s *Export) CSV(ctx context.Context, id int) (*model.SavedGraph, []byte, error) {
	graph, err := s.graphs.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, graph.Data); err != nil {
		return nil, nil, err
	}
	return graph, buf.Bytes(), nil
}

// Archive uploads the saved graph id as gzipped JSON and returns its object key. A graph is
// archived at most once.
func (s *Export) Archive(ctx context.Context, id int) (string, error) {
	if s.archiver == nil {
		return "", opserr.ErrConfiguration.Msg("archiving is not configured")
	}

	graph, err := s.graphs.Get(ctx, id)
	if err != nil {
		return "", err
	}

	name := strconv.Itoa(graph.GraphID)
	key, err := s.archiver.Archive(ctx, name, graph)
	if errors.Is(err, archiver.ErrFileAlreadyExists) {
		return "", opserr.ErrInvalidReq.Msg("graph %d is already archived at %s", graph.GraphID, s.archiver.Key(name))
	}
	return key, err
}

// WriteCSV writes rows with an X column followed by the union of their fields in name order.
// Absent and null values are empty cells.
func WriteCSV(w io.Writer, rows []model.Row) error {
	fields := lo.Uniq(lo.FlatMap(rows, func(r model.Row, _ int) []string {
		return r.FieldNames()
	}))
	sort.Strings(fields)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{model.FieldX}, fields...)); err != nil {
		return err
	}

	record := make([]string, len(fields)+1)
	for _, r := range rows {
		record[0] = r.X.String()
		for i, f := range fields {
			record[i+1] = ""
			if v, ok := r.Get(f); ok && v.Valid {
				record[i+1] = strconv.FormatFloat(v.Float64, 'f', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
