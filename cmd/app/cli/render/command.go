package render

import (
	"context"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	appcli "github.com/plantops/opsboard/cmd/app/cli"
	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/service"
	"github.com/plantops/opsboard/internal/util/rekuest"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "run a graph request and print the merged rows as a table",
		ArgsUsage: "<request.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the whole run result as JSON instead",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one request file is required", 2)
			}
			req, err := readRequest(c.Args().First())
			if err != nil {
				return err
			}

			var graphSvc *service.Graph
			return appcli.Start(c.Context, func(ctx context.Context) error {
				return run(ctx, c.App.Writer, graphSvc, req, c.Bool("json"))
			}, &graphSvc)
		},
	}
}

func run(ctx context.Context, w io.Writer, graph service.Runner, req model.RunRequest, asJSON bool) error {
	result, err := graph.Run(ctx, "", req)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	Table(w, result.Chart.Rows)
	return nil
}

// Table writes rows with one column per field present on any row.
func Table(w io.Writer, rows []model.Row) {
	fields := lo.Uniq(lo.FlatMap(rows, func(r model.Row, _ int) []string {
		return r.FieldNames()
	}))
	sort.Strings(fields)

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(append([]string{model.FieldX}, fields...))
	for _, r := range rows {
		line := make([]string, 0, len(fields)+1)
		line = append(line, r.X.String())
		for _, f := range fields {
			v, ok := r.Get(f)
			if !ok || !v.Valid {
				line = append(line, "")
				continue
			}
			line = append(line, strconv.FormatFloat(v.Float64, 'f', -1, 64))
		}
		table.Append(line)
	}
	table.Render()
}

func readRequest(path string) (model.RunRequest, error) {
	var req model.RunRequest
	b, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(b, &req); err != nil {
		return req, errors.Wrapf(err, "invalid request file %s", path)
	}
	if err := rekuest.ValidStruct(&req); err != nil {
		return req, errors.Wrapf(err, "invalid request file %s", path)
	}
	return req, nil
}
