package compile

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	appcli "github.com/plantops/opsboard/cmd/app/cli"
	"github.com/plantops/opsboard/internal/model"
	"github.com/plantops/opsboard/internal/util/rekuest"
	"github.com/plantops/opsboard/internal/service"
	"github.com/plantops/opsboard/internal/util/sqlbuild"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "print the SQL a query spec compiles to",
		ArgsUsage: "<spec.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "skip the catalog check, so no warehouse connection is needed",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one spec file is required", 2)
			}
			spec, err := readSpec(c.Args().First())
			if err != nil {
				return err
			}

			var querySvc *service.Query
			return appcli.Start(c.Context, func(ctx context.Context) error {
				var stmt *sqlbuild.Statement
				if c.Bool("offline") {
					stmt, err = querySvc.Statement(spec)
				} else {
					stmt, err = querySvc.Compile(ctx, spec)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, stmt.Literal())
				return nil
			}, &querySvc)
		},
	}
}

func readSpec(path string) (model.QuerySpec, error) {
	var spec model.QuerySpec
	b, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}
	if err := json.Unmarshal(b, &spec); err != nil {
		return spec, errors.Wrapf(err, "invalid spec file %s", path)
	}
	if err := rekuest.ValidStruct(&spec); err != nil {
		return spec, errors.Wrapf(err, "invalid spec file %s", path)
	}
	return spec, nil
}
