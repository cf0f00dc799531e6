package operations

import (
	"context"

	"github.com/evergreen-ci/binseg/perf"
	"github.com/evergreen-ci/binseg/rest/model"
	"github.com/evergreen-ci/binseg/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Split returns the ./binseg split sub-command, which runs one split
// search over a series file in the local process.
func Split() cli.Command {
	return cli.Command{
		Name:  "split",
		Usage: "find the best single changepoint in a series file",
		Flags: addOutputPath(intervalFlags(addPathFlag()...)...),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(pathFlagName),
			requireFileExists(pathFlagName),
			requireCostKind(costFlagName),
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			opts := splitOptions{
				path:  c.String(pathFlagName),
				start: c.Int(startFlagName),
				end:   c.Int(endFlagName),
				cost:  perf.CostKind(c.String(costFlagName)),
				url:   c.String(costURLFlag),
			}

			out, err := runSplit(ctx, opts)
			if err != nil {
				return errors.WithStack(err)
			}

			if fn := c.String(outputFlagName); fn != "" {
				return errors.WithStack(util.WriteJSON(fn, out))
			}

			return errors.WithStack(util.PrintJSON(out))
		},
	}
}

type splitOptions struct {
	path  string
	start int
	end   int
	cost  perf.CostKind
	url   string
}

func runSplit(ctx context.Context, opts splitOptions) (*model.APISplitResult, error) {
	values, err := util.ReadSeries(opts.path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.cost == "" {
		opts.cost = perf.DefaultCostKind
	}

	cost, err := perf.CostOptions{Kind: opts.cost, URL: opts.url, Values: values}.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "problem building cost model for '%s'", opts.path)
	}

	end := resolveEnd(opts.end, len(values))
	grip.Info(message.Fields{
		"message": "searching for changepoint",
		"path":    opts.path,
		"cost":    opts.cost,
		"url":     opts.url,
		"start":   opts.start,
		"end":     end,
		"size":    len(values),
	})

	res, err := perf.NewBinarySegmentation(cost, perf.LogSplit(level.Debug)).Predict(ctx, opts.start, end)
	if err != nil {
		return nil, errors.Wrapf(err, "problem searching '%s'", opts.path)
	}

	out := &model.APISplitResult{}
	if err = out.Import(res); err != nil {
		return nil, errors.WithStack(err)
	}

	return out, nil
}
