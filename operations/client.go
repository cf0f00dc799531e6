package operations

import (
	"context"

	"github.com/evergreen-ci/binseg/rest"
	"github.com/evergreen-ci/binseg/rest/model"
	"github.com/evergreen-ci/binseg/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Client returns the ./binseg client sub-command, a thin wrapper around
// the REST client.
func Client() cli.Command {
	return cli.Command{
		Name:  "client",
		Usage: "run a simple binseg client",
		Flags: restServiceFlags(),
		Subcommands: []cli.Command{
			printStatus(),
			remoteSplit(),
			createSplitJob(),
			checkSplitJob(),
		},
	}
}

func newClient(c *cli.Context) (*rest.Client, error) {
	client, err := rest.NewClient(c.Parent().String(clientHostFlag), c.Parent().Int(clientPortFlag), "rest")
	return client, errors.Wrap(err, "problem creating REST client")
}

func splitRequestFromFlags(c *cli.Context) (model.APISplitRequest, error) {
	values, err := util.ReadSeries(c.String(pathFlagName))
	if err != nil {
		return model.APISplitRequest{}, errors.WithStack(err)
	}

	start := c.Int(startFlagName)
	end := resolveEnd(c.Int(endFlagName), len(values))

	return model.APISplitRequest{
		Values:  values,
		Cost:    c.String(costFlagName),
		CostURL: c.String(costURLFlag),
		Start:   &start,
		End:     &end,
	}, nil
}

func printStatus() cli.Command {
	return cli.Command{
		Name:  "status",
		Usage: "prints json document for the status of the service",
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			client, err := newClient(c)
			if err != nil {
				return err
			}

			status, err := client.GetStatus(ctx)
			if err != nil {
				return errors.Wrap(err, "problem getting status")
			}

			grip.Debug(status)
			return errors.WithStack(util.PrintJSON(status))
		},
	}
}

func remoteSplit() cli.Command {
	return cli.Command{
		Name:  "split",
		Usage: "search a series file for a changepoint on the remote service",
		Flags: intervalFlags(addPathFlag()...),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(pathFlagName),
			requireFileExists(pathFlagName),
			requireCostKind(costFlagName),
		),
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			client, err := newClient(c)
			if err != nil {
				return err
			}

			req, err := splitRequestFromFlags(c)
			if err != nil {
				return err
			}

			res, err := client.FindSplit(ctx, req)
			if err != nil {
				return errors.Wrap(err, "problem finding split")
			}

			return errors.WithStack(util.PrintJSON(res))
		},
	}
}

func createSplitJob() cli.Command {
	return cli.Command{
		Name:  "submit",
		Usage: "submit a split search job to the remote service",
		Flags: intervalFlags(addPathFlag()...),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(pathFlagName),
			requireFileExists(pathFlagName),
			requireCostKind(costFlagName),
		),
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			client, err := newClient(c)
			if err != nil {
				return err
			}

			req, err := splitRequestFromFlags(c)
			if err != nil {
				return err
			}

			job, err := client.CreateSplitJob(ctx, req)
			if err != nil {
				return errors.Wrap(err, "problem submitting split job")
			}

			return errors.WithStack(util.PrintJSON(job))
		},
	}
}

func checkSplitJob() cli.Command {
	return cli.Command{
		Name:  "job",
		Usage: "prints the state of a split search job",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  clientJobFlag,
				Usage: "id of the split job",
			},
		},
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(clientJobFlag),
			requireStringFlag(clientJobFlag),
		),
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			client, err := newClient(c)
			if err != nil {
				return err
			}

			job, err := client.GetSplitJob(ctx, c.String(clientJobFlag))
			if err != nil {
				return errors.Wrap(err, "problem getting split job")
			}

			return errors.WithStack(util.PrintJSON(job))
		},
	}
}
