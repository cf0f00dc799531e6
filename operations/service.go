package operations

import (
	"context"

	"github.com/evergreen-ci/binseg"
	"github.com/evergreen-ci/binseg/rest"
	"github.com/evergreen-ci/binseg/units"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Service returns the ./binseg service sub-command object, which is
// responsible for starting the service.
func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run the binseg api service",
		Flags: addConfigFlag(baseFlags()...),
		Before: mergeBeforeFuncs(
			func(c *cli.Context) error {
				if c.String(configFlag) == "" {
					return nil
				}
				return requireFileExists(configFlag)(c)
			},
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			conf, err := serviceConfiguration(c.String(configFlag), c.Int(numWorkersFlag), c.Int(servicePort))
			if err != nil {
				return errors.WithStack(err)
			}

			env := binseg.GetEnvironment()
			if err = env.Configure(conf); err != nil {
				return errors.Wrap(err, "problem configuring environment")
			}

			service := &rest.Service{
				Port:        conf.ServicePort,
				Environment: env,
			}

			if err = service.Validate(); err != nil {
				return errors.Wrap(err, "problem validating service")
			}

			if err = startBackgroundJobs(ctx, env); err != nil {
				return errors.Wrap(err, "problem starting background jobs")
			}

			grip.Notice(message.Fields{
				"message": "starting binseg service",
				"port":    conf.ServicePort,
				"workers": conf.NumWorkers,
				"cost":    conf.DefaultCost,
			})

			if err = service.Start(ctx); err != nil {
				return errors.Wrap(err, "problem running service")
			}

			grip.Info("completed service, terminating.")
			return nil
		},
	}
}

// serviceConfiguration reads the configuration file, when given, and
// applies non-zero flag values on top of it.
func serviceConfiguration(path string, workers, port int) (*binseg.Configuration, error) {
	conf := &binseg.Configuration{}
	if path != "" {
		var err error
		conf, err = binseg.LoadConfiguration(path)
		if err != nil {
			return nil, errors.Wrapf(err, "problem loading configuration from '%s'", path)
		}
	}

	if workers > 0 {
		conf.NumWorkers = workers
	}
	if port > 0 {
		conf.ServicePort = port
	}

	return conf, errors.WithStack(conf.Validate())
}

func startBackgroundJobs(ctx context.Context, env binseg.Environment) error {
	q, err := env.GetQueue()
	if err != nil {
		return errors.WithStack(err)
	}

	if !q.Info().Started {
		if err = q.Start(ctx); err != nil {
			return errors.Wrap(err, "problem starting queue")
		}
	}

	return errors.WithStack(units.StartCrons(ctx, env))
}
