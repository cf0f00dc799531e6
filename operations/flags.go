package operations

import (
	"strings"

	"github.com/evergreen-ci/binseg/perf"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	configFlag     = "config"
	pathFlagName   = "path"
	outputFlagName = "output"

	startFlagName = "start"
	endFlagName   = "end"
	costFlagName  = "cost"
	costURLFlag   = "cost-url"

	numWorkersFlag = "workers"
	servicePort    = "port"

	clientHostFlag = "host"
	clientPortFlag = "port"
	clientJobFlag  = "job"

	configFileEnv = "BINSEG_CONFIG_FILE"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

func costKindNames() string {
	names := []string{}
	for _, kind := range perf.CostKinds() {
		names = append(names, string(kind))
	}
	return strings.Join(names, "|")
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func addPathFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(pathFlagName, "filename", "file", "f"),
		Usage: "path to a series file (json, yaml, or one value per line)",
	})
}

func addOutputPath(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(outputFlagName, "o"),
		Usage: "path to the output file; prints to standard output when empty",
	})
}

func addConfigFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:   configFlag,
		Usage:  "path to a binseg yaml configuration file",
		EnvVar: configFileEnv,
	})
}

func intervalFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:  startFlagName,
			Usage: "first index of the interval",
			Value: 0,
		},
		cli.IntFlag{
			Name:  endFlagName,
			Usage: "index one past the end of the interval; negative values count from the end of the series",
			Value: -1,
		},
		cli.StringFlag{
			Name:  costFlagName,
			Usage: "cost model to use: " + costKindNames(),
		},
		cli.StringFlag{
			Name:  costURLFlag,
			Usage: "base url of a remote cost service; replaces the built-in cost model",
		},
	)
}

func restServiceFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  clientHostFlag,
			Usage: "host for the remote binseg instance.",
			Value: "http://localhost",
		},
		cli.IntFlag{
			Name:  clientPortFlag,
			Usage: "port for the remote binseg service.",
			Value: 3000,
		},
	)
}

func baseFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:   numWorkersFlag,
			Usage:  "specify the number of worker jobs this process will have",
			EnvVar: "BINSEG_NUM_WORKERS",
		},
		cli.IntFlag{
			Name:   joinFlagNames(servicePort, "p"),
			Usage:  "specify a port to run the service on",
			EnvVar: "BINSEG_SERVICE_PORT",
		})
}

func setFlagOrFirstPositional(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		val := c.String(name)
		if val == "" {
			if c.NArg() != 1 {
				return errors.Errorf("must specify exactly one positional argument for '%s'", name)
			}

			val = c.Args().Get(0)
		}

		return c.Set(name, val)
	}
}

// resolveEnd maps negative end indexes onto the series length.
func resolveEnd(end, length int) int {
	if end < 0 {
		return length + end + 1
	}
	return end
}
