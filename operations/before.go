package operations

import (
	"github.com/evergreen-ci/binseg/perf"
	"github.com/evergreen-ci/binseg/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// validator functions passed to commands to check the contents of flags
// before the action runs.

func requireStringFlag(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.String(name) == "" {
			return errors.Errorf("flag '--%s' was not specified", name)
		}
		return nil
	}
}

func requireFileExists(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		path := c.String(name)
		if !util.FileExists(path) {
			return errors.Errorf("file '%s' does not exist", path)
		}

		return nil
	}
}

func requireCostKind(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		kind := c.String(name)
		if kind == "" {
			return nil
		}
		return errors.WithStack(perf.CostKind(kind).Validate())
	}
}

func mergeBeforeFuncs(ops ...func(c *cli.Context) error) cli.BeforeFunc {
	return func(c *cli.Context) error {
		catcher := grip.NewBasicCatcher()

		for _, op := range ops {
			catcher.Add(op(c))
		}

		return catcher.Resolve()
	}
}
