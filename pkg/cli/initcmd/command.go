// Package initcmd implements the 'structmig init' command.
// This package is responsible for generating a starter structlog
// configuration module so migrated projects have a working logging setup
// from the first run.
package initcmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/cli/flag"
	"github.com/structmig/structmig/pkg/controller/migrate"
	"github.com/structmig/structmig/pkg/log"
	"github.com/urfave/cli/v3"
)

const defaultConfigModule = "logging_config.py"

// New creates a new init command instance with the provided logger.
func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE: logE,
	}
	return r.Command(globalFlags)
}

type runner struct {
	logE *logrus.Entry
}

// Command returns the CLI command definition for the init subcommand.
func (r *runner) Command(globalFlags *flag.GlobalFlags) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create " + defaultConfigModule + " if it doesn't exist",
		Description: `Create ` + defaultConfigModule + ` if it doesn't exist

$ structmig init

You can also pass a destination path.

e.g.

$ structmig init src/myapp/logging_config.py
`,
		Action: func(ctx context.Context, c *cli.Command) error {
			return r.action(ctx, c, globalFlags)
		},
	}
}

func (r *runner) action(_ context.Context, c *cli.Command, globalFlags *flag.GlobalFlags) error {
	log.SetLevel(globalFlags.LogLevel, r.logE)
	dest := c.Args().First()
	if dest == "" {
		dest = defaultConfigModule
	}
	ctrl := migrate.New(afero.NewOsFs(), nil, nil, &migrate.Param{})
	return ctrl.Init(dest) //nolint:wrapcheck
}
