// Package migrate implements the 'structmig migrate' command.
package migrate

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/cli/flag"
	"github.com/structmig/structmig/pkg/config"
	"github.com/structmig/structmig/pkg/controller/migrate"
	"github.com/structmig/structmig/pkg/log"
	"github.com/urfave/cli/v3"
)

// Flags holds the command-line flags for the migrate command.
type Flags struct {
	DryRun bool
	Apply  bool
	Format string
	Output string
}

type runner struct {
	logE *logrus.Entry
}

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE: logE,
	}
	return r.Command(globalFlags)
}

func (r *runner) Command(globalFlags *flag.GlobalFlags) *cli.Command {
	flags := &Flags{}
	return &cli.Command{
		Name:  "migrate",
		Usage: "Scan a project for stdlib logging usage and migrate it to structlog",
		Description: `Scan Python files under a project directory and report legacy logging usage.

$ structmig migrate --dry-run .

In apply mode files that need migration are rewritten in place.
Each rewritten file is backed up first.

$ structmig migrate --apply src

Findings can also be emitted as SARIF.

$ structmig migrate --dry-run --format sarif --output results.sarif .
`,
		Action: func(ctx context.Context, c *cli.Command) error {
			return r.action(ctx, c, globalFlags, flags)
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Report findings without touching any file",
				Destination: &flags.DryRun,
			},
			&cli.BoolFlag{
				Name:        "apply",
				Usage:       "Rewrite files that need migration",
				Destination: &flags.Apply,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Output format (sarif)",
				Destination: &flags.Format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file path. By default the output is written to stdout",
				Destination: &flags.Output,
			},
		},
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command, globalFlags *flag.GlobalFlags, flags *Flags) error {
	log.SetLevel(globalFlags.LogLevel, r.logE)
	if flags.DryRun == flags.Apply {
		return errors.New("exactly one of --dry-run and --apply must be given")
	}
	if flags.Format != "" && flags.Format != "sarif" {
		return errors.New("unsupported format: " + flags.Format)
	}
	projectPath := c.Args().First()
	if projectPath == "" {
		return errors.New("project path is required")
	}
	fs := afero.NewOsFs()
	ctrl := migrate.New(fs, config.NewFinder(fs), config.NewReader(fs), &migrate.Param{
		ProjectPath:    projectPath,
		ConfigFilePath: globalFlags.Config,
		DryRun:         flags.DryRun,
		Apply:          flags.Apply,
		Format:         flags.Format,
		Output:         flags.Output,
		Stdout:         os.Stdout,
	})
	return ctrl.Migrate(ctx, r.logE) //nolint:wrapcheck
}
