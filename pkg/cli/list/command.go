// Package list implements the 'structmig list' command.
// This package provides functionality to list legacy logging findings from
// Python files, with support for custom output formatting.
package list

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/cli/flag"
	"github.com/structmig/structmig/pkg/config"
	"github.com/structmig/structmig/pkg/controller/list"
	"github.com/structmig/structmig/pkg/log"
	"github.com/urfave/cli/v3"
)

// Flags holds the command-line flags for the list command.
type Flags struct {
	LineTemplate string
}

type runner struct {
	logE *logrus.Entry
}

// New creates a new list command for the CLI.
func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE: logE,
	}
	return r.Command(globalFlags)
}

// Command builds and returns the list CLI command configuration.
// It defines all flags, options, and the action handler for the list subcommand.
func (r *runner) Command(globalFlags *flag.GlobalFlags) *cli.Command {
	flags := &Flags{}
	return &cli.Command{
		Name:  "list",
		Usage: "List legacy logging findings",
		Description: `List legacy logging findings from Python files.

$ structmig list .

Output format (default CSV):
<Path>,<Line>,<Column>,<Kind>,<Method>

Custom output format using Go template:
$ structmig list --line-template "{{.Path}}:{{.Line}}:{{.Column}} {{.Kind}}" .

Available template fields:
  Path     - Full file path
  FileName - Base file name
  Line     - 1-based line number
  Column   - 1-based column number
  Kind     - Finding kind (logger-construction or context-dict-call)
  Method   - Log method name, set only for context dict calls
`,
		Action: func(ctx context.Context, c *cli.Command) error {
			return r.action(ctx, c, globalFlags, flags)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "line-template",
				Usage:       "Go text/template format for each line",
				Destination: &flags.LineTemplate,
			},
		},
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command, globalFlags *flag.GlobalFlags, flags *Flags) error {
	log.SetLevel(globalFlags.LogLevel, r.logE)
	projectPath := c.Args().First()
	if projectPath == "" {
		return errors.New("project path is required")
	}

	fs := afero.NewOsFs()
	cfgFilePath, cfg, err := readConfig(fs, globalFlags.Config)
	if err != nil {
		return err
	}

	param := &list.Param{
		ProjectPath:    projectPath,
		ConfigFilePath: cfgFilePath,
		LineTemplate:   flags.LineTemplate,
	}

	ctrl := list.New(fs, cfg, param, os.Stdout)
	return ctrl.List(ctx, r.logE) //nolint:wrapcheck
}

func readConfig(fs afero.Fs, configFilePath string) (string, *config.Config, error) {
	cfgFinder := config.NewFinder(fs)
	cfgReader := config.NewReader(fs)
	cfgPath, err := cfgFinder.Find(configFilePath)
	if err != nil {
		return "", nil, fmt.Errorf("find configuration file: %w", err)
	}
	cfg := &config.Config{}
	if err := cfgReader.Read(cfg, cfgPath); err != nil {
		return "", nil, fmt.Errorf("read configuration file: %w", err)
	}
	return cfgPath, cfg, nil
}
