// Package cli assembles the structmig command line interface.
package cli

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/structmig/structmig/pkg/cli/flag"
	"github.com/structmig/structmig/pkg/cli/initcmd"
	"github.com/structmig/structmig/pkg/cli/list"
	"github.com/structmig/structmig/pkg/cli/migrate"
	"github.com/suzuki-shunsuke/go-stdutil"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, logE *logrus.Entry, ldFlags *stdutil.LDFlags, args ...string) error {
	gf := &flag.GlobalFlags{}
	cmd := &cli.Command{
		Name:                  "structmig",
		Usage:                 "Migrate Python logging to structlog. https://github.com/structmig/structmig",
		Version:               ldFlags.Version + " (" + ldFlags.Commit + ")",
		Flags:                 gf.Flags(),
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			migrate.New(logE, gf),
			list.New(logE, gf),
			initcmd.New(logE, gf),
			newVersionCommand(),
		},
	}
	return cmd.Run(ctx, args) //nolint:wrapcheck
}
