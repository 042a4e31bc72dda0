package migrate

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type colorFunc func(a ...interface{}) string

// Reporter renders results and failures for humans. Findings are grouped per
// file in the order they appear in the source.
type Reporter struct {
	stdout io.Writer
	red    colorFunc
	green  colorFunc
	yellow colorFunc
}

func NewReporter(stdout io.Writer) *Reporter {
	return &Reporter{
		stdout: stdout,
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
	}
}

func (r *Reporter) Report(results []*FileResult, failures []*FileFailure, summary *Summary, apply bool) {
	for _, result := range results {
		if !result.NeedsMigration && len(result.Findings) == 0 {
			continue
		}
		if result.NeedsMigration {
			fmt.Fprintf(r.stdout, "%s: %s\n", result.Path, r.yellow("needs migration"))
		} else {
			fmt.Fprintf(r.stdout, "%s\n", result.Path)
		}
		for _, finding := range result.Findings {
			fmt.Fprintf(r.stdout, "  %d:%d %s\n", finding.Line, finding.Column, findingMessage(finding))
		}
		if !apply || !result.NeedsMigration {
			continue
		}
		if result.Modified {
			fmt.Fprintf(r.stdout, "  %s (backup %s)\n", r.green("modified"), result.BackupPath)
		} else {
			fmt.Fprintf(r.stdout, "  not modified\n")
		}
	}
	for _, failure := range failures {
		fmt.Fprintf(r.stdout, "%s %s: %s: %v\n", r.red("failed"), failure.Path, failure.Op, failure.Err)
	}
	fmt.Fprintf(r.stdout, "%d files scanned, %d need migration, %d modified, %d failed\n",
		summary.Discovered, summary.NeedsMigration, summary.Modified, summary.Failed)
}
