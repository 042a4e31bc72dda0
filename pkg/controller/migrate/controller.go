// Package migrate implements the core logic for moving Python code from the
// standard library logging package to structlog. It scans a project directory
// for Python files, detects legacy logging usage with a real Python parser,
// reports the findings, and optionally rewrites the files in place, writing a
// backup of each original before it is overwritten. The package separates the
// pure parts (detection and text rewriting) from the orchestration so they
// can be reused and tested in isolation.
package migrate

import (
	"io"

	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/config"
)

type Controller struct {
	fs        afero.Fs
	cfg       *config.Config
	param     *Param
	cfgFinder ConfigFinder
	cfgReader ConfigReader
	analyzer  *Analyzer
	rewriter  *Rewriter
	reporter  *Reporter
	results   []*FileResult
	failures  []*FileFailure
}

type ConfigFinder interface {
	Find(configFilePath string) (string, error)
}

type ConfigReader interface {
	Read(cfg *config.Config, configFilePath string) error
}

type Param struct {
	ProjectPath    string
	ConfigFilePath string
	DryRun         bool
	Apply          bool
	Format         string
	Output         string
	Stdout         io.Writer
}

func New(fs afero.Fs, cfgFinder ConfigFinder, cfgReader ConfigReader, param *Param) *Controller {
	return &Controller{
		fs:        fs,
		cfgFinder: cfgFinder,
		cfgReader: cfgReader,
		param:     param,
		cfg:       &config.Config{},
		reporter:  NewReporter(param.Stdout),
	}
}
