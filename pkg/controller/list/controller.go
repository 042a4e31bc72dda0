// Package list implements the 'structmig list' command.
// This package provides functionality to list legacy logging findings from
// Python files as one line per finding, with support for custom output
// formatting.
package list

import (
	"io"

	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/config"
)

// Controller handles the list command operations.
type Controller struct {
	fs     afero.Fs
	cfg    *config.Config
	param  *Param
	stdout io.Writer
}

// Param contains parameters for the list command.
type Param struct {
	ProjectPath    string
	ConfigFilePath string
	LineTemplate   string
}

// New creates a new Controller for running list operations.
func New(fs afero.Fs, cfg *config.Config, param *Param, stdout io.Writer) *Controller {
	return &Controller{
		fs:     fs,
		cfg:    cfg,
		param:  param,
		stdout: stdout,
	}
}
