package list

import (
	"context"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/controller/migrate"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// List executes the main list operation.
// It searches for Python files and outputs legacy logging findings.
func (c *Controller) List(ctx context.Context, logE *logrus.Entry) error {
	tmpl, err := c.parseTemplate()
	if err != nil {
		return err
	}

	var excludes, methods []string
	if c.cfg != nil {
		excludes = c.cfg.ExcludeDirs
		methods = c.cfg.LogMethods
	}
	files, err := migrate.FindSourceFiles(c.fs, c.param.ProjectPath, excludes)
	if err != nil {
		return fmt.Errorf("search Python files: %w", err)
	}
	analyzer := migrate.NewAnalyzer(methods)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("list Python files: %w", err)
		}
		logE := logE.WithField("file", file)
		if err := c.listFile(file, analyzer, tmpl); err != nil {
			logerr.WithError(logE, err).Error("list findings in a file")
		}
	}
	return nil
}

func (c *Controller) parseTemplate() (*template.Template, error) {
	if c.param.LineTemplate == "" {
		return nil, nil //nolint:nilnil
	}
	tmpl, err := template.New("line").Parse(c.param.LineTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse line template: %w", err)
	}
	return tmpl, nil
}

func (c *Controller) listFile(path string, analyzer *migrate.Analyzer, tmpl *template.Template) error {
	content, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return fmt.Errorf("read a Python file: %w", err)
	}
	analysis, err := analyzer.Analyze(content)
	if err != nil {
		return fmt.Errorf("analyze a Python file: %w", err)
	}
	for _, finding := range analysis.Findings {
		entry := &Entry{
			Path:     path,
			FileName: filepath.Base(path),
			Line:     finding.Line,
			Column:   finding.Column,
			Kind:     string(finding.Kind),
			Method:   finding.Method,
		}
		if err := c.output(entry, tmpl); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) output(entry *Entry, tmpl *template.Template) error {
	if tmpl != nil {
		if err := tmpl.Execute(c.stdout, entry); err != nil {
			return fmt.Errorf("execute template: %w", err)
		}
		fmt.Fprintln(c.stdout)
		return nil
	}
	// Default CSV format: <Path>,<Line>,<Column>,<Kind>,<Method>
	fmt.Fprintf(c.stdout, "%s,%d,%d,%s,%s\n", entry.Path, entry.Line, entry.Column, entry.Kind, entry.Method)
	return nil
}
