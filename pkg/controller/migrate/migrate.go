package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/config"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// ErrFilesNeedMigration signals that a dry run found files still using the
// logging package. It maps to a non-zero exit status without an error log.
var ErrFilesNeedMigration = errors.New("files need migration")

const defaultBackupSuffix = ".bak"

// Summary aggregates the counts of one run.
type Summary struct {
	Discovered     int
	NeedsMigration int
	Modified       int
	Failed         int
}

// Migrate scans the project directory and reports legacy logging usage. In
// apply mode it also rewrites files that need migration, backing up each
// original first. Per-file read, parse, and write errors are collected and
// reported; they never abort the batch.
func (c *Controller) Migrate(ctx context.Context, logE *logrus.Entry) error {
	if err := c.readConfig(); err != nil {
		return err
	}
	c.analyzer = NewAnalyzer(c.cfg.LogMethods)
	c.rewriter = NewRewriter(c.cfg.LogMethods)

	files, err := FindSourceFiles(c.fs, c.param.ProjectPath, c.cfg.ExcludeDirs)
	if err != nil {
		return fmt.Errorf("search Python files: %w", err)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("process Python files: %w", err)
		}
		logE := logE.WithField("file", file)
		result, err := c.processFile(file)
		if result != nil {
			c.results = append(c.results, result)
		}
		if err != nil {
			c.failures = append(c.failures, asFileFailure(file, err))
			logerr.WithError(logE, err).Error("process a Python file")
		}
	}

	summary := c.summarize(len(files))
	if err := c.output(summary); err != nil {
		return err
	}
	logE.WithFields(logrus.Fields{
		"discovered":      summary.Discovered,
		"needs_migration": summary.NeedsMigration,
		"modified":        summary.Modified,
		"failed":          summary.Failed,
	}).Debug("scan completed")

	if c.param.DryRun && summary.NeedsMigration > 0 {
		return ErrFilesNeedMigration
	}
	return nil
}

func (c *Controller) readConfig() error {
	p, err := c.cfgFinder.Find(c.param.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("find a configuration file: %w", err)
	}
	c.param.ConfigFilePath = p
	cfg := &config.Config{}
	if err := c.cfgReader.Read(cfg, p); err != nil {
		return fmt.Errorf("read a configuration file: %w", err)
	}
	c.cfg = cfg
	return nil
}

// processFile analyzes one file and, in apply mode, rewrites it when needed.
// A non-nil result may accompany a write error; the file then counts as
// analyzed but unmodified.
func (c *Controller) processFile(path string) (*FileResult, error) {
	content, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, &FileFailure{Path: path, Op: OpRead, Err: err}
	}
	analysis, err := c.analyzer.Analyze(content)
	if err != nil {
		return nil, &FileFailure{Path: path, Op: OpParse, Err: err}
	}
	result := &FileResult{
		Path:           path,
		NeedsMigration: analysis.NeedsMigration,
		ImportLine:     analysis.ImportLine,
		Findings:       analysis.Findings,
	}
	if c.param.DryRun || !result.NeedsMigration {
		return result, nil
	}
	rewritten := c.rewriter.Rewrite(string(content))
	if rewritten == string(content) {
		return result, nil
	}
	backupPath, err := c.replaceFile(path, content, []byte(rewritten))
	if err != nil {
		return result, &FileFailure{Path: path, Op: OpWrite, Err: err}
	}
	result.Modified = true
	result.BackupPath = backupPath
	return result, nil
}

// replaceFile writes the backup before overwriting the original so an
// interrupted run never loses the pre-migration content. Both files keep the
// original's permission bits.
func (c *Controller) replaceFile(path string, original, rewritten []byte) (string, error) {
	stat, err := c.fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("get file stat: %w", err)
	}
	backupPath := path + c.backupSuffix()
	if err := afero.WriteFile(c.fs, backupPath, original, stat.Mode()); err != nil {
		return "", fmt.Errorf("write a backup file: %w", err)
	}
	if err := afero.WriteFile(c.fs, path, rewritten, stat.Mode()); err != nil {
		return "", fmt.Errorf("write the migrated file: %w", err)
	}
	return backupPath, nil
}

func (c *Controller) backupSuffix() string {
	if c.cfg != nil && c.cfg.BackupSuffix != "" {
		return c.cfg.BackupSuffix
	}
	return defaultBackupSuffix
}

func (c *Controller) summarize(discovered int) *Summary {
	summary := &Summary{
		Discovered: discovered,
		Failed:     len(c.failures),
	}
	for _, result := range c.results {
		if result.NeedsMigration {
			summary.NeedsMigration++
		}
		if result.Modified {
			summary.Modified++
		}
	}
	return summary
}

func (c *Controller) output(summary *Summary) error {
	if c.param.Format == formatSARIF {
		return c.outputSARIF()
	}
	c.reporter.Report(c.results, c.failures, summary, c.param.Apply)
	return nil
}
