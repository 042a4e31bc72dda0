package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// ErrProjectNotFound is returned when the scan root isn't an existing
// directory.
var ErrProjectNotFound = errors.New("project directory isn't found")

var defaultExcludedDirs = []string{
	".git",
	".venv",
	"venv",
	"env",
	"__pycache__",
	"node_modules",
	".pytest_cache",
	".mypy_cache",
	"build",
	"dist",
	".eggs",
}

// FindSourceFiles walks root and returns the Python files under it in
// lexical order. Directories named in the default excluded set, in
// extraExcludes, or ending in .egg-info are skipped entirely. No file
// content is read.
func FindSourceFiles(fsys afero.Fs, root string, extraExcludes []string) ([]string, error) {
	ok, err := afero.DirExists(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("check if the project directory exists: %w", err)
	}
	if !ok {
		return nil, logerr.WithFields(ErrProjectNotFound, logrus.Fields{
			"project_path": root,
		})
	}

	excluded := make(map[string]struct{}, len(defaultExcludedDirs)+len(extraExcludes))
	for _, dir := range defaultExcludedDirs {
		excluded[dir] = struct{}{}
	}
	for _, dir := range extraExcludes {
		excluded[dir] = struct{}{}
	}

	files := []string{}
	if err := fs.WalkDir(afero.NewIOFS(fsys), root, func(p string, dirEntry fs.DirEntry, e error) error {
		if e != nil {
			return e
		}
		if dirEntry.IsDir() {
			if p != root && isExcludedDir(dirEntry.Name(), excluded) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".py") {
			files = append(files, p)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("walk the project directory: %w", err)
	}
	return files, nil
}

func isExcludedDir(name string, excluded map[string]struct{}) bool {
	if _, ok := excluded[name]; ok {
		return true
	}
	return strings.HasSuffix(name, ".egg-info")
}
