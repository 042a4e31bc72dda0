package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ExcludeDirs  []string `json:"exclude_dirs,omitempty" yaml:"exclude_dirs" jsonschema:"description=Directory names excluded from the scan in addition to the default set"`
	LogMethods   []string `json:"log_methods,omitempty" yaml:"log_methods" jsonschema:"description=Method names treated as log level calls in addition to the default set"`
	BackupSuffix string   `json:"backup_suffix,omitempty" yaml:"backup_suffix" jsonschema:"description=Suffix appended to backup file names. Must start with a dot. Defaults to .bak"`
}

func (c *Config) Init() error {
	for _, dir := range c.ExcludeDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			return errors.New("exclude_dirs must be plain directory names: " + dir)
		}
	}
	for _, method := range c.LogMethods {
		if !isPythonIdentifier(method) {
			return errors.New("log_methods must be Python identifiers: " + method)
		}
	}
	if c.BackupSuffix != "" && !strings.HasPrefix(c.BackupSuffix, ".") {
		return errors.New("backup_suffix must start with a dot: " + c.BackupSuffix)
	}
	return nil
}

func isPythonIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			continue
		}
		if i > 0 && '0' <= r && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".structmig.yaml", ".structmig.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	p, err := getConfigPath(f.fs)
	if err != nil {
		return "", err
	}
	return p, nil
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath == "" {
		return nil
	}
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	if err := cfg.Init(); err != nil {
		return fmt.Errorf("validate the configuration: %w", err)
	}
	return nil
}
