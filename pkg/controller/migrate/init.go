package migrate

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const (
	templateLoggingConfig = `"""Shared structlog configuration.

Call configure_logging() once at process start, before any logger is used.
"""

import logging
import os
import sys

import structlog


def configure_logging(service: str, env: str | None = None) -> None:
    if env is None:
        env = os.environ.get("ENV", "development")

    def add_service_context(logger, method_name, event_dict):
        event_dict.setdefault("service", service)
        event_dict.setdefault("env", env)
        return event_dict

    timestamper = structlog.processors.TimeStamper(fmt="iso", utc=True)

    structlog.configure(
        processors=[
            structlog.contextvars.merge_contextvars,
            add_service_context,
            structlog.processors.add_log_level,
            structlog.stdlib.add_logger_name,
            timestamper,
            structlog.processors.StackInfoRenderer(),
            structlog.processors.format_exc_info,
            structlog.processors.JSONRenderer(),
        ],
        wrapper_class=structlog.make_filtering_bound_logger(logging.INFO),
        logger_factory=structlog.PrintLoggerFactory(sys.stdout),
        cache_logger_on_first_use=True,
    )
`
	filePermission os.FileMode = 0o644
)

// Init creates a starter structlog configuration module. Existing files are
// left untouched.
func (c *Controller) Init(dest string) error {
	f, err := afero.Exists(c.fs, dest)
	if err != nil {
		return fmt.Errorf("check if the logging config exists: %w", err)
	}
	if f {
		return nil
	}
	if err := afero.WriteFile(c.fs, dest, []byte(templateLoggingConfig), filePermission); err != nil {
		return fmt.Errorf("create a logging config file: %w", err)
	}
	return nil
}
