package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePacing(); err != nil {
		return err
	}
	if err := c.validateFilters(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DownloadDir == "" {
		return errors.New("paths.download_dir must be set")
	}
	if c.Paths.HistoryFile == "" {
		return errors.New("paths.history_file must be set")
	}
	return nil
}

func (c *Config) validatePacing() error {
	// Any delay value is accepted; the rate limiter clamps out-of-range
	// delays into its admissible window and warns once.
	if c.Pacing.MaxRetries < 1 {
		return errors.New("pacing.max_retries must be at least 1")
	}
	return nil
}

func (c *Config) validateFilters() error {
	if c.Filters.MinSizeMB < 0 {
		return errors.New("filters.min_size_mb must not be negative")
	}
	if c.Filters.MinDurationSeconds < 0 {
		return errors.New("filters.min_duration_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
