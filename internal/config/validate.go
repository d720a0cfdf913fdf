package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateCompiler(); err != nil {
		return err
	}
	if err := c.validateExpansion(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if strings.TrimSpace(c.Generation.BaseURL) == "" {
		return errors.New("generation.base_url must be set")
	}
	if strings.TrimSpace(c.Generation.Model) == "" {
		return errors.New("generation.model must be set")
	}
	if c.Generation.TimeoutSeconds <= 0 {
		return errors.New("generation.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCompiler() error {
	if strings.TrimSpace(c.Compiler.Binary) == "" {
		return errors.New("compiler.binary must be set")
	}
	if c.Compiler.TimeoutSeconds <= 0 {
		return errors.New("compiler.timeout_seconds must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateExpansion() error {
	switch c.Expansion.Completeness {
	case "minimal", "standard", "full":
		return nil
	default:
		return fmt.Errorf("expansion.completeness must be minimal, standard, or full (got %q)", c.Expansion.Completeness)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
}
