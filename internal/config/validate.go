package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateTools()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Tools.FFmpegBinary) == "" {
		return fmt.Errorf("tools.ffmpeg_binary must not be empty")
	}
	if strings.TrimSpace(c.Tools.ExternalBinary) == "" {
		return fmt.Errorf("tools.external_binary must not be empty")
	}
	return nil
}
