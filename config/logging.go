package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// LoggingConfig defines the process log output.
type LoggingConfig struct {
	// Level is a zerolog level name. Empty falls back to LOG_LEVEL, then info.
	Level string `json:"level"`
	// Format is "console" or "json". Empty picks console when APP_ENV=dev.
	Format string `json:"format"`
}

// SetDefaults normalises the configured names.
func (c *LoggingConfig) SetDefaults() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
}

// Validate checks the level and format names.
func (c LoggingConfig) Validate() error {
	if c.Level != "" {
		if _, err := zerolog.ParseLevel(c.Level); err != nil {
			return fmt.Errorf("unknown level %q", c.Level)
		}
	}
	switch c.Format {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
}
