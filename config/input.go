package config

import (
	"fmt"
	"strings"
)

// InputConfig locates the economy definitions.
type InputConfig struct {
	Path string `json:"path"`
	// Format is text, yaml or json. Empty infers it from the file extension.
	Format string `json:"format"`
}

// SetDefaults normalises the format name.
func (c *InputConfig) SetDefaults() {
	c.Format = strings.ToLower(c.Format)
	if c.Format == "yml" {
		c.Format = "yaml"
	}
}

// Validate checks the format name. The path is checked when the input is read.
func (c InputConfig) Validate() error {
	switch c.Format {
	case "", "text", "yaml", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %s", c.Format)
	}
}
