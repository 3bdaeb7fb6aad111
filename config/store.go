package config

import (
	"fmt"
	"strings"
)

// Store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// StoreConfig selects where evaluation reports are kept.
type StoreConfig struct {
	Backend string `json:"backend"`
	// Path is the SQLite database file.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	c.Backend = strings.ToLower(c.Backend)
	if c.Backend == "" {
		c.Backend = StoreNone
	}
	if c.Backend == StoreSQLite && c.Path == "" {
		c.Path = "foundry.db"
	}
}

// Validate checks the backend name.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case StoreNone, StoreMemory:
		return nil
	case StoreSQLite:
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
}
