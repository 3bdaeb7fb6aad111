package economy

import (
	"errors"
	"fmt"
)

// ErrConfig is the sentinel matched by every ConfigError.
var ErrConfig = errors.New("invalid economy")

// ConfigError reports a malformed economy description. It is fatal: callers
// must fix the input, there is nothing to retry.
type ConfigError struct {
	Economy int
	Field   string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("economy %d: %s: %s", e.Economy, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrConfig) match.
func (e *ConfigError) Unwrap() error { return ErrConfig }

func configErr(id int, field, format string, args ...any) error {
	return &ConfigError{Economy: id, Field: field, Reason: fmt.Sprintf(format, args...)}
}
