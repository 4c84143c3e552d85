package factory

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned (wrapped in a *ConfigError) when the
	// supervisor is configured with values it cannot run with.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrAlreadyRunning is returned by Run when the supervisor is already running.
	ErrAlreadyRunning = errors.New("supervisor already running")
)

// ConfigError describes a single rejected configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func newConfigError(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
