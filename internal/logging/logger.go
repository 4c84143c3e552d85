// Package logging builds the structured logger used by bootfactory.
// It wraps log/slog with level parsing, text or JSON output and an optional
// log file. Logs never go to stdout, which carries the sample stream.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels accepted in configuration.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Output formats accepted in configuration.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options controls how New and Open build a logger.
type Options struct {
	Level  string
	Format string
	// File, when set, receives the logs instead of stderr.
	File string
}

// New returns a logger writing to w at the given level and format.
// Unknown levels fall back to INFO and unknown formats to text.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Open builds a logger from opts. When opts.File is set the file is created
// (with its directory) and opened for appending; the returned close function
// closes it. Without a file, logs go to stderr and close is a no-op.
func Open(opts Options) (*slog.Logger, func() error, error) {
	if opts.File == "" {
		return New(os.Stderr, opts.Level, opts.Format), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(file, opts.Level, opts.Format), file.Close, nil
}

// ParseLevel converts a level name to slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn, "WARNING":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
