// Package logging configures the process-wide zerolog logger for the
// manifold host: level parsing, console output, and optional file logging
// for persistent troubleshooting.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options configures logger setup.
type Options struct {
	// Level is the minimum level to log: debug, info, warn, or error.
	Level string
	// File is an optional path for persistent logs.
	File string
	// NoColor disables colored console output.
	NoColor bool
}

// Setup builds the root logger and installs it as the zerolog global. It
// returns the logger and a close function for the log file, if any.
func Setup(opts Options) (zerolog.Logger, func() error, error) {
	level := ParseLevel(opts.Level)

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    opts.NoColor,
		TimeFormat: "15:04:05",
	}}

	closeFn := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()

	zerolog.SetGlobalLevel(level)
	return log, closeFn, nil
}

// ParseLevel parses a level name, defaulting to info for unknown names.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
