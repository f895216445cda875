// Package logging builds the zerolog logger shared by courtcheck components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options select where and how verbosely to log.
type Options struct {
	// File receives JSON log lines. Empty means Console (or stderr).
	File string
	// Level is a zerolog level name; empty or unknown means info.
	Level string
	// Console is used for human-readable output when File is empty.
	Console io.Writer
}

// New returns a logger and a close func for the underlying file, if any.
// The TUI must log to a file: anything written to the terminal would corrupt
// the rendered screen.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := ParseLevel(opts.Level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if strings.TrimSpace(opts.File) == "" {
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
			Level(level).With().Timestamp().Logger()
		return logger, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return logger, file.Close, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
