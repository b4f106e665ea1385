// Package logger builds the zerolog logger used by the server.
//
// Logs always go to a writer the caller picks, normally stderr, because
// stdout carries the JSON-RPC protocol.
package logger

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. format is "console" or "json"; level is
// any level name zerolog understands ("debug", "info", "warn", ...).
func New(w io.Writer, format, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.DurationFieldInteger = true

	switch format {
	case "", "console":
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: "15:04:05",
		}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format: %s", format)
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "hough-mcp").
		Logger(), nil
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("failed to parse log level: %w", err)
	}
	return lvl, nil
}
