// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel     = "HOUGH_MCP_LOG_LEVEL"
	EnvLogFormat    = "HOUGH_MCP_LOG_FORMAT"
	EnvOverlayColor = "HOUGH_MCP_OVERLAY_COLOR"
	EnvThreshold    = "HOUGH_MCP_THRESHOLD"
	EnvMaxDimension = "HOUGH_MCP_MAX_DIMENSION"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds the server settings. Tool arguments override the defaults it
// carries for every call.
type Config struct {
	LogLevel  string
	LogFormat string

	// OverlayColor is the default line color for tool calls that do not
	// name one, as a hex string.
	OverlayColor string

	// Threshold is the default peak threshold in [0, 1].
	Threshold float64

	// MaxDimension caps the longest side of images before the transform.
	// Zero disables downscaling.
	MaxDimension int
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    FormatConsole,
		OverlayColor: "#FF0000",
		Threshold:    0.5,
		MaxDimension: 0,
	}
}

// Load reads the configuration from the environment. Unset variables and
// values that do not parse keep their defaults; call Validate to check the
// result.
func Load() *Config {
	def := Default()
	return &Config{
		LogLevel:     strings.ToLower(getEnv(EnvLogLevel, def.LogLevel)),
		LogFormat:    strings.ToLower(getEnv(EnvLogFormat, def.LogFormat)),
		OverlayColor: getEnv(EnvOverlayColor, def.OverlayColor),
		Threshold:    getEnvFloat(EnvThreshold, def.Threshold),
		MaxDimension: getEnvInt(EnvMaxDimension, def.MaxDimension),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	switch c.LogFormat {
	case FormatConsole, FormatJSON:
	default:
		err = multierr.Append(err, fmt.Errorf("%s: unknown log format %q", EnvLogFormat, c.LogFormat))
	}
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		err = multierr.Append(err, fmt.Errorf("%s: threshold %v outside [0, 1]", EnvThreshold, c.Threshold))
	}
	if c.MaxDimension < 0 {
		err = multierr.Append(err, fmt.Errorf("%s: max dimension %d is negative", EnvMaxDimension, c.MaxDimension))
	}
	if _, colorErr := imaging.ParseColor(c.OverlayColor); colorErr != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", EnvOverlayColor, colorErr))
	}
	return err
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
