package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stderr

	switch cfg.Format {
	case "console":
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: cfg.TimeFormat,
		}
	case "json":
		// JSON is the default zerolog format
		output = os.Stderr
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromStrings creates a logger from the level and format strings used
// by the config file. Unknown values fall back to the defaults.
func NewFromStrings(level, format string) zerolog.Logger {
	cfg := DefaultConfig()

	if level != "" {
		if lvl, err := zerolog.ParseLevel(level); err == nil {
			cfg.Level = lvl
		}
	}

	switch format {
	case "json", "console":
		cfg.Format = format
	}

	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables
// UNDOCK_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// UNDOCK_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	return NewFromStrings(os.Getenv("UNDOCK_LOG_LEVEL"), os.Getenv("UNDOCK_LOG_FORMAT"))
}
