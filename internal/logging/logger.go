// Package logging wraps zerolog for patter. The TUI owns the terminal,
// so logs default to a file under ~/.patter rather than stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger.
var Logger zerolog.Logger

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Output is where logs are written. Nil selects the default log
	// file, falling back to stderr.
	Output io.Writer

	// Console renders human-readable output instead of JSON.
	Console bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// LogFilePath is the default log destination, ~/.patter/patter.log.
func LogFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".patter", "patter.log")
}

// Init initializes the global logger.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if output == nil {
		path := LogFilePath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				output = f
			}
		}
		if output == nil {
			output = os.Stderr
		}
	}

	if cfg.Console {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	Logger = zerolog.New(output).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component creates a child logger tagged with a component field.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func init() {
	// Quiet default until main calls Init with the configured level.
	Logger = zerolog.New(io.Discard)
}
