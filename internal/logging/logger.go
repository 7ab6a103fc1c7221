// Package logging provides structured logging infrastructure for reelcheck.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Level aliases for slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger wraps slog.Logger with reelcheck-specific configuration.
type Logger struct {
	*slog.Logger
}

// Config contains logger configuration options.
type Config struct {
	Level   slog.Level
	Output  io.Writer
	Pretty  bool
	Enabled bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		Enabled: true,
	}
}

// New creates a new logger with the given configuration. Pretty mode
// uses a colorized human-readable handler for interactive terminals;
// otherwise records go out as plain text for log collection.
func New(cfg Config) *Logger {
	if !cfg.Enabled {
		// Return a no-op logger that discards all output
		return &Logger{
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		}
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var handler slog.Handler
	if cfg.Pretty {
		handler = tint.NewHandler(output, &tint.Options{
			Level:      cfg.Level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: cfg.Level,
		})
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPrefix returns a new logger with the given prefix as a group.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		Logger: l.WithGroup(prefix),
	}
}

// Global logger instance.
var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
)

// Global returns the global logger instance.
func Global() *Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = New(DefaultConfig())
	})
	return globalLogger
}

// SetGlobal sets the global logger instance.
func SetGlobal(logger *Logger) {
	globalLogger = logger
}

// Init initializes the global logger with the given level and output.
func Init(level slog.Level, w io.Writer, pretty bool) {
	SetGlobal(New(Config{
		Level:   level,
		Output:  w,
		Pretty:  pretty,
		Enabled: true,
	}))
}

// Package-level convenience functions that delegate to the global logger.

// Debug logs a debug message to the global logger.
func Debug(msg string, args ...any) {
	Global().Debug(msg, args...)
}

// Info logs an informational message to the global logger.
func Info(msg string, args ...any) {
	Global().Info(msg, args...)
}

// Warn logs a warning message to the global logger.
func Warn(msg string, args ...any) {
	Global().Warn(msg, args...)
}

// Error logs an error message to the global logger.
func Error(msg string, args ...any) {
	Global().Error(msg, args...)
}
