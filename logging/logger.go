package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Config contains logging settings.
//
// The zero value is valid and selects the defaults noted on each field.
type Config struct {
	// Level is the minimum severity to emit: debug, info, warn or error.
	// Defaults to info.
	Level string `yaml:"level"`

	// Format selects the handler: "json" (machine-parsable, the default),
	// "text" (logfmt-style key=value), "terminal" (colourised, for humans)
	// or "auto" ("terminal" when the output is a TTY, "json" otherwise).
	Format string `yaml:"format"`

	// Output is the destination stream: "stdout" (default) or "stderr".
	Output string `yaml:"output"`
}

// Validate checks the logging configuration.
//
// Returns:
//   - error: Description of every invalid field, or nil if valid
func (c Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not recognised", c.Level))
	}

	switch strings.ToLower(c.Format) {
	case "", "json", "text", "terminal", "auto":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q is not recognised", c.Format))
	}

	switch strings.ToLower(c.Output) {
	case "", "stdout", "stderr":
	default:
		errs = append(errs, fmt.Sprintf("logging.output %q is not recognised", c.Output))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// Logger wraps slog.Logger with dbtools-specific functionality.
//
// It provides structured logging with default fields and level-based filtering.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the specified configuration.
//
// It configures:
//   - Output format (JSON for production, terminal colours for development)
//   - Log level filtering
//   - Output destination
//
// Parameters:
//   - cfg: Logging configuration
//
// Returns:
//   - *Logger: Configured logger ready for use
func New(cfg Config) *Logger {
	// Determine output writer
	var output *os.File
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}
	istty := isatty.IsTerminal(output.Fd())

	// Parse log level
	level := parseLevel(cfg.Level)

	// Create handler based on format
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch format := strings.ToLower(cfg.Format); {
	case format == "text":
		handler = slog.NewTextHandler(output, opts)
	case format == "terminal", format == "auto" && istty:
		handler = tint.NewHandler(output, &tint.Options{
			Level:   level,
			NoColor: !istty,
		})
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewWithWriter creates a Logger that writes to w using the configured
// level and format. The "auto" and "terminal" formats fall back to their
// non-coloured rendering because w carries no TTY information.
//
// It exists for hosts that capture logs in buffers or files rather than
// process streams.
func NewWithWriter(w io.Writer, cfg Config) *Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "terminal":
		handler = tint.NewHandler(w, &tint.Options{
			Level:   level,
			NoColor: true,
		})
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// parseLevel converts a string log level to slog.Level.
//
// Supported levels: debug, info, warn, error
// Defaults to info if unrecognised.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with additional default attributes.
//
// Parameters:
//   - args: Key-value pairs to add as default attributes
//
// Returns:
//   - *Logger: New logger with added attributes
//
// Example:
//
//	queryLogger := logger.With("component", "query")
//	queryLogger.Info("executed") // Includes component=query
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Noop returns a logger that discards every record.
//
// It is the process-wide default: a host that never calls SetDefault gets
// completely silent library behaviour.
func Noop() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// defaultLogger is consulted by every library call site. It starts as a
// no-op sink so that importing the library never produces output on its own.
var defaultLogger = Noop()

// Default returns the process-wide logger used by library call sites.
func Default() *Logger {
	return defaultLogger
}

// SetDefault installs l as the process-wide logger. Passing nil restores
// the no-op sink.
//
// Call it once during startup, before issuing database operations. It is
// not synchronised against concurrent library calls; swapping loggers
// mid-flight is the caller's race to manage.
func SetDefault(l *Logger) {
	if l == nil {
		l = Noop()
	}
	defaultLogger = l
}
