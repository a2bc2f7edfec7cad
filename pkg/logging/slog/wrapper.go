package slog

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/butter-bot-machines/apathy/pkg/logging"
)

// Format selects the slog handler
type Format int

const (
	// FormatJSON writes one JSON object per record
	FormatJSON Format = iota
	// FormatText writes logfmt style key=value records
	FormatText
)

// LoggerWrapper wraps slog.Logger to implement logging.Logger
type LoggerWrapper struct {
	*slog.Logger
	level  logging.Level
	output io.Writer
	format Format

	// With and WithGroup calls, replayed in order onto a fresh handler when
	// the level or output changes
	chain []func(*slog.Logger) *slog.Logger
}

// NewLogger creates a new JSON logger with the given level and output
func NewLogger(level logging.Level, output io.Writer) logging.Logger {
	return New(level, output, FormatJSON)
}

// NewTextLogger creates a new text logger with the given level and output
func NewTextLogger(level logging.Level, output io.Writer) logging.Logger {
	return New(level, output, FormatText)
}

// New creates a new wrapped slog logger
func New(level logging.Level, output io.Writer, format Format) *LoggerWrapper {
	if output == nil {
		output = os.Stdout
	}

	l := &LoggerWrapper{
		level:  level,
		output: output,
		format: format,
	}
	l.rebuild()
	return l
}

// rebuild creates the handler chain for the current settings
func (l *LoggerWrapper) rebuild() {
	opts := &slog.HandlerOptions{
		Level:       levelToSlog(l.level),
		ReplaceAttr: lowerLevel,
	}

	var handler slog.Handler
	if l.format == FormatText {
		handler = slog.NewTextHandler(l.output, opts)
	} else {
		handler = slog.NewJSONHandler(l.output, opts)
	}

	logger := slog.New(handler)
	for _, apply := range l.chain {
		logger = apply(logger)
	}
	l.Logger = logger
}

// GetLevel returns the current log level
func (l *LoggerWrapper) GetLevel() logging.Level {
	return l.level
}

// SetLevel sets the log level
func (l *LoggerWrapper) SetLevel(level logging.Level) {
	l.level = level
	l.rebuild()
}

// GetOutput returns the current output writer
func (l *LoggerWrapper) GetOutput() io.Writer {
	return l.output
}

// SetOutput sets the output writer
func (l *LoggerWrapper) SetOutput(w io.Writer) {
	l.output = w
	l.rebuild()
}

// With returns a new logger with the given attributes
func (l *LoggerWrapper) With(args ...interface{}) logging.Logger {
	attrs := toAttrs(args)
	return l.derive(func(logger *slog.Logger) *slog.Logger {
		return logger.With(attrs...)
	})
}

// WithGroup returns a new logger with the given group
func (l *LoggerWrapper) WithGroup(name string) logging.Logger {
	return l.derive(func(logger *slog.Logger) *slog.Logger {
		return logger.WithGroup(name)
	})
}

func (l *LoggerWrapper) derive(apply func(*slog.Logger) *slog.Logger) *LoggerWrapper {
	chain := make([]func(*slog.Logger) *slog.Logger, len(l.chain), len(l.chain)+1)
	copy(chain, l.chain)
	return &LoggerWrapper{
		Logger: apply(l.Logger),
		level:  l.level,
		output: l.output,
		format: l.format,
		chain:  append(chain, apply),
	}
}

// Debug logs a debug message
func (l *LoggerWrapper) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs an info message
func (l *LoggerWrapper) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *LoggerWrapper) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs an error message
func (l *LoggerWrapper) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, msg, args...)
}

// log handles the actual logging
func (l *LoggerWrapper) log(level slog.Level, msg string, args ...interface{}) {
	if level < levelToSlog(l.level) {
		return
	}
	l.Logger.Log(context.Background(), level, msg, toAttrs(args)...)
}

// toAttrs converts alternating key/value arguments to slog attributes. A
// dangling key gets the value "MISSING_VALUE".
func toAttrs(args []interface{}) []any {
	if len(args)%2 != 0 {
		args = append(args, "MISSING_VALUE")
	}

	attrs := make([]any, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
