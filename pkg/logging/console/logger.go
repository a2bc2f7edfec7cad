// Package console implements a human-readable logger for standard error,
// coloring warnings and errors when the output is a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/butter-bot-machines/apathy/pkg/logging"
)

// Logger writes one line per record in the form
//
//	[prefix] Warning: message key=value
//
// It is safe for concurrent usage.
type Logger struct {
	// shared by derived loggers so lines don't interleave
	mu     *sync.Mutex
	level  logging.Level
	output io.Writer
	prefix string
	attrs  []interface{}

	debug, warn, fail *color.Color
}

// Option configures a console logger
type Option func(*Logger)

// WithColor forces colored output on or off. By default color follows
// github.com/fatih/color's terminal detection.
func WithColor(enabled bool) Option {
	return func(l *Logger) {
		for _, c := range []*color.Color{l.debug, l.warn, l.fail} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewLogger creates a console logger. A nil output means standard error.
func NewLogger(level logging.Level, output io.Writer, opts ...Option) *Logger {
	if output == nil {
		output = os.Stderr
	}

	l := &Logger{
		mu:     &sync.Mutex{},
		level:  level,
		output: output,
		debug:  color.New(color.Faint),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(logging.LevelDebug, msg, args)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(logging.LevelInfo, msg, args)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(logging.LevelWarn, msg, args)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(logging.LevelError, msg, args)
}

// With returns a logger that appends args to every record
func (l *Logger) With(args ...interface{}) logging.Logger {
	if len(args)%2 != 0 {
		args = append(args, "MISSING_VALUE")
	}
	derived := l.clone()
	derived.attrs = append(derived.attrs, args...)
	return derived
}

// WithGroup returns a logger whose prefix is extended by name
func (l *Logger) WithGroup(name string) logging.Logger {
	derived := l.clone()
	if derived.prefix == "" {
		derived.prefix = name
	} else {
		derived.prefix += "." + name
	}
	return derived
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level logging.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() logging.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// GetOutput returns the current output writer
func (l *Logger) GetOutput() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.output
}

func (l *Logger) clone() *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &Logger{
		mu:     l.mu,
		level:  l.level,
		output: l.output,
		prefix: l.prefix,
		attrs:  append([]interface{}{}, l.attrs...),
		debug:  l.debug,
		warn:   l.warn,
		fail:   l.fail,
	}
}

func (l *Logger) log(level logging.Level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || l.output == nil {
		return
	}

	var line strings.Builder
	if l.prefix != "" {
		fmt.Fprintf(&line, "[%s] ", l.prefix)
	}

	text := msg + pairs(l.attrs) + pairs(args)
	switch level {
	case logging.LevelDebug:
		line.WriteString(l.debug.Sprint(text))
	case logging.LevelWarn:
		line.WriteString(l.warn.Sprint("Warning: " + text))
	case logging.LevelError:
		line.WriteString(l.fail.Sprint("Error: " + text))
	default:
		line.WriteString(text)
	}
	line.WriteByte('\n')

	io.WriteString(l.output, line.String())
}

// pairs formats alternating keys and values as " key=value"
func pairs(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, " %v=MISSING_VALUE", kv[i])
		}
	}
	return b.String()
}
