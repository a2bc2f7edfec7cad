package memory

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/butter-bot-machines/apathy/pkg/logging"
)

// Logger implements logging.Logger by recording entries in memory. Loggers
// derived with With and WithGroup record into the same store.
type Logger struct {
	mu     sync.RWMutex
	level  logging.Level
	output io.Writer
	store  *store
	attrs  []interface{}
	groups []string
}

// LogEntry represents a stored log entry
type LogEntry struct {
	Time    time.Time
	Level   logging.Level
	Message string
	Args    []interface{}
	Attrs   []interface{}
	Groups  []string
}

// Value returns the value of key from the entry's arguments or attributes
func (e LogEntry) Value(key string) (interface{}, bool) {
	for _, kv := range [][]interface{}{e.Args, e.Attrs} {
		for i := 0; i+1 < len(kv); i += 2 {
			if kv[i] == key {
				return kv[i+1], true
			}
		}
	}
	return nil, false
}

type store struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates a new memory logger. Entries are also formatted to output
// when it is not nil.
func NewLogger(level logging.Level, output io.Writer) *Logger {
	return &Logger{
		level:  level,
		output: output,
		store:  &store{},
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(logging.LevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(logging.LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(logging.LevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(logging.LevelError, msg, args...)
}

// With returns a new logger with additional attributes
func (l *Logger) With(args ...interface{}) logging.Logger {
	if len(args)%2 != 0 {
		args = append(args, "MISSING_VALUE")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	attrs := make([]interface{}, len(l.attrs)+len(args))
	copy(attrs, l.attrs)
	copy(attrs[len(l.attrs):], args)

	return &Logger{
		level:  l.level,
		output: l.output,
		store:  l.store,
		attrs:  attrs,
		groups: append([]string{}, l.groups...),
	}
}

// WithGroup returns a new logger with an additional group
func (l *Logger) WithGroup(name string) logging.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Logger{
		level:  l.level,
		output: l.output,
		store:  l.store,
		attrs:  append([]interface{}{}, l.attrs...),
		groups: append(append([]string{}, l.groups...), name),
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level logging.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() logging.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
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
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.output
}

// GetEntries returns a copy of all stored log entries
func (l *Logger) GetEntries() []LogEntry {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	entries := make([]LogEntry, len(l.store.entries))
	copy(entries, l.store.entries)
	return entries
}

// EntriesAt returns the stored entries logged at level
func (l *Logger) EntriesAt(level logging.Level) []LogEntry {
	var entries []LogEntry
	for _, e := range l.GetEntries() {
		if e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

// Reset discards all stored entries
func (l *Logger) Reset() {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.entries = nil
}

// log handles the actual logging
func (l *Logger) log(level logging.Level, msg string, args ...interface{}) {
	l.mu.RLock()
	minimum, output := l.level, l.output
	attrs, groups := l.attrs, l.groups
	l.mu.RUnlock()

	if level < minimum {
		return
	}

	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	entry := LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Args:    args,
		Attrs:   append([]interface{}{}, attrs...),
		Groups:  append([]string{}, groups...),
	}

	l.store.entries = append(l.store.entries, entry)

	if output != nil {
		fmt.Fprintln(output, format(entry))
	}
}

// format renders TIME [LEVEL] [GROUP1][GROUP2]... MESSAGE key1=value1 ...
func format(e LogEntry) string {
	var b strings.Builder
	b.WriteString(e.Time.Format("2006-01-02T15:04:05.000"))
	fmt.Fprintf(&b, " [%s] ", e.Level)
	for _, g := range e.Groups {
		fmt.Fprintf(&b, "[%s]", g)
	}
	b.WriteString(e.Message)
	for _, kv := range [][]interface{}{e.Attrs, e.Args} {
		for i := 0; i+1 < len(kv); i += 2 {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		}
	}
	return b.String()
}
