// Package zap adapts go.uber.org/zap to logging.Logger.
package zap

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/butter-bot-machines/apathy/pkg/logging"
)

// Logger wraps a sugared zap logger
type Logger struct {
	sugar  *zap.SugaredLogger
	level  zap.AtomicLevel
	output io.Writer

	// With and WithGroup calls, replayed when the output changes
	chain []func(*zap.Logger) *zap.Logger
}

// NewLogger creates a JSON zap logger writing to output. A nil output means
// standard output.
func NewLogger(level logging.Level, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	atomic := zap.NewAtomicLevelAt(levelToZap(level))
	l := &Logger{level: atomic, output: output}
	l.sugar = zap.New(newCore(output, atomic)).Sugar()
	return l
}

// Wrap adapts an existing zap logger. Its core decides what is written; the
// level set here filters records before they reach it.
func Wrap(logger *zap.Logger, level logging.Level) *Logger {
	return &Logger{
		sugar: logger.Sugar(),
		level: zap.NewAtomicLevelAt(levelToZap(level)),
	}
}

// Zap returns the underlying zap logger
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level.Enabled(zapcore.DebugLevel) {
		l.sugar.Debugw(msg, pad(args)...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level.Enabled(zapcore.InfoLevel) {
		l.sugar.Infow(msg, pad(args)...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level.Enabled(zapcore.WarnLevel) {
		l.sugar.Warnw(msg, pad(args)...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.level.Enabled(zapcore.ErrorLevel) {
		l.sugar.Errorw(msg, pad(args)...)
	}
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...interface{}) logging.Logger {
	args = pad(args)
	return l.derive(func(z *zap.Logger) *zap.Logger {
		return z.Sugar().With(args...).Desugar()
	})
}

// WithGroup returns a new logger whose later fields are nested under name
func (l *Logger) WithGroup(name string) logging.Logger {
	return l.derive(func(z *zap.Logger) *zap.Logger {
		return z.With(zap.Namespace(name))
	})
}

func (l *Logger) derive(apply func(*zap.Logger) *zap.Logger) *Logger {
	chain := make([]func(*zap.Logger) *zap.Logger, len(l.chain), len(l.chain)+1)
	copy(chain, l.chain)
	return &Logger{
		sugar:  apply(l.Zap()).Sugar(),
		level:  l.level,
		output: l.output,
		chain:  append(chain, apply),
	}
}

// SetLevel sets the minimum log level for this logger and every logger
// derived from it
func (l *Logger) SetLevel(level logging.Level) {
	l.level.SetLevel(levelToZap(level))
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() logging.Level {
	return levelFromZap(l.level.Level())
}

// SetOutput replaces the core with a JSON core writing to w
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
	z := zap.New(newCore(w, l.level))
	for _, apply := range l.chain {
		z = apply(z)
	}
	l.sugar = z.Sugar()
}

// GetOutput returns the current output writer, nil for wrapped loggers whose
// output was never set
func (l *Logger) GetOutput() io.Writer {
	return l.output
}

func newCore(w io.Writer, level zap.AtomicLevel) zapcore.Core {
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), level)
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
}

func pad(args []interface{}) []interface{} {
	if len(args)%2 != 0 {
		return append(args, "MISSING_VALUE")
	}
	return args
}

func levelToZap(level logging.Level) zapcore.Level {
	switch level {
	case logging.LevelDebug:
		return zapcore.DebugLevel
	case logging.LevelWarn:
		return zapcore.WarnLevel
	case logging.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func levelFromZap(level zapcore.Level) logging.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return logging.LevelDebug
	case level == zapcore.InfoLevel:
		return logging.LevelInfo
	case level == zapcore.WarnLevel:
		return logging.LevelWarn
	default:
		return logging.LevelError
	}
}
