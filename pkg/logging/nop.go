package logging

import "io"

// Nop returns a logger that discards everything
func Nop() Logger {
	return nop{}
}

type nop struct{}

func (nop) Debug(string, ...interface{}) {}
func (nop) Info(string, ...interface{}) {}
func (nop) Warn(string, ...interface{}) {}
func (nop) Error(string, ...interface{}) {}

func (n nop) With(...interface{}) Logger { return n }
func (n nop) WithGroup(string) Logger { return n }

func (nop) SetLevel(Level) {}
func (nop) GetLevel() Level { return LevelError }
func (nop) SetOutput(io.Writer) {}
func (nop) GetOutput() io.Writer { return io.Discard }
