package slog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/butter-bot-machines/apathy/pkg/logging"
	"github.com/butter-bot-machines/apathy/pkg/logging/slog/internal/testutil"
)

var _ logging.Logger = (*LoggerWrapper)(nil)

func TestLoggerWrapper_Filtering(t *testing.T) {
	tests := []struct {
		minimum logging.Level
		level   string
		want    bool
	}{
		{logging.LevelWarn, "debug", false},
		{logging.LevelWarn, "info", false},
		{logging.LevelWarn, "warn", true},
		{logging.LevelWarn, "error", true},
		{logging.LevelDebug, "debug", true},
		{logging.Level(42), "info", true},
		{logging.Level(42), "debug", false},
	}

	for _, tt := range tests {
		t.Run(tt.minimum.String()+"/"+tt.level, func(t *testing.T) {
			buf := new(bytes.Buffer)
			logger := NewLogger(tt.minimum, buf)
			log := map[string]func(string, ...interface{}){
				"debug": logger.Debug,
				"info":  logger.Info,
				"warn":  logger.Warn,
				"error": logger.Error,
			}[tt.level]
			log("unable to remove", "path", "/a")

			if got := buf.Len() > 0; got != tt.want {
				t.Fatalf("Got logged=%v, want %v", got, tt.want)
			}
			if !tt.want {
				return
			}
			entry := testutil.ParseLogEntry(t, buf.String())
			if entry.Level != tt.level {
				t.Errorf("Got %v, want %v", entry.Level, tt.level)
			}
			if entry.Attrs["path"] != "/a" {
				t.Errorf("Got %v, want /a", entry.Attrs["path"])
			}
		})
	}
}

func TestLoggerWrapper_Arguments(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(logging.LevelInfo, buf)

	t.Run("Dangling key", func(t *testing.T) {
		logger.With("mode", "0755", "path").Info("mkdir")
		entry := testutil.ParseLogEntry(t, buf.String())
		if entry.Attrs["path"] != "MISSING_VALUE" {
			t.Errorf("Got %v, want MISSING_VALUE", entry.Attrs["path"])
		}
	})

	t.Run("Non-string key", func(t *testing.T) {
		logger.Info("mkdir", 7, "value")
		entry := testutil.ParseLogEntry(t, buf.String())
		if entry.Attrs["!BADKEY"] != "value" {
			t.Errorf("Got %v, want value under !BADKEY", entry.Attrs)
		}
	})
}

func TestLoggerWrapper_Rebuild(t *testing.T) {
	first := new(bytes.Buffer)
	second := new(bytes.Buffer)

	base := New(logging.LevelInfo, first, FormatJSON)
	logger := base.With("root", "/a").WithGroup("rmdirs").With("depth", 1).(*LoggerWrapper)

	logger.SetOutput(second)
	logger.SetLevel(logging.LevelDebug)
	logger.Debug("child failed", "path", "/a/b")

	if first.Len() != 0 {
		t.Errorf("Output went to the old writer: %s", first.String())
	}

	entry := testutil.ParseLogEntry(t, second.String())
	if entry.Attrs["root"] != "/a" {
		t.Errorf("Got %v, want /a", entry.Attrs["root"])
	}
	group, ok := entry.Attrs["rmdirs"].(map[string]interface{})
	if !ok {
		t.Fatalf("Group missing from output: %s", second.String())
	}
	if group["depth"] != float64(1) {
		t.Errorf("Got %v, want 1", group["depth"])
	}
	if group["path"] != "/a/b" {
		t.Errorf("Got %v, want /a/b", group["path"])
	}

	t.Run("Parent untouched", func(t *testing.T) {
		if got := base.GetLevel(); got != logging.LevelInfo {
			t.Errorf("Got %v, want %v", got, logging.LevelInfo)
		}
		if base.GetOutput() != first {
			t.Error("Parent output changed")
		}
		base.Debug("filtered")
		if first.Len() != 0 {
			t.Errorf("Parent logged below its level: %s", first.String())
		}
	})
}

func TestLoggerWrapper_TextFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewTextLogger(logging.LevelInfo, buf)

	logger.WithGroup("tree").With("path", "/tmp/a").Warn("rmdirs child failed")

	output := buf.String()
	for _, want := range []string{"level=warn", "tree.path=/tmp/a", `msg="rmdirs child failed"`} {
		if !strings.Contains(output, want) {
			t.Errorf("Missing %s in output: %s", want, output)
		}
	}
}

func TestLoggerWrapper_NilOutput(t *testing.T) {
	logger := NewLogger(logging.LevelInfo, nil)
	if logger.GetOutput() == nil {
		t.Error("Output should default to stdout")
	}
}
