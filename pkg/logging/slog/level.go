package slog

import (
	"log/slog"
	"strings"

	"github.com/butter-bot-machines/apathy/pkg/logging"
)

var slogLevels = [...]slog.Level{
	logging.LevelDebug: slog.LevelDebug,
	logging.LevelInfo:  slog.LevelInfo,
	logging.LevelWarn:  slog.LevelWarn,
	logging.LevelError: slog.LevelError,
}

// levelToSlog maps a level onto slog's scale. Unknown levels log at info.
func levelToSlog(level logging.Level) slog.Level {
	if level < logging.LevelDebug || int(level) >= len(slogLevels) {
		return slog.LevelInfo
	}
	return slogLevels[level]
}

// lowerLevel renders the top-level level attribute as "debug", "info", "warn"
// or "error", matching logging.ParseLevel input
func lowerLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToLower(level.String()))
		}
	}
	return a
}
