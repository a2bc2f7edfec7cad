package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/butter-bot-machines/apathy/pkg/fs"
	"github.com/butter-bot-machines/apathy/pkg/logging"
	"github.com/butter-bot-machines/apathy/pkg/logging/console"
	slogwrapper "github.com/butter-bot-machines/apathy/pkg/logging/slog"
	zapwrapper "github.com/butter-bot-machines/apathy/pkg/logging/zap"
	"github.com/butter-bot-machines/apathy/pkg/path"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, fs.DefaultMode, cfg.Mode)
	assert.False(t, cfg.IgnoreErrors)
	assert.Equal(t, logging.LevelWarn, cfg.Log.Level)
	assert.Equal(t, FormatConsole, cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestConfigLoading(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		configPath := writeConfig(t, "apathy.yaml", `
mode: 0750
ignore_errors: true
working_directory: /srv/data
log:
  level: debug
  format: json
`)
		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, fs.Mode(0750), cfg.Mode)
		assert.True(t, cfg.IgnoreErrors)
		assert.Equal(t, "/srv/data", cfg.WorkingDirectory)
		assert.Equal(t, logging.LevelDebug, cfg.Log.Level)
		assert.Equal(t, FormatJSON, cfg.Log.Format)
	})

	t.Run("partial yaml keeps defaults", func(t *testing.T) {
		configPath := writeConfig(t, "apathy.yml", "ignore_errors: true\n")
		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, fs.DefaultMode, cfg.Mode)
		assert.Equal(t, logging.LevelWarn, cfg.Log.Level)
	})

	t.Run("empty yaml", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "apathy.yaml", ""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("toml", func(t *testing.T) {
		configPath := writeConfig(t, "apathy.toml", `
mode = "0700"
ignore_errors = false

[log]
level = "error"
format = "zap"
`)
		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, fs.Mode(0700), cfg.Mode)
		assert.Equal(t, logging.LevelError, cfg.Log.Level)
		assert.Equal(t, FormatZap, cfg.Log.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(writeConfig(t, "apathy.ini", "mode=0777"))
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(writeConfig(t, "apathy.yaml", "colour: red\n"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		for name, content := range map[string]string{
			"mode":   "mode: 17777\n",
			"level":  "log:\n  level: loud\n",
			"format": "log:\n  format: xml\n",
		} {
			_, err := Load(writeConfig(t, "apathy.yaml", content))
			assert.Error(t, err, name)
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Mode = 0711
	cfg.IgnoreErrors = true
	cfg.Log.Level = logging.LevelInfo
	cfg.Log.Format = FormatText

	for _, name := range []string{"apathy.yaml", "apathy.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)
			require.NoError(t, cfg.Save(configPath))

			loaded, err := Load(configPath)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	assert.True(t, errors.Is(cfg.Save(filepath.Join(t.TempDir(), "apathy.json")), ErrUnsupportedFormat))
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv("APATHY_MODE", "0755")
	t.Setenv("APATHY_IGNORE_ERRORS", "true")
	t.Setenv("APATHY_WORKING_DIRECTORY", "/var/tmp")
	t.Setenv("APATHY_LOG_LEVEL", "info")
	t.Setenv("APATHY_LOG_FORMAT", "text")

	cfg := Default()
	require.NoError(t, FromEnvironment(cfg))
	assert.Equal(t, fs.Mode(0755), cfg.Mode)
	assert.True(t, cfg.IgnoreErrors)
	assert.Equal(t, "/var/tmp", cfg.WorkingDirectory)
	assert.Equal(t, logging.LevelInfo, cfg.Log.Level)
	assert.Equal(t, FormatText, cfg.Log.Format)

	t.Run("unset variables keep values", func(t *testing.T) {
		os.Unsetenv("APATHY_MODE")
		cfg := Default()
		cfg.Mode = 0700
		require.NoError(t, FromEnvironment(cfg))
		assert.Equal(t, fs.Mode(0700), cfg.Mode)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("APATHY_LOG_FORMAT", "xml")
		assert.True(t, errors.Is(FromEnvironment(Default()), ErrInvalidConfig))
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		format Format
		check  func(logging.Logger) bool
	}{
		{FormatConsole, func(l logging.Logger) bool { _, ok := l.(*console.Logger); return ok }},
		{FormatJSON, func(l logging.Logger) bool { _, ok := l.(*slogwrapper.LoggerWrapper); return ok }},
		{FormatText, func(l logging.Logger) bool { _, ok := l.(*slogwrapper.LoggerWrapper); return ok }},
		{FormatZap, func(l logging.Logger) bool { _, ok := l.(*zapwrapper.Logger); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			cfg := Default()
			cfg.Log.Format = tt.format
			cfg.Log.Level = logging.LevelInfo

			buf := new(bytes.Buffer)
			logger := cfg.NewLogger(buf)
			assert.True(t, tt.check(logger), "unexpected logger %T", logger)
			assert.Equal(t, logging.LevelInfo, logger.GetLevel())

			logger.Info("configured")
			assert.Contains(t, buf.String(), "configured")
		})
	}
}

func TestNewTree(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.WorkingDirectory = dir
	cfg.Mode = 0700

	tr, err := cfg.NewTree()
	require.NoError(t, err)
	assert.Equal(t, fs.Mode(0700), tr.Mode())
	assert.Equal(t, dir+"/", tr.Getwd().String())

	require.NoError(t, tr.Touch(path.New("a/b/file"), 0644))
	assert.FileExists(t, filepath.Join(dir, "a", "b", "file"))

	cfg.Log.Format = "xml"
	_, err = cfg.NewTree()
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
