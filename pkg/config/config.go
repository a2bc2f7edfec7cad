// Package config loads the settings used to build a tree: the default
// creation mode, error handling for recursive removal, the working directory
// and logging. Settings come from a YAML or TOML file and are overridden by
// APATHY_* environment variables.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/butter-bot-machines/apathy/pkg/fs"
	osfs "github.com/butter-bot-machines/apathy/pkg/fs/os"
	"github.com/butter-bot-machines/apathy/pkg/logging"
	"github.com/butter-bot-machines/apathy/pkg/logging/console"
	"github.com/butter-bot-machines/apathy/pkg/logging/slog"
	"github.com/butter-bot-machines/apathy/pkg/logging/zap"
	"github.com/butter-bot-machines/apathy/pkg/path"
	"github.com/butter-bot-machines/apathy/pkg/tree"
)

// EnvPrefix prefixes every environment variable read by FromEnvironment
const EnvPrefix = "APATHY"

// Format selects the logger implementation
type Format string

// Supported log formats
const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatText    Format = "text"
	FormatZap     Format = "zap"
)

// Config represents the root configuration structure
type Config struct {
	// Mode is used for directories created implicitly by Touch and Move
	Mode fs.Mode `yaml:"mode" toml:"mode"`
	// IgnoreErrors is the flag RemoveAll passes to Rmdirs
	IgnoreErrors bool `yaml:"ignore_errors" toml:"ignore_errors" split_words:"true"`
	// WorkingDirectory replaces the process working directory when set
	WorkingDirectory string `yaml:"working_directory,omitempty" toml:"working_directory,omitempty" split_words:"true"`
	Log              LogConfig `yaml:"log" toml:"log"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  logging.Level `yaml:"level" toml:"level"`
	Format Format        `yaml:"format" toml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Mode: fs.DefaultMode,
		Log: LogConfig{
			Level:  logging.LevelWarn,
			Format: FormatConsole,
		},
	}
}

// Load reads the configuration file at name on top of the defaults. The
// format follows the extension: .yaml and .yml for YAML, .toml for TOML. A
// missing file yields the defaults.
func Load(name string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := cfg.decode(name, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(name string, data []byte) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && err != io.EOF {
			return errors.Wrap(err, "failed to parse config file")
		}
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(c); err != nil {
			return errors.Wrap(err, "failed to parse config file")
		}
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "unable to load %s", name)
	}
	return nil
}

// Save writes the configuration to name in the format its extension selects
func (c *Config) Save(name string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		data, err = toml.Marshal(c)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "unable to save %s", name)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	return errors.Wrap(os.WriteFile(name, data, 0644), "failed to write config file")
}

// FromEnvironment overrides cfg with the APATHY_MODE, APATHY_IGNORE_ERRORS,
// APATHY_WORKING_DIRECTORY, APATHY_LOG_LEVEL and APATHY_LOG_FORMAT variables
// that are set
func FromEnvironment(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return errors.Wrap(err, "failed to load config from environment")
	}
	return cfg.Validate()
}

// Validate performs configuration validation
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return errors.Wrapf(ErrInvalidConfig, "mode %s has bits outside %s", c.Mode, fs.ModeMask)
	}
	if c.Log.Level < logging.LevelDebug || c.Log.Level > logging.LevelError {
		return errors.Wrapf(ErrInvalidConfig, "log level %d", c.Log.Level)
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON, FormatText, FormatZap:
	default:
		return errors.Wrapf(ErrInvalidConfig, "log format %q", c.Log.Format)
	}
	return nil
}

// NewLogger creates the configured logger writing to w
func (c *Config) NewLogger(w io.Writer) logging.Logger {
	switch c.Log.Format {
	case FormatJSON:
		return slog.NewLogger(c.Log.Level, w)
	case FormatText:
		return slog.NewTextLogger(c.Log.Level, w)
	case FormatZap:
		return zap.NewLogger(c.Log.Level, w)
	default:
		return console.NewLogger(c.Log.Level, w)
	}
}

// NewTree creates an operating system backed tree with the configured
// settings, logging to standard error
func (c *Config) NewTree() (*tree.Tree, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []osfs.Option
	if c.WorkingDirectory != "" {
		wd := path.New(c.WorkingDirectory)
		wd.Absolute().Sanitize()
		opts = append(opts, osfs.WithWorkingDirectory(wd.String()))
	}

	return tree.New(osfs.New(opts...),
		tree.WithLogger(c.NewLogger(os.Stderr)),
		tree.WithMode(c.Mode),
		tree.WithIgnoreErrors(c.IgnoreErrors),
	), nil
}
