// Package config resolves dragbox settings from flags, DRAGBOX_* environment
// variables and an optional dragbox.toml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/dragbox/logging"
	"github.com/lixenwraith/dragbox/pointer"
	"github.com/lixenwraith/dragbox/shape"
)

// ErrInvalid marks a setting outside its accepted values
var ErrInvalid = errors.New("invalid configuration")

const (
	EnvPrefix = "DRAGBOX"
	FileName  = "dragbox"
)

// Backends
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config holds the resolved settings
type Config struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	X          int    `mapstructure:"x"`
	Y          int    `mapstructure:"y"`
	Backend    string `mapstructure:"backend"`
	DragPolicy string `mapstructure:"drag_policy"`
	LogFile    string `mapstructure:"log_file"`
	LogLevel   string `mapstructure:"log_level"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Width:      20,
		Height:     10,
		X:          10,
		Y:          5,
		Backend:    BackendANSI,
		DragPolicy: "anchored",
		LogLevel:   "info",
	}
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"width":       "width",
	"height":      "height",
	"x":           "x",
	"y":           "y",
	"backend":     "backend",
	"drag-policy": "drag_policy",
	"log-file":    "log_file",
	"log-level":   "log_level",
}

// RegisterFlags adds the settings flags to fs with their defaults
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Int("width", d.Width, "shape width in columns")
	fs.Int("height", d.Height, "shape height in rows")
	fs.Int("x", d.X, "initial column of the shape's top-left corner")
	fs.Int("y", d.Y, "initial row of the shape's top-left corner")
	fs.String("backend", d.Backend, "terminal backend: ansi or tcell")
	fs.String("drag-policy", d.DragPolicy, "drag delta policy: anchored or baseline")
	fs.String("log-file", d.LogFile, "write logs to this file (disabled when empty)")
	fs.String("log-level", d.LogLevel, "log level: trace, debug, info, warn, error")
	fs.String("config", "", "config file (default: ./dragbox.toml or $XDG_CONFIG_HOME/dragbox/dragbox.toml)")
}

// Load resolves the configuration. Flags left at their defaults do not
// override the environment or the config file.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("x", d.X)
	v.SetDefault("y", d.Y)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("drag_policy", d.DragPolicy)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := readFile(v, explicitFile(fs)); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func explicitFile(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	if f := fs.Lookup("config"); f != nil {
		return f.Value.String()
	}
	return ""
}

// readFile loads an explicit config file, which must exist, or searches the
// default locations, where a missing file is fine
func readFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, FileName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.DragPolicy = strings.ToLower(strings.TrimSpace(c.DragPolicy))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks the enumerated settings and bounds the painted area.
// Coordinates are not checked against the terminal; the shape clamps them.
func (c Config) Validate() error {
	if n := shape.CellCount(c.Width, c.Height); n > shape.MaxCells {
		return fmt.Errorf("%w: shape %dx%d paints %d cells (max %d)", ErrInvalid, c.Width, c.Height, n, shape.MaxCells)
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("%w: backend %q (want %s or %s)", ErrInvalid, c.Backend, BackendANSI, BackendTcell)
	}
	if _, err := pointer.ParsePolicy(c.DragPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Policy returns the parsed drag policy of a validated config
func (c Config) Policy() pointer.Policy {
	p, _ := pointer.ParsePolicy(c.DragPolicy)
	return p
}

// Logging returns the logger settings
func (c Config) Logging() logging.Config {
	return logging.Config{Path: c.LogFile, Level: c.LogLevel}
}
