package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a pyfront run
type Config struct {
	Output OutputConfig `toml:"output" yaml:"output"`
	Check  CheckConfig  `toml:"check" yaml:"check"`
	Log    LogConfig    `toml:"log" yaml:"log"`

	// Path is the file the settings came from, empty for defaults only.
	Path string `toml:"-" yaml:"-"`
}

// OutputConfig controls how trees and diagnostics are printed
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	Color  string `toml:"color" yaml:"color"`
}

// CheckConfig controls which files 'check' walks into
type CheckConfig struct {
	Extensions  []string `toml:"extensions" yaml:"extensions"`
	Exclude     []string `toml:"exclude" yaml:"exclude"`
	MaxWarnings int      `toml:"max_warnings" yaml:"max_warnings"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

const (
	FormatTree = "tree"
	FormatYAML = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrNoConfig is returned by Load for a path that does not exist.
var ErrNoConfig = errors.New("config file not found")

// Default returns the built-in settings.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// DefaultPaths lists the files tried, in order, when no path is given.
func DefaultPaths() []string {
	env.Load()
	paths := []string{"./pyfront.toml", "./pyfront.yaml"}
	if home := env.HomeDir(); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "pyfront", "config.toml"))
	}
	return paths
}

// Load reads a TOML or YAML file, chosen by extension, fills in defaults
// and applies environment overrides.
func Load(path string) (*Config, error) {
	env.Load()
	path = env.ExpandUser(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty document leaves the defaults alone
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}

	cfg.Path = path
	cfg.applyDefaults()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve finds the config for a run. An explicit path wins over
// PYFRONT_CONFIG, which wins over the default locations. With none of them
// present the defaults are used.
func Resolve(explicit string) (*Config, error) {
	env.Load()
	if explicit != "" {
		return Load(explicit)
	}
	if path := env.Str("PYFRONT_CONFIG"); path != "" {
		return Load(path)
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = FormatTree
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
	if len(c.Check.Extensions) == 0 {
		c.Check.Extensions = []string{".py"}
	}
	if c.Check.Exclude == nil {
		c.Check.Exclude = []string{"venv", ".git", "__pycache__"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnv overrides settings from PYFRONT_* variables. NO_COLOR turns
// colour off regardless of anything else. The environment is read afresh on
// every call.
func (c *Config) ApplyEnv() {
	env.Load()
	c.Log.Level = env.Str("PYFRONT_LOG_LEVEL", c.Log.Level)
	c.Output.Format = env.Str("PYFRONT_FORMAT", c.Output.Format)
	c.Output.Color = env.Str("PYFRONT_COLOR", c.Output.Color)
	if env.Has("NO_COLOR") {
		c.Output.Color = ColorNever
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatTree, FormatYAML:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Output.Format, FormatTree, FormatYAML)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Output.Color)
	}
	if c.Check.MaxWarnings < 0 {
		return fmt.Errorf("max_warnings must not be negative, got %d", c.Check.MaxWarnings)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// UseColor reports whether output should be styled, given whether it goes
// to a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Output.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}

// Excluded reports whether a directory or file name is skipped by 'check'.
func (c *Config) Excluded(name string) bool {
	for _, ex := range c.Check.Exclude {
		if ok, _ := filepath.Match(ex, name); ok {
			return true
		}
	}
	return false
}

// IsSource reports whether path has one of the checked extensions.
func (c *Config) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Check.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
