// Package config loads lwcgraph.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"lwcgraph/internal/analyzer"
	"lwcgraph/internal/bundle"
	"lwcgraph/internal/correlate"
	"lwcgraph/internal/diag"
	"lwcgraph/internal/rules"
	"lwcgraph/internal/state"
)

// FileName is the configuration file searched for.
const FileName = "lwcgraph.toml"

// presetKey is the reserved key of the [rules] table.
const presetKey = "preset"

// Config is the resolved configuration.
type Config struct {
	// Path is the file the configuration came from, empty for defaults.
	Path string

	Namespace  string
	LogLevel   string
	Extensions bundle.Extensions
	Cache      CacheConfig
	Analyzer   AnalyzerConfig
	Rules      RulesConfig
}

type CacheConfig struct {
	Capacity int
}

type AnalyzerConfig struct {
	Command []string
	Wire    analyzer.Wire
	Timeout time.Duration
}

type RulesConfig struct {
	Preset    string
	Overrides map[string]diag.Severity
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// fileConfig mirrors the TOML layout; unset keys stay nil so defaults
// survive.
type fileConfig struct {
	Namespace  *string `toml:"namespace"`
	LogLevel   *string `toml:"log_level"`
	Extensions struct {
		Script   []string `toml:"script"`
		Template []string `toml:"template"`
	} `toml:"extensions"`
	Cache struct {
		Capacity *int `toml:"capacity"`
	} `toml:"cache"`
	Analyzer struct {
		Command []string  `toml:"command"`
		Wire    *string   `toml:"wire"`
		Timeout *Duration `toml:"timeout"`
	} `toml:"analyzer"`
	// values are strings, or 0/1/2 like the host accepts
	Rules map[string]any `toml:"rules"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Namespace:  correlate.DefaultNamespace,
		LogLevel:   "warn",
		Extensions: bundle.DefaultExtensions,
		Cache:      CacheConfig{Capacity: state.DefaultCapacity},
		Analyzer:   AnalyzerConfig{Wire: analyzer.WireJSON},
		Rules:      RulesConfig{Preset: rules.PresetRecommended, Overrides: map[string]diag.Severity{}},
	}
}

// Find walks from startDir up to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest configuration file, or returns
// Default() when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads path on top of Default().
func Load(path string) (Config, error) {
	var raw fileConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg, err := raw.resolve()
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func (raw fileConfig) resolve() (Config, error) {
	cfg := Default()
	if raw.Namespace != nil {
		cfg.Namespace = strings.TrimSpace(*raw.Namespace)
		if cfg.Namespace == "" {
			return Config{}, fmt.Errorf("namespace must not be empty")
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Extensions.Script != nil {
		cfg.Extensions.Script = raw.Extensions.Script
	}
	if raw.Extensions.Template != nil {
		cfg.Extensions.Template = raw.Extensions.Template
	}
	if err := cfg.Extensions.Validate(); err != nil {
		return Config{}, fmt.Errorf("[extensions]: %w", err)
	}
	if raw.Cache.Capacity != nil {
		if *raw.Cache.Capacity <= 0 {
			return Config{}, fmt.Errorf("[cache].capacity must be positive, got %d", *raw.Cache.Capacity)
		}
		cfg.Cache.Capacity = *raw.Cache.Capacity
	}

	cfg.Analyzer.Command = raw.Analyzer.Command
	if raw.Analyzer.Wire != nil {
		w, err := analyzer.ParseWire(*raw.Analyzer.Wire)
		if err != nil {
			return Config{}, fmt.Errorf("[analyzer].wire: %w", err)
		}
		cfg.Analyzer.Wire = w
	}
	if raw.Analyzer.Timeout != nil {
		if raw.Analyzer.Timeout.Duration < 0 {
			return Config{}, fmt.Errorf("[analyzer].timeout must not be negative")
		}
		cfg.Analyzer.Timeout = raw.Analyzer.Timeout.Duration
	}

	for key, v := range raw.Rules {
		value := fmt.Sprint(v)
		if key == presetKey {
			cfg.Rules.Preset = value
			continue
		}
		sev, err := diag.ParseSeverity(value)
		if err != nil {
			return Config{}, fmt.Errorf("[rules].%s: %w", key, err)
		}
		cfg.Rules.Overrides[key] = sev
	}
	if _, err := cfg.RuleSettings(); err != nil {
		return Config{}, fmt.Errorf("[rules]: %w", err)
	}
	return cfg, nil
}

// RuleSettings resolves the preset and applies the overrides.
func (c Config) RuleSettings() (rules.Settings, error) {
	settings, err := rules.Preset(c.Rules.Preset)
	if err != nil {
		return nil, err
	}
	if err := settings.Apply(c.Rules.Overrides); err != nil {
		return nil, err
	}
	return settings, nil
}

// NewAnalyzer builds the subprocess analyzer described by [analyzer].
func (c Config) NewAnalyzer() (*analyzer.Exec, error) {
	if len(c.Analyzer.Command) == 0 {
		return nil, fmt.Errorf("%w: set [analyzer].command in %s or pass --analyzer", analyzer.ErrNoCommand, FileName)
	}
	return &analyzer.Exec{
		Command: c.Analyzer.Command,
		Wire:    c.Analyzer.Wire,
		Timeout: c.Analyzer.Timeout,
		Dir:     c.Root(),
	}, nil
}

// Root is the directory holding the configuration file, or "" for defaults.
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}
