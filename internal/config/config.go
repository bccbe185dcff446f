package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for timeclock, stored in
// ~/.timeclock/config.yaml.
type Config struct {
	// BaseDir holds one timeclock_data_<name> directory per clock.
	BaseDir string `yaml:"base_dir"`
	// DefaultClock is toggled when no clock name is given.
	DefaultClock string `yaml:"default_clock"`
	// MinInterval is the shortest in/out pair that is kept.
	MinInterval Duration `yaml:"min_interval"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
}

// Duration is a time.Duration read from a Go duration string such as "5m".
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

const (
	// DefaultClock is the clock name used when none is configured.
	DefaultClock = "main"
	// DefaultMinInterval is the short-interval collapse threshold.
	DefaultMinInterval = 5 * time.Minute
	// DefaultLogLevel keeps routine debug output off the terminal.
	DefaultLogLevel = "warn"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "TIMECLOCK_CONFIG"
)

// Default returns a Config pre-filled with the built-in defaults for home.
func Default(home string) Config {
	return Config{
		BaseDir:      filepath.Join(home, ".timeclock"),
		DefaultClock: DefaultClock,
		MinInterval:  Duration(DefaultMinInterval),
		LogLevel:     DefaultLogLevel,
		LogFormat:    "text",
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# timeclock configuration - ~/.timeclock/config.yaml
#
# All settings are optional; the defaults below are used for anything left out.

# Directory holding one timeclock_data_<name> directory per clock.
# Empty means ~/.timeclock.
base_dir: ""

# Clock toggled by a bare "timeclock" invocation.
default_clock: main

# In/out pairs shorter than this are dropped, so toggling twice just to see
# the report leaves no record.
min_interval: 5m

# Log level written to stderr: debug, info, warn or error.
log_level: warn

# Log format: text or json.
log_format: text
`

// FilePath returns the config path: $TIMECLOCK_CONFIG or
// ~/.timeclock/config.yaml.
func FilePath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timeclock", "config.yaml"), nil
}

// Load reads the config file, creating it with annotated defaults on first
// run.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	path, err := FilePath()
	if err != nil {
		return Default(home), err
	}
	return LoadFile(path, home)
}

// LoadFile reads the config at path. Zero-value fields fall back to the
// defaults for home. A missing file is created from the template.
func LoadFile(path, home string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(home), nil
	}
	if err != nil {
		return Default(home), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(home), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	cfg.fill(Default(home))
	if err := cfg.Validate(); err != nil {
		return Default(home), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fill(def Config) {
	if c.BaseDir == "" {
		c.BaseDir = def.BaseDir
	}
	if c.DefaultClock == "" {
		c.DefaultClock = def.DefaultClock
	}
	if c.MinInterval == 0 {
		c.MinInterval = def.MinInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
}

// Validate checks values that have no usable fallback.
func (c Config) Validate() error {
	if c.MinInterval < 0 {
		return fmt.Errorf("min_interval must not be negative, got %s", time.Duration(c.MinInterval))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
