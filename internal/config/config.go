// Package config loads, validates and persists pipesctl configuration from
// $PIPESCTL_HOME/config.yaml, with environment overrides and an optional
// project-local overlay.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvHome       = "PIPESCTL_HOME"
	EnvProjectDir = "PIPESCTL_PROJECT_DIR"
	EnvOutput     = "PIPESCTL_OUTPUT"
	EnvLogLevel   = "PIPESCTL_LOG_LEVEL"
	EnvLogFormat  = "PIPESCTL_LOG_FORMAT"
	EnvRegion     = "PIPESCTL_REGION"
	EnvNoHistory  = "PIPESCTL_NO_HISTORY"
)

// Defaults.
const (
	DefaultOutputFormat      = "text"
	DefaultLogLevel          = "warn"
	DefaultLogFormat         = "console"
	DefaultHistoryTTLSeconds = 7 * 24 * 60 * 60
	DefaultHistoryMaxEntries = 200
	configFileName           = "config.yaml"
)

// OutputFormats lists the accepted --output values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var OutputFormats = []string{"text", "json", "yaml", "ndjson", "table"}

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidHistoryTTL   = errors.New("history ttl_seconds must be positive")
	ErrInvalidHistoryMax   = errors.New("history max_entries must be positive")
)

// AWSConfig holds defaults for the AWS client.
type AWSConfig struct {
	Region      string `yaml:"region,omitempty"`
	Profile     string `yaml:"profile,omitempty"`
	EndpointURL string `yaml:"endpoint_url,omitempty"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// AuditConfig controls the audit log of state-changing commands.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string      `yaml:"level"`
	Format string      `yaml:"format"`
	File   string      `yaml:"file,omitempty"`
	Audit  AuditConfig `yaml:"audit"`
}

// HistoryConfig controls the invocation history store.
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
	MaxEntries int  `yaml:"max_entries"`
}

// Config is the full pipesctl configuration.
type Config struct {
	AWS     AWSConfig     `yaml:"aws"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`

	configPath string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		History: HistoryConfig{
			Enabled:    true,
			TTLSeconds: DefaultHistoryTTLSeconds,
			MaxEntries: DefaultHistoryMaxEntries,
		},
	}
}

// New returns the configuration from the global config file merged over the
// defaults, with environment overrides applied. A missing or unreadable file
// leaves the defaults in place.
func New() *Config {
	cfg := Default()

	dir, err := GetConfigDir()
	if err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		_ = cfg.Load()
	}

	cfg.ApplyEnv()
	return cfg
}

// GlobalConfigPath returns the path of the global config file.
func GlobalConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadGlobal returns the defaults overlaid with the global config file,
// without environment overrides. Commands that rewrite the file start here.
func LoadGlobal() (*Config, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.configPath = path
	if err = cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Load and Save use.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Load reads the config file over the current values. A missing file is not
// an error.
func (c *Config) Load() error {
	if c.configPath == "" {
		return nil
	}

	data, err := os.ReadFile(c.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", c.configPath, err)
	}

	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", c.configPath, err)
	}
	return nil
}

// Save writes the configuration to its config path.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// ApplyEnv applies PIPESCTL_* environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvRegion); v != "" {
		c.AWS.Region = v
	}
	if v := os.Getenv(EnvNoHistory); v != "" {
		if disabled, err := strconv.ParseBool(v); err == nil && disabled {
			c.History.Enabled = false
		}
	}
}

// Validate checks the configuration for semantic errors.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.Output.DefaultFormat) {
		return fmt.Errorf("%w %q (one of: %s)", ErrInvalidOutputFormat,
			c.Output.DefaultFormat, strings.Join(OutputFormats, ", "))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	if c.History.TTLSeconds <= 0 {
		return ErrInvalidHistoryTTL
	}
	if c.History.MaxEntries <= 0 {
		return ErrInvalidHistoryMax
	}
	return nil
}
