// Package config provides configuration loading and validation for the CLI
// and the HTTP service.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/a11y-checker/internal/accessibility"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 8080
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultMaxBodyBytes = int64(2 << 20)
	DefaultFormat       = "json"
	DefaultConcurrency  = 4
	DefaultFetchTimeout = "30s"
)

// Config can be loaded from a JSON or YAML file. All fields are optional;
// missing values come from Defaults or CLI flags.
type Config struct {
	// Service
	Port         int    `json:"port,omitempty" yaml:"port,omitempty"`
	LogLevel     string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat    string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or text
	MaxBodyBytes int64  `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty"`

	// Analysis
	MinScore      int      `json:"min_score,omitempty" yaml:"min_score,omitempty"` // Fail CLI runs below this score
	DisabledRules []string `json:"disabled_rules,omitempty" yaml:"disabled_rules,omitempty"`

	// CLI
	Format       string `json:"format,omitempty" yaml:"format,omitempty"` // json or text
	Concurrency  int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	FetchTimeout string `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty"` // Go duration, e.g. "30s"
}

// Error reports an invalid configuration value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:         DefaultPort,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Format:       DefaultFormat,
		Concurrency:  DefaultConcurrency,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load returns defaults, overlaid by the file at path (if any), overlaid by
// the environment, and validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with PORT, LOG_LEVEL, LOG_FORMAT, MAX_BODY_BYTES
// and MIN_SCORE when they are set.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Field: "PORT", Message: fmt.Sprintf("must be an integer, got %q", v)}
		}
		c.Port = port
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := os.LookupEnv("MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &Error{Field: "MAX_BODY_BYTES", Message: fmt.Sprintf("must be an integer, got %q", v)}
		}
		c.MaxBodyBytes = n
	}
	if v, ok := os.LookupEnv("MIN_SCORE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Field: "MIN_SCORE", Message: fmt.Sprintf("must be an integer, got %q", v)}
		}
		c.MinScore = n
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Zero values are accepted since MergeWithDefaults fills them in.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return &Error{Field: "port", Message: "must be between 0 and 65535"}
	}
	if c.LogLevel != "" {
		if _, err := ParseLogLevel(c.LogLevel); err != nil {
			return &Error{Field: "log_level", Message: err.Error()}
		}
	}
	switch c.LogFormat {
	case "", "json", "text":
	default:
		return &Error{Field: "log_format", Message: "must be 'json' or 'text'"}
	}
	if c.MaxBodyBytes < 0 {
		return &Error{Field: "max_body_bytes", Message: "must be non-negative"}
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return &Error{Field: "min_score", Message: "must be between 0 and 100"}
	}
	for _, category := range c.DisabledRules {
		if !accessibility.IsKnownCategory(category) {
			return &Error{Field: "disabled_rules", Message: fmt.Sprintf("unknown rule %q", category)}
		}
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return &Error{Field: "format", Message: "must be 'json' or 'text'"}
	}
	if c.Concurrency < 0 {
		return &Error{Field: "concurrency", Message: "must be non-negative"}
	}
	if c.FetchTimeout != "" {
		if d, err := time.ParseDuration(c.FetchTimeout); err != nil || d <= 0 {
			return &Error{Field: "fetch_timeout", Message: fmt.Sprintf("must be a positive duration, got %q", c.FetchTimeout)}
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.MaxBodyBytes == 0 {
		result.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}
	if len(result.DisabledRules) == 0 {
		result.DisabledRules = defaults.DisabledRules
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.FetchTimeout == "" {
		result.FetchTimeout = defaults.FetchTimeout
	}

	return result
}

// FetchTimeoutDuration returns the parsed fetch timeout, or the default when
// the field is empty or invalid.
func (c *Config) FetchTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.FetchTimeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultFetchTimeout)
	return d
}

// ParseLogLevel maps a level name to its slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds the process logger described by the configuration.
func (c *Config) NewLogger() *slog.Logger {
	level, _ := ParseLogLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
