// File: internal/config/config.go

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServiceURL = "http://localhost:9527"
	DefaultIDE        = "zed"
	DefaultTimeout    = Duration(60 * time.Second)
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// getConfigPath resolves the config file location. Tests replace it.
var getConfigPath = getDesktopConfigPath

// Config holds the bridge configuration
type Config struct {
	// Base address of the helper service
	ServiceURL string `json:"service_url" yaml:"service_url"`

	// Caller identity sent with every request
	IDE string `json:"ide" yaml:"ide"`

	// Upper bound on one round trip to the helper
	Timeout Duration `json:"timeout" yaml:"timeout"`

	// Logging configuration
	Log LogConfig `json:"log" yaml:"log"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "json" or "console"
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServiceURL: DefaultServiceURL,
		IDE:        DefaultIDE,
		Timeout:    DefaultTimeout,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads the configuration from configPath, or from the active config
// path when configPath is empty. A missing file yields the defaults; nothing
// is written.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = GetActiveConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration can drive a forwarder.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.ServiceURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("invalid service_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("invalid service_url %q: scheme must be http or https", c.ServiceURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("invalid service_url %q: missing host", c.ServiceURL))
	}

	if strings.TrimSpace(c.IDE) == "" {
		errs = append(errs, errors.New("ide must not be empty"))
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("invalid log level: %w", err))
		}
	}

	switch c.Log.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be json or console", c.Log.Format))
	}

	return errors.Join(errs...)
}

// GetActiveConfigPath returns the path to the currently active config
func GetActiveConfigPath() (string, error) {
	path, err := getConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) error {
	if val := os.Getenv("LINKFORWARD_SERVICE_URL"); val != "" {
		config.ServiceURL = val
	}
	if val := os.Getenv("LINKFORWARD_IDE"); val != "" {
		config.IDE = val
	}
	if val := os.Getenv("LINKFORWARD_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid LINKFORWARD_TIMEOUT: %w", err)
		}
		config.Timeout = Duration(d)
	}
	if val := os.Getenv("LINKFORWARD_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	return nil
}

// Duration is a time.Duration that reads and writes as "60s" in both YAML
// and JSON.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}
