// Package config loads the snpe-dlc configuration file.
package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/snpe-runtime/runtime"
)

// Config is the YAML structure of the configuration file.
type Config struct {
	// Library is the SDK shared library path. Empty means the
	// SNPE_LIBRARY_PATH variable or the platform default.
	Library string `yaml:"library"`
	Log     Log    `yaml:"log"`
	// MinSDKVersion, when set, is the oldest SDK version accepted.
	MinSDKVersion string `yaml:"min_sdk_version"`
	// Devices restricts which devices are reported. Empty means all.
	Devices []string `yaml:"devices"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: Log{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}

// Load reads and validates the file at path. Keys missing from the file
// keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("log.format: %q is not one of %s, %s", c.Log.Format, FormatConsole, FormatJSON)
	}
	if c.MinSDKVersion != "" {
		if _, err := runtime.ParseVersion(c.MinSDKVersion); err != nil {
			return fmt.Errorf("min_sdk_version: %w", err)
		}
	}
	if _, err := c.DeviceFilter(); err != nil {
		return fmt.Errorf("devices: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// DeviceFilter resolves Devices. A nil result means no restriction.
func (c Config) DeviceFilter() (map[runtime.DeviceKind]bool, error) {
	if len(c.Devices) == 0 {
		return nil, nil
	}
	out := make(map[runtime.DeviceKind]bool, len(c.Devices))
	for _, name := range c.Devices {
		d, err := runtime.ParseDevice(name)
		if err != nil {
			return nil, err
		}
		out[d.Kind] = true
	}
	return out, nil
}
