package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML files can use Go duration
// syntax ("500ms") instead of raw nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the remwire configuration, loadable from a YAML file
// and overridable by flags.
type Config struct {
	// Transport selects the stream kind: "serial" or "tcp".
	Transport string `yaml:"transport"`

	// Serial transport settings.
	Device      string   `yaml:"device"`
	Baud        int      `yaml:"baud"`
	ReadTimeout Duration `yaml:"read_timeout"`

	// TCP transport settings.
	Address string `yaml:"address"`

	// TraceFile enables CBOR session tracing when non-empty.
	TraceFile string `yaml:"trace_file"`

	// Interface restricts mDNS discovery to one network interface.
	Interface string `yaml:"interface"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Transport: "serial",
		Baud:      57600,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Transport {
	case "serial":
		if c.Device == "" {
			return fmt.Errorf("serial transport requires a device path")
		}
	case "tcp":
		if c.Address == "" {
			return fmt.Errorf("tcp transport requires an address")
		}
	default:
		return fmt.Errorf("unknown transport %q (want serial or tcp)", c.Transport)
	}
	return nil
}
