// Package config loads the kernel's boot-time configuration: platform
// selection, log level, and the machine-word width that bounds the
// interrupt/exception index space (spec.md §3).
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Platform selects the interrupt-controller wiring (spec.md §6). It does
// not change Event Manager semantics, only which HAL implementation is
// constructed.
type Platform string

const (
	PlatformPC      Platform = "pc"
	PlatformMicroVM Platform = "microvm"
)

// UnmarshalYAML normalizes and validates the platform string at parse
// time, the way agent/internal/config.Severity does in the reference
// corpus.
func (p *Platform) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	normalized := Platform(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case PlatformPC, PlatformMicroVM:
		*p = normalized
		return nil
	default:
		return fmt.Errorf("invalid platform %q: must be one of pc, microvm", raw)
	}
}

// Config is the kernel's boot-time configuration.
type Config struct {
	Platform       Platform `yaml:"platform"`
	LogLevel       string   `yaml:"log_level"`
	WordWidth      int      `yaml:"word_width"`
	ProcessTableSz int      `yaml:"process_table_size"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Platform:       PlatformPC,
		LogLevel:       "info",
		WordWidth:      32,
		ProcessTableSz: 256,
	}
}

// Load reads and validates a YAML configuration file, starting from
// Default() and overriding whatever fields the file sets.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the Event Manager relies on: a positive
// word width bounding the interrupt/exception index space.
func (c Config) Validate() error {
	if c.WordWidth <= 0 || c.WordWidth > 64 {
		return fmt.Errorf("word_width must be in (0, 64], got %d", c.WordWidth)
	}
	if c.ProcessTableSz <= 0 {
		return fmt.Errorf("process_table_size must be positive, got %d", c.ProcessTableSz)
	}
	return nil
}
