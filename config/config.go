// Package config provides simulator configuration loaded from TOML files.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the simulator configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles uint64 `toml:"max_cycles"`
		Base      string `toml:"base"`
		Entry     string `toml:"entry"`
	} `toml:"execution"`

	// Display settings
	Display struct {
		WordsPerLine  int `toml:"words_per_line"`
		DisasmContext int `toml:"disasm_context"`
	} `toml:"display"`

	// Dump settings
	Dump struct {
		Registers string `toml:"registers"`
		Memory    string `toml:"memory"`
	} `toml:"dump"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.Base = "0x400000"
	cfg.Execution.Entry = "0x400000"

	cfg.Display.WordsPerLine = 4
	cfg.Display.DisasmContext = 8

	return cfg
}

// Load reads a TOML configuration file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := ParseAddress(c.Execution.Base); err != nil {
		return fmt.Errorf("execution.base: %w", err)
	}
	if _, err := ParseAddress(c.Execution.Entry); err != nil {
		return fmt.Errorf("execution.entry: %w", err)
	}
	if c.Display.WordsPerLine < 1 {
		return fmt.Errorf("display.words_per_line must be at least 1")
	}
	return nil
}

// BaseAddress returns the parsed program base address.
func (c *Config) BaseAddress() uint64 {
	addr, _ := ParseAddress(c.Execution.Base)
	return addr
}

// EntryAddress returns the parsed entry point.
func (c *Config) EntryAddress() uint64 {
	addr, _ := ParseAddress(c.Execution.Entry)
	return addr
}

// ParseAddress parses an address written in hex (0x prefix) or decimal.
func ParseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		value, err := strconv.ParseUint(rest, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("bad hex address %q", s)
		}
		return value, nil
	}
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return value, nil
}
