// Package config handles dartino.toml tool configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"dartino/pkg/stack"
)

// DefaultStackCapacity is used when no configuration file is present.
const DefaultStackCapacity = 1024

// Config is the parsed dartino.toml.
type Config struct {
	Stack     StackConfig     `toml:"stack"`
	Log       LogConfig       `toml:"log"`
	Functions []FunctionRange `toml:"functions"`
}

// StackConfig sizes the process stack.
type StackConfig struct {
	Capacity int `toml:"capacity"`
}

// LogConfig configures the VM print interceptor.
type LogConfig struct {
	Path string `toml:"path"`
}

// FunctionRange maps a function name to its bytecode address range,
// used to symbolize stack dumps.
type FunctionRange struct {
	Name  string `toml:"name"`
	Start int    `toml:"start"`
	End   int    `toml:"end"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Stack: StackConfig{Capacity: DefaultStackCapacity}}
}

// Load parses a dartino.toml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Stack.Capacity <= 0 {
		return fmt.Errorf("stack capacity must be positive, got %d", c.Stack.Capacity)
	}
	for _, f := range c.Functions {
		if f.Name == "" {
			return fmt.Errorf("function range [%d,%d) has no name", f.Start, f.End)
		}
		if f.End <= f.Start {
			return fmt.Errorf("function %s has empty range [%d,%d)", f.Name, f.Start, f.End)
		}
	}
	return nil
}

// RangeTable builds the function resolver described by the config.
// Returns nil when no function ranges are declared.
func (c *Config) RangeTable() *stack.RangeTable {
	if len(c.Functions) == 0 {
		return nil
	}
	funcs := make([]stack.Function, len(c.Functions))
	for i, f := range c.Functions {
		funcs[i] = stack.Function{Name: f.Name, Start: f.Start, End: f.End}
	}
	return stack.NewRangeTable(funcs...)
}
