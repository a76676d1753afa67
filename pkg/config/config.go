// Package config loads cexpr settings from a YAML file
package config

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	OutputTree = "tree"
	OutputC    = "c"
	OutputDot  = "dot"
)

// Config holds the settings a config file may provide. Zero values mean
// "not set" so command line flags can be layered on top.
type Config struct {
	// Requires is a semver constraint the running cexpr version must meet
	Requires string   `yaml:"requires,omitempty"`
	Typedefs []string `yaml:"typedefs,omitempty"`
	MaxDepth int      `yaml:"max_depth,omitempty"`
	Output   string   `yaml:"output,omitempty"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{MaxDepth: 256, Output: OutputTree}
}

// Load reads and validates the config file at path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values without looking at the running version
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	switch c.Output {
	case "", OutputTree, OutputC, OutputDot:
	default:
		return fmt.Errorf("unknown output %q (want tree, c or dot)", c.Output)
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("requires: %w", err)
		}
	}
	return nil
}

// CheckVersion reports an error if version does not satisfy Requires
func (c Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("requires: %w", err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("version %q: %w", version, err)
	}
	if ok, errs := constraint.Validate(v); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("cexpr %s does not satisfy %q: %w", version, c.Requires, errs[0])
		}
		return fmt.Errorf("cexpr %s does not satisfy %q", version, c.Requires)
	}
	return nil
}

// Merge returns c with every set field of o applied on top
func (c Config) Merge(o Config) Config {
	if o.Requires != "" {
		c.Requires = o.Requires
	}
	if len(o.Typedefs) > 0 {
		c.Typedefs = append(append([]string(nil), c.Typedefs...), o.Typedefs...)
	}
	if o.MaxDepth > 0 {
		c.MaxDepth = o.MaxDepth
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	return c
}
