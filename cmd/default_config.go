package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cache-sim/allocator"
	"github.com/inference-sim/cache-sim/allocator/trace"
)

// Config represents the cache-sim.yaml structure.
// All keys must be listed to satisfy KnownFields(true) strict parsing: typos must cause errors.
type Config struct {
	InputDir        string `yaml:"input_dir"`
	OutputDir       string `yaml:"output_dir"`        // defaults to InputDir
	InputExt        string `yaml:"input_ext"`         // default ".in"
	OutputExt       string `yaml:"output_ext"`        // default ".out"
	Allocator       string `yaml:"allocator"`         // "greedy-by-value" (default)
	ZeroSizePolicy  string `yaml:"zero_size_policy"`  // "reject" (default) or "free"
	ZeroValuePolicy string `yaml:"zero_value_policy"` // "place" (default) or "skip"
	TraceLevel      string `yaml:"trace_level"`       // "none" (default) or "decisions"
	TraceDir        string `yaml:"trace_dir"`         // defaults to OutputDir
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		InputExt:        ".in",
		OutputExt:       ".out",
		Allocator:       allocator.GreedyByValueName,
		ZeroSizePolicy:  string(allocator.ZeroSizeReject),
		ZeroValuePolicy: string(allocator.ZeroValuePlace),
		TraceLevel:      string(trace.TraceLevelNone),
	}
}

// LoadConfig parses a YAML config file on top of DefaultConfig.
// Uses strict field checking.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks names and fills the directory defaults.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir must be set")
	}
	if c.InputExt == "" || c.OutputExt == "" {
		return fmt.Errorf("input_ext and output_ext must be non-empty")
	}
	if c.InputExt == c.OutputExt && (c.OutputDir == "" || c.OutputDir == c.InputDir) {
		return fmt.Errorf("output_ext %q would overwrite inputs in %s", c.OutputExt, c.InputDir)
	}
	if !allocator.ValidAllocators[c.Allocator] {
		return fmt.Errorf("unknown allocator %q", c.Allocator)
	}
	if err := c.AllocatorOptions(nil).Validate(); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("unknown trace level %q; valid: none, decisions", c.TraceLevel)
	}
	if c.OutputDir == "" {
		c.OutputDir = c.InputDir
	}
	if c.TraceDir == "" {
		c.TraceDir = c.OutputDir
	}
	return nil
}

// AllocatorOptions builds allocator options with the given trace sink.
func (c *Config) AllocatorOptions(pt *trace.PlacementTrace) allocator.Options {
	return allocator.Options{
		ZeroSize:  allocator.ZeroSizePolicy(c.ZeroSizePolicy),
		ZeroValue: allocator.ZeroValuePolicy(c.ZeroValuePolicy),
		Trace:     pt,
	}
}
