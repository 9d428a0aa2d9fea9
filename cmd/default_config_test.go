package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache-sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
input_dir: data
zero_value_policy: skip
trace_level: decisions
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.InputDir)
	assert.Equal(t, "skip", cfg.ZeroValuePolicy)
	assert.Equal(t, "decisions", cfg.TraceLevel)
	// untouched keys keep their defaults
	assert.Equal(t, ".in", cfg.InputExt)
	assert.Equal(t, ".out", cfg.OutputExt)
	assert.Equal(t, "reject", cfg.ZeroSizePolicy)
	assert.Equal(t, "greedy-by-value", cfg.Allocator)
}

func TestLoadConfig_UnknownKey_ReturnsError(t *testing.T) {
	path := writeConfig(t, "input_dir: data\nzero_valu_policy: skip\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate_FillsDirectoryDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputDir = "data"

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data", cfg.OutputDir)
	assert.Equal(t, "data", cfg.TraceDir)
}

func TestConfigValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input dir", func(c *Config) { c.InputDir = "" }},
		{"empty extension", func(c *Config) { c.OutputExt = "" }},
		{"output overwrites input", func(c *Config) { c.OutputExt = ".in" }},
		{"unknown allocator", func(c *Config) { c.Allocator = "random" }},
		{"unknown zero-size policy", func(c *Config) { c.ZeroSizePolicy = "ignore" }},
		{"unknown zero-value policy", func(c *Config) { c.ZeroValuePolicy = "sometimes" }},
		{"unknown trace level", func(c *Config) { c.TraceLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.InputDir = "data"
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidate_SameExtensionInOtherDirectory_Allowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputDir = "data"
	cfg.OutputDir = "solutions"
	cfg.OutputExt = ".in"
	assert.NoError(t, cfg.Validate())
}

func TestResolveConfig_ChangedFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "input_dir: from-file\nzero_value_policy: skip\nzero_size_policy: free\n")
	configPath = path
	t.Cleanup(func() {
		configPath = ""
		_ = solveCmd.Flags().Set("zero-value", "place")
		solveCmd.Flags().Lookup("zero-value").Changed = false
	})

	// WHEN only --zero-value is set on the command line
	require.NoError(t, solveCmd.Flags().Set("zero-value", "place"))
	cfg, err := resolveConfig(solveCmd)
	require.NoError(t, err)

	// THEN the flag wins and unchanged flags do not clobber the file
	assert.Equal(t, "place", cfg.ZeroValuePolicy)
	assert.Equal(t, "free", cfg.ZeroSizePolicy)
	assert.Equal(t, "from-file", cfg.InputDir)
	assert.Equal(t, "from-file", cfg.OutputDir)
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("warn"))
	assert.Error(t, setupLogging("loud"))
}
