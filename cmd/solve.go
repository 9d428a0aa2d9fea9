package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath      string // Path to cache-sim.yaml
	inputDir        string // Directory scanned for instances
	outputDir       string // Directory receiving assignments
	inputExt        string // Instance file extension
	outputExt       string // Assignment file extension
	allocatorName   string // Allocator implementation
	zeroSizePolicy  string // How zero-size videos are scored
	zeroValuePolicy string // Whether value-0 pairs are attempted
	traceLevel      string // Placement trace verbosity
	traceDir        string // Directory receiving placement traces
)

// solveCmd processes every instance found in the input directory
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute cache assignments for every instance in a directory",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			logrus.Fatalf("Creating output directory: %v", err)
		}
		if err := os.MkdirAll(cfg.TraceDir, 0755); err != nil {
			logrus.Fatalf("Creating trace directory: %v", err)
		}

		instances, err := DiscoverInstances(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if len(instances) == 0 {
			logrus.Warnf("No *%s instances found in %s", cfg.InputExt, cfg.InputDir)
			return
		}
		logrus.Infof("Found %d instances in %s (allocator=%s, zero-size=%s, zero-value=%s)",
			len(instances), cfg.InputDir, cfg.Allocator, cfg.ZeroSizePolicy, cfg.ZeroValuePolicy)

		results := RunBatch(instances, cfg)
		if failed := PrintResults(os.Stdout, results); failed > 0 {
			logrus.Fatalf("%d of %d instances failed", failed, len(results))
		}
	},
}

// resolveConfig layers the config file (if any) under explicitly set flags.
// Flags only override when the user changed them.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	overrides := []struct {
		flag  string
		value string
		dst   *string
	}{
		{"input-dir", inputDir, &cfg.InputDir},
		{"output-dir", outputDir, &cfg.OutputDir},
		{"input-ext", inputExt, &cfg.InputExt},
		{"output-ext", outputExt, &cfg.OutputExt},
		{"allocator", allocatorName, &cfg.Allocator},
		{"zero-size", zeroSizePolicy, &cfg.ZeroSizePolicy},
		{"zero-value", zeroValuePolicy, &cfg.ZeroValuePolicy},
		{"trace", traceLevel, &cfg.TraceLevel},
		{"trace-dir", traceDir, &cfg.TraceDir},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.value
		}
	}

	err := cfg.Validate()
	return cfg, err
}

func init() {
	defaults := DefaultConfig()
	solveCmd.Flags().StringVar(&configPath, "config", "", "Path to a cache-sim YAML config file")
	solveCmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory containing instance files")
	solveCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for assignment files (default: input dir)")
	solveCmd.Flags().StringVar(&inputExt, "input-ext", defaults.InputExt, "Instance file extension")
	solveCmd.Flags().StringVar(&outputExt, "output-ext", defaults.OutputExt, "Assignment file extension")
	solveCmd.Flags().StringVar(&allocatorName, "allocator", defaults.Allocator, "Allocator (greedy-by-value)")
	solveCmd.Flags().StringVar(&zeroSizePolicy, "zero-size", defaults.ZeroSizePolicy, "Zero-size video policy (reject, free)")
	solveCmd.Flags().StringVar(&zeroValuePolicy, "zero-value", defaults.ZeroValuePolicy, "Zero-value pair policy (place, skip)")
	solveCmd.Flags().StringVar(&traceLevel, "trace", defaults.TraceLevel, "Placement trace level (none, decisions)")
	solveCmd.Flags().StringVar(&traceDir, "trace-dir", "", "Directory for placement traces (default: output dir)")

	rootCmd.AddCommand(solveCmd)
}
