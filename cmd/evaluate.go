package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cache-sim/submission"
	"github.com/inference-sim/cache-sim/topology"
)

var (
	evalInputPath  string
	evalOutputPath string
)

// evaluateCmd scores an existing assignment file against its instance
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Validate and score an assignment file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := evaluate(os.Stdout, evalInputPath, evalOutputPath); err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
	},
}

func evaluate(w io.Writer, inputPath, outputPath string) error {
	topo, err := topology.Load(inputPath)
	if err != nil {
		return err
	}
	a, err := submission.ParseFile(outputPath, topo)
	if err != nil {
		return err
	}
	s := submission.Evaluate(topo, a)
	_, _ = fmt.Fprintln(w, "=== Assignment Score ===")
	_, _ = fmt.Fprintf(w, "Points               : %d\n", s.Points)
	_, _ = fmt.Fprintf(w, "Saved latency        : %d\n", s.SavedLatency)
	_, _ = fmt.Fprintf(w, "Total requests       : %d\n", s.TotalRequests)
	_, _ = fmt.Fprintf(w, "Placed videos        : %d\n", s.PlacedVideos)
	_, _ = fmt.Fprintf(w, "Cache utilization    : %.2f%%\n", s.Utilization*100)
	return nil
}

func init() {
	evaluateCmd.Flags().StringVar(&evalInputPath, "input", "", "Path to the instance file")
	evaluateCmd.Flags().StringVar(&evalOutputPath, "output", "", "Path to the assignment file")
	_ = evaluateCmd.MarkFlagRequired("input")
	_ = evaluateCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(evaluateCmd)
}
