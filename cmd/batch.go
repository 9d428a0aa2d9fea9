package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cache-sim/allocator"
	"github.com/inference-sim/cache-sim/allocator/trace"
	"github.com/inference-sim/cache-sim/submission"
	"github.com/inference-sim/cache-sim/topology"
)

// Instance describes one problem instance found in the input directory.
type Instance struct {
	Name       string // file name without the input extension
	InputPath  string
	OutputPath string
}

// InstanceResult is the outcome of solving one instance.
type InstanceResult struct {
	Instance Instance
	Score    submission.Score
	Trace    *trace.TraceSummary // nil unless tracing was on
	Elapsed  time.Duration
	Err      error
}

// DiscoverInstances lists the regular files in cfg.InputDir ending in
// cfg.InputExt, sorted by name.
func DiscoverInstances(cfg Config) ([]Instance, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	var instances []Instance
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), cfg.InputExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), cfg.InputExt)
		if name == "" {
			continue
		}
		instances = append(instances, Instance{
			Name:       name,
			InputPath:  filepath.Join(cfg.InputDir, entry.Name()),
			OutputPath: filepath.Join(cfg.OutputDir, name+cfg.OutputExt),
		})
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Name < instances[j].Name })
	return instances, nil
}

// RunBatch solves every instance independently. A failing instance is
// recorded in its result and does not stop the others.
func RunBatch(instances []Instance, cfg Config) []InstanceResult {
	results := make([]InstanceResult, 0, len(instances))
	for i, inst := range instances {
		logrus.Infof("Solving %s (%d/%d)", inst.InputPath, i+1, len(instances))
		start := time.Now()
		res := SolveInstance(inst, cfg)
		res.Elapsed = time.Since(start)
		if res.Err != nil {
			logrus.Errorf("%s: %v", inst.Name, res.Err)
		} else {
			logrus.Infof("%s: %s", inst.Name, res.Score)
		}
		results = append(results, res)
	}
	return results
}

// SolveInstance loads, allocates, scores and writes one instance. The trace,
// if enabled, is exported before the assignment; the assignment file is
// written only when every earlier step succeeded.
func SolveInstance(inst Instance, cfg Config) InstanceResult {
	res := InstanceResult{Instance: inst}

	topo, err := topology.Load(inst.InputPath)
	if err != nil {
		res.Err = err
		return res
	}

	var pt *trace.PlacementTrace
	if trace.TraceLevel(cfg.TraceLevel) == trace.TraceLevelDecisions {
		pt = trace.NewPlacementTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	}
	alloc, err := allocator.NewAllocator(cfg.Allocator, cfg.AllocatorOptions(pt))
	if err != nil {
		res.Err = err
		return res
	}
	a, err := alloc.Allocate(topo)
	if err != nil {
		res.Err = fmt.Errorf("allocating %s: %w", inst.InputPath, err)
		return res
	}
	res.Score = submission.Evaluate(topo, a)

	if pt != nil {
		header := &trace.TraceHeader{
			Version:         1,
			Instance:        inst.Name,
			Allocator:       alloc.Name(),
			ZeroSizePolicy:  cfg.ZeroSizePolicy,
			ZeroValuePolicy: cfg.ZeroValuePolicy,
			CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		}
		headerPath := filepath.Join(cfg.TraceDir, inst.Name+".trace.yaml")
		dataPath := filepath.Join(cfg.TraceDir, inst.Name+".trace.csv")
		if err := trace.Export(header, pt.Records, headerPath, dataPath); err != nil {
			res.Err = fmt.Errorf("exporting trace for %s: %w", inst.Name, err)
			return res
		}
		res.Trace = trace.Summarize(pt)
	}

	// The assignment goes last: a failed instance leaves no output file.
	if err := submission.WriteFile(inst.OutputPath, a); err != nil {
		res.Err = fmt.Errorf("writing %s: %w", inst.OutputPath, err)
	}
	return res
}

// PrintResults writes a per-instance report and returns the number of failures.
func PrintResults(w io.Writer, results []InstanceResult) int {
	failed := 0
	var total int64
	_, _ = fmt.Fprintln(w, "=== Placement Results ===")
	for _, r := range results {
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "%-24s FAILED: %v\n", r.Instance.Name, r.Err)
			continue
		}
		total += r.Score.Points
		_, _ = fmt.Fprintf(w, "%-24s points=%-12d videos=%-8d utilization=%6.2f%%  (%s)\n",
			r.Instance.Name, r.Score.Points, r.Score.PlacedVideos, r.Score.Utilization*100,
			r.Elapsed.Round(time.Millisecond))
		if r.Trace != nil {
			_, _ = fmt.Fprintf(w, "%-24s attempts=%d placed=%d no-capacity=%d already-cached=%d unreachable=%d\n",
				"", r.Trace.TotalAttempts, r.Trace.Placed, r.Trace.NoCapacity, r.Trace.AlreadyCached, r.Trace.Unreachable)
		}
	}
	_, _ = fmt.Fprintf(w, "Total points         : %d\n", total)
	_, _ = fmt.Fprintf(w, "Instances solved     : %d/%d\n", len(results)-failed, len(results))
	return failed
}
