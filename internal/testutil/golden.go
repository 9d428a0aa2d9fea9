// Package testutil provides shared test infrastructure for cache-sim.
// It consolidates the golden dataset types and assertion helpers used across
// the allocator, submission and cmd test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one instance with the assignment and score it must produce.
type GoldenTestCase struct {
	Name            string  `json:"name"`
	Input           string  `json:"input"`
	ZeroSizePolicy  string  `json:"zero_size_policy"`
	ZeroValuePolicy string  `json:"zero_value_policy"`
	Assignment      [][]int `json:"assignment"` // cache id → ascending video ids
	Points          int64   `json:"points"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", "golden.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// WriteInstances writes name → content files into a fresh temp directory
// and returns its path.
func WriteInstances(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}
