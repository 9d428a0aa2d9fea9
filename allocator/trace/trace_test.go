package trace

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestPlacementTrace_Record_AssignsSequence(t *testing.T) {
	// GIVEN a trace configured for decisions
	pt := NewPlacementTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN two records are recorded
	pt.Record(PlacementRecord{Value: 3, Endpoint: 0, Video: 1, Cache: 2, Outcome: OutcomePlaced})
	pt.Record(PlacementRecord{Value: 1, Endpoint: 1, Video: 0, Cache: NoCache, Outcome: OutcomeNoCapacity})

	// THEN order is preserved and sequence numbers follow it
	if len(pt.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(pt.Records))
	}
	for i, r := range pt.Records {
		if r.Sequence != i {
			t.Errorf("record %d has sequence %d", i, r.Sequence)
		}
	}
	if pt.Records[0].Video != 1 || pt.Records[1].Endpoint != 1 {
		t.Error("record order not preserved")
	}
}

func TestPlacementTrace_Enabled(t *testing.T) {
	var nilTrace *PlacementTrace
	if nilTrace.Enabled() {
		t.Error("nil trace must report disabled")
	}
	if NewPlacementTrace(TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("level none must report disabled")
	}
	if !NewPlacementTrace(TraceConfig{Level: TraceLevelDecisions}).Enabled() {
		t.Error("level decisions must report enabled")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"decisions", true},
		{"", true}, // empty defaults to none
		{"verbose", false},
		{"DECISIONS", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalAttempts != 0 || summary.Placed != 0 || summary.DistinctValues != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if summary.PlacementsPerCache == nil {
		t.Error("expected non-nil placements map")
	}
}

func TestSummarize_MixedOutcomes_CorrectCounts(t *testing.T) {
	// GIVEN a trace with every outcome kind
	pt := NewPlacementTrace(TraceConfig{Level: TraceLevelDecisions})
	pt.Record(PlacementRecord{Value: 5, Endpoint: 0, Video: 0, Cache: 0, Outcome: OutcomePlaced})
	pt.Record(PlacementRecord{Value: 5, Endpoint: 1, Video: 0, Cache: 1, Outcome: OutcomePlaced})
	pt.Record(PlacementRecord{Value: 2, Endpoint: 0, Video: 1, Cache: 0, Outcome: OutcomePlaced})
	pt.Record(PlacementRecord{Value: 2, Endpoint: 0, Video: 2, Cache: NoCache, Outcome: OutcomeNoCapacity})
	pt.Record(PlacementRecord{Value: 0, Endpoint: 0, Video: 0, Cache: NoCache, Outcome: OutcomeAlreadyCached})
	pt.Record(PlacementRecord{Value: 0, Endpoint: 2, Video: 0, Cache: NoCache, Outcome: OutcomeUnreachable})

	// WHEN summarized
	summary := Summarize(pt)

	// THEN counts match
	if summary.TotalAttempts != 6 {
		t.Errorf("expected 6 attempts, got %d", summary.TotalAttempts)
	}
	if summary.Placed != 3 || summary.NoCapacity != 1 || summary.AlreadyCached != 1 || summary.Unreachable != 1 {
		t.Errorf("outcome counts mismatch: %+v", summary)
	}
	if summary.DistinctValues != 3 {
		t.Errorf("expected 3 distinct values, got %d", summary.DistinctValues)
	}
	if summary.PlacementsPerCache[0] != 2 || summary.PlacementsPerCache[1] != 1 {
		t.Errorf("per-cache placements mismatch: %v", summary.PlacementsPerCache)
	}
}

func TestExportLoad_RoundTripsRecordsAndHeader(t *testing.T) {
	// GIVEN a header and records including an infinite value
	header := &TraceHeader{Version: 1, Instance: "me_at_the_zoo", Allocator: "greedy-by-value",
		ZeroSizePolicy: "free", ZeroValuePolicy: "place"}
	records := []PlacementRecord{
		{Sequence: 0, Value: math.Inf(1), Endpoint: 0, Video: 3, Cache: 0, Outcome: OutcomePlaced},
		{Sequence: 1, Value: 3636.3636363636365, Endpoint: 0, Video: 4, Cache: NoCache, Outcome: OutcomeNoCapacity},
	}
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "trace.yaml")
	dataPath := filepath.Join(dir, "trace.csv")

	// WHEN exported and loaded back
	if err := Export(header, records, headerPath, dataPath); err != nil {
		t.Fatal(err)
	}
	tf, err := Load(headerPath, dataPath)
	if err != nil {
		t.Fatal(err)
	}

	// THEN both halves survive
	if tf.Header != *header {
		t.Errorf("header = %+v, want %+v", tf.Header, *header)
	}
	if len(tf.Records) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(tf.Records))
	}
	for i := range records {
		if tf.Records[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i, tf.Records[i], records[i])
		}
	}
}

func TestExport_HeaderUnwritable_LeavesNoDataFile(t *testing.T) {
	// GIVEN a header path whose directory does not exist
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "missing", "trace.yaml")
	dataPath := filepath.Join(dir, "trace.csv")
	records := []PlacementRecord{{Sequence: 0, Value: 1, Cache: 0, Outcome: OutcomePlaced}}

	// WHEN exported
	err := Export(&TraceHeader{Version: 1}, records, headerPath, dataPath)

	// THEN the export fails and no half of the pair is left behind
	if err == nil {
		t.Fatal("expected error for unwritable header path")
	}
	if _, statErr := os.Stat(dataPath); !os.IsNotExist(statErr) {
		t.Errorf("data file left behind after failed export: %v", statErr)
	}
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestLoad_UnknownHeaderKey_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "trace.yaml")
	dataPath := filepath.Join(dir, "trace.csv")
	if err := os.WriteFile(headerPath, []byte("trace_version: 1\nallocatr: greedy\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dataPath, []byte("sequence,value,endpoint,video,cache,outcome\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(headerPath, dataPath); err == nil {
		t.Error("expected error for unknown header key")
	}
}

func TestLoad_UnknownOutcome_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "trace.yaml")
	dataPath := filepath.Join(dir, "trace.csv")
	if err := os.WriteFile(headerPath, []byte("trace_version: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dataPath, []byte("sequence,value,endpoint,video,cache,outcome\n0,1,0,0,0,evicted\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(headerPath, dataPath); err == nil {
		t.Error("expected error for unknown outcome")
	}
}
