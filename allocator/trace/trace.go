package trace

// TraceLevel controls the verbosity of placement tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every placement attempt.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// PlacementTrace collects placement records during one allocation pass.
type PlacementTrace struct {
	Config  TraceConfig
	Records []PlacementRecord
}

// NewPlacementTrace creates a PlacementTrace ready for recording.
func NewPlacementTrace(config TraceConfig) *PlacementTrace {
	return &PlacementTrace{
		Config:  config,
		Records: make([]PlacementRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on nil.
func (pt *PlacementTrace) Enabled() bool {
	return pt != nil && pt.Config.Level == TraceLevelDecisions
}

// Record appends a placement record, assigning its sequence number.
func (pt *PlacementTrace) Record(record PlacementRecord) {
	record.Sequence = len(pt.Records)
	pt.Records = append(pt.Records, record)
}
