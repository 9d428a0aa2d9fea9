package trace

// TraceSummary aggregates statistics from a PlacementTrace.
type TraceSummary struct {
	TotalAttempts      int
	Placed             int
	NoCapacity         int
	AlreadyCached      int
	Unreachable        int
	DistinctValues     int
	PlacementsPerCache map[int]int // cache id → number of videos placed
}

// Summarize computes aggregate statistics from a PlacementTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(pt *PlacementTrace) *TraceSummary {
	summary := &TraceSummary{
		PlacementsPerCache: make(map[int]int),
	}
	if pt == nil {
		return summary
	}

	summary.TotalAttempts = len(pt.Records)
	values := make(map[float64]struct{})
	for _, r := range pt.Records {
		values[r.Value] = struct{}{}
		switch r.Outcome {
		case OutcomePlaced:
			summary.Placed++
			summary.PlacementsPerCache[r.Cache]++
		case OutcomeNoCapacity:
			summary.NoCapacity++
		case OutcomeAlreadyCached:
			summary.AlreadyCached++
		case OutcomeUnreachable:
			summary.Unreachable++
		}
	}
	summary.DistinctValues = len(values)

	return summary
}
