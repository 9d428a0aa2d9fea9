// Package trace records the placement decisions made by an allocator pass.
// This package has no dependencies on allocator/ or topology/; it stores pure data types.
package trace

// Outcome is the result of one (endpoint, video) placement attempt.
type Outcome string

const (
	// OutcomePlaced means the video was committed to Cache.
	OutcomePlaced Outcome = "placed"
	// OutcomeNoCapacity means some reachable cache lacked the video but none had room.
	OutcomeNoCapacity Outcome = "no-capacity"
	// OutcomeAlreadyCached means every reachable cache already held the video.
	OutcomeAlreadyCached Outcome = "already-cached"
	// OutcomeUnreachable means the endpoint has no connected cache.
	OutcomeUnreachable Outcome = "unreachable"
)

var validOutcomes = map[Outcome]bool{
	OutcomePlaced:        true,
	OutcomeNoCapacity:    true,
	OutcomeAlreadyCached: true,
	OutcomeUnreachable:   true,
}

// NoCache is the Cache of a record whose outcome is not OutcomePlaced.
const NoCache = -1

// PlacementRecord captures a single placement attempt in processing order.
type PlacementRecord struct {
	Sequence int // 0-based position in the pass
	Value    float64
	Endpoint int
	Video    int
	Cache    int // NoCache unless placed
	Outcome  Outcome
}
