// Package allocator assigns videos to caches. The only implementation is a
// value-based greedy pass: every (endpoint, video) pair is scored, the pairs
// are processed from the highest value down, and each pair is placed on the
// first reachable cache that lacks the video and still has room.
package allocator

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cache-sim/allocator/trace"
	"github.com/inference-sim/cache-sim/topology"
)

// Allocator computes an assignment for one topology.
type Allocator interface {
	Name() string
	Allocate(t *topology.Topology) (*Assignment, error)
}

// GreedyByValueName identifies the greedy-by-value allocator.
const GreedyByValueName = "greedy-by-value"

// ValidAllocators is the set of recognized allocator names.
var ValidAllocators = map[string]bool{"": true, GreedyByValueName: true}

// NewAllocator creates an allocator by name. An empty name selects greedy-by-value.
func NewAllocator(name string, opts Options) (Allocator, error) {
	if !ValidAllocators[name] {
		return nil, fmt.Errorf("unknown allocator %q; valid: %s", name, GreedyByValueName)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return NewGreedy(opts), nil
}

// Greedy is the value-based greedy allocator.
//
// Algorithm:
//  1. Score every (endpoint, video) pair (see Value)
//  2. Sort by value descending; ties by endpoint then video ascending
//  3. For each pair, walk the endpoint's reachable caches in ascending id,
//     skip caches already holding the video, and place it on the first one
//     with enough free capacity
//
// A pair gets at most one attempt; a failed attempt is never retried.
type Greedy struct {
	opts Options
}

// NewGreedy creates a greedy allocator. Options are not validated here; use
// NewAllocator for user-supplied policy names.
func NewGreedy(opts Options) *Greedy {
	return &Greedy{opts: opts}
}

// Name returns the allocator identifier.
func (g *Greedy) Name() string {
	return GreedyByValueName
}

// Allocate runs one deterministic pass over t.
func (g *Greedy) Allocate(t *topology.Topology) (*Assignment, error) {
	candidates, err := Score(t, g.opts)
	if err != nil {
		return nil, err
	}
	groups := GroupByValue(candidates)
	logrus.Debugf("%s: %d candidates in %d value groups", g.Name(), len(candidates), len(groups))

	a := NewAssignment(t.NumCaches(), t.Capacity())
	for i, group := range groups {
		for _, ev := range group.Endpoints {
			caches := t.ReachableCaches(ev.Endpoint)
			for _, v := range ev.Videos {
				g.place(t, a, group.Value, ev.Endpoint, v, caches)
			}
		}
		logrus.Tracef("%s: group %d/%d value=%g candidates=%d placed=%d",
			g.Name(), i+1, len(groups), group.Value, group.Size(), a.Len())
	}

	logrus.Infof("%s: placed %d videos on %d caches", g.Name(), a.Len(), a.NumCaches())
	return a, nil
}

// place makes the single placement attempt for (e, v).
func (g *Greedy) place(t *topology.Topology, a *Assignment, value float64, e, v int, caches []int) {
	size := t.VideoSize(v)
	outcome, target := trace.OutcomeUnreachable, trace.NoCache
	if len(caches) > 0 {
		outcome = trace.OutcomeAlreadyCached
	}
	for _, c := range caches {
		if a.Has(c, v) {
			continue
		}
		outcome = trace.OutcomeNoCapacity
		if a.Free(c) < size {
			continue
		}
		if err := a.Place(c, v, size); err != nil {
			panic(fmt.Sprintf("greedy placement broke an assignment invariant: %v", err))
		}
		outcome, target = trace.OutcomePlaced, c
		break
	}

	if g.opts.Trace.Enabled() {
		g.opts.Trace.Record(trace.PlacementRecord{
			Value:    value,
			Endpoint: e,
			Video:    v,
			Cache:    target,
			Outcome:  outcome,
		})
	}
}

// Ensure Greedy implements Allocator interface
var _ Allocator = (*Greedy)(nil)
