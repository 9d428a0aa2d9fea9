package allocator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/cache-sim/topology"
)

// AverageSaving is the mean of the nonzero savings of endpoint e across all
// caches, or 0 when it has none. Connected caches whose latency equals the
// datacenter latency contribute nothing to either sum or count.
func AverageSaving(t *topology.Topology, e int) float64 {
	row := t.SavingsRow(e)
	nonzero := 0
	for _, s := range row {
		if s != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		return 0
	}
	return floats.Sum(row) / float64(nonzero)
}

// Value scores caching video v for endpoint e:
//
//	requests(v, e) * AverageSaving(e) / size(v)
//
// The average saving over every reachable cache stands in for the saving of
// the cache that ends up holding the video.
func Value(t *topology.Topology, e, v int, policy ZeroSizePolicy) (float64, error) {
	return value(float64(t.Requests(v, e))*AverageSaving(t, e), t.VideoSize(v), e, v, policy)
}

func value(benefit float64, size int64, e, v int, policy ZeroSizePolicy) (float64, error) {
	if size != 0 {
		return benefit / float64(size), nil
	}
	if policy != ZeroSizeFree {
		return 0, &DegenerateValueError{Endpoint: e, Video: v}
	}
	switch {
	case benefit > 0:
		return math.Inf(1), nil
	case benefit < 0:
		return math.Inf(-1), nil
	}
	return 0, nil
}

// Candidate is one (endpoint, video) pair with its value.
type Candidate struct {
	Value    float64
	Endpoint int
	Video    int
}

// Score values every (endpoint, video) pair and returns them in processing
// order: value descending, then endpoint ascending, then video ascending.
// Under ZeroValueSkip pairs of value exactly 0 are left out.
func Score(t *topology.Topology, opts Options) ([]Candidate, error) {
	policy := opts.zeroSize()
	skipZero := opts.zeroValue() == ZeroValueSkip

	candidates := make([]Candidate, 0, t.NumEndpoints()*t.NumVideos())
	for e := 0; e < t.NumEndpoints(); e++ {
		avg := AverageSaving(t, e)
		for v := 0; v < t.NumVideos(); v++ {
			val, err := value(float64(t.Requests(v, e))*avg, t.VideoSize(v), e, v, policy)
			if err != nil {
				return nil, err
			}
			if skipZero && val == 0 {
				continue
			}
			candidates = append(candidates, Candidate{Value: val, Endpoint: e, Video: v})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.Endpoint != b.Endpoint {
			return a.Endpoint < b.Endpoint
		}
		return a.Video < b.Video
	})
	return candidates, nil
}

// EndpointVideos lists, in ascending order, the videos of one endpoint that
// share a value group.
type EndpointVideos struct {
	Endpoint int
	Videos   []int
}

// ValueGroup holds every candidate with exactly the same value.
type ValueGroup struct {
	Value     float64
	Endpoints []EndpointVideos
}

// Size returns the number of candidates in the group.
func (g ValueGroup) Size() int {
	n := 0
	for _, ev := range g.Endpoints {
		n += len(ev.Videos)
	}
	return n
}

// GroupByValue collapses sorted candidates into value groups, keeping their
// order. Candidates must come from Score.
func GroupByValue(candidates []Candidate) []ValueGroup {
	var groups []ValueGroup
	for _, c := range candidates {
		if len(groups) == 0 || groups[len(groups)-1].Value != c.Value {
			groups = append(groups, ValueGroup{Value: c.Value})
		}
		g := &groups[len(groups)-1]
		if n := len(g.Endpoints); n == 0 || g.Endpoints[n-1].Endpoint != c.Endpoint {
			g.Endpoints = append(g.Endpoints, EndpointVideos{Endpoint: c.Endpoint})
		}
		ev := &g.Endpoints[len(g.Endpoints)-1]
		ev.Videos = append(ev.Videos, c.Video)
	}
	return groups
}
