package submission

import (
	"fmt"

	"github.com/inference-sim/cache-sim/allocator"
	"github.com/inference-sim/cache-sim/topology"
)

// Score summarizes how much latency an assignment saves.
type Score struct {
	Points        int64   // floor(SavedLatency * 1000 / TotalRequests)
	SavedLatency  int64   // Σ requests × (datacenter latency − best serving latency)
	TotalRequests int64
	PlacedVideos  int
	UsedCapacity  int64
	Utilization   float64 // UsedCapacity / (caches × capacity)
}

// Evaluate serves every request from the lowest-latency connected cache that
// holds the video, falling back to the datacenter, and totals the latency saved.
func Evaluate(t *topology.Topology, a *allocator.Assignment) Score {
	var s Score
	for e := 0; e < t.NumEndpoints(); e++ {
		base := t.DatacenterLatency(e)
		caches := t.ReachableCaches(e)
		for v := 0; v < t.NumVideos(); v++ {
			n := t.Requests(v, e)
			if n == 0 {
				continue
			}
			s.TotalRequests += n
			best := base
			for _, c := range caches {
				if lat := t.Latency(e, c); lat < best && a.Has(c, v) {
					best = lat
				}
			}
			s.SavedLatency += (base - best) * n
		}
	}
	if s.TotalRequests > 0 {
		s.Points = s.SavedLatency * 1000 / s.TotalRequests
	}

	for c := 0; c < a.NumCaches(); c++ {
		s.PlacedVideos += len(a.Videos(c))
		s.UsedCapacity += a.Used(c)
	}
	if total := int64(a.NumCaches()) * a.Capacity(); total > 0 {
		s.Utilization = float64(s.UsedCapacity) / float64(total)
	}
	return s
}

// String renders the score on one line for logs.
func (s Score) String() string {
	return fmt.Sprintf("points=%d saved=%d requests=%d videos=%d utilization=%.2f%%",
		s.Points, s.SavedLatency, s.TotalRequests, s.PlacedVideos, s.Utilization*100)
}
