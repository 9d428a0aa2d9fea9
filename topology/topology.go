// Package topology holds the immutable numeric description of one cache
// placement instance: videos and their sizes, endpoints with their datacenter
// latency, the endpoint-to-cache latency matrix, request volumes, and the
// derived savings matrix.
//
// Matrices are dense gonum matrices. Missing connectivity is stored as the
// NoConnection sentinel; a present latency is always >= 0.
package topology

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NoConnection marks an endpoint-cache cell with no link.
const NoConnection = -1

// maxMatrixCells bounds each dense matrix built by New.
const maxMatrixCells = 1 << 25

// Topology is a validated, immutable problem instance.
type Topology struct {
	numVideos    int
	numEndpoints int
	numRequests  int
	numCaches    int
	capacity     int64

	videoSizes          []int64
	datacenterLatencies []int64

	latencies *mat.Dense // E×C, NoConnection where unreachable
	requests  *mat.Dense // V×E
	savings   *mat.Dense // E×C, 0 where unreachable

	reachable [][]int // per endpoint, ascending cache ids
}

// New validates spec and builds the topology with all derived matrices.
// Every failure is a *MalformedInputError.
func New(spec Spec) (*Topology, error) {
	if err := validateCounts(spec); err != nil {
		return nil, err
	}
	t := &Topology{
		numVideos:           spec.Videos,
		numEndpoints:        spec.Endpoints,
		numRequests:         spec.Requests,
		numCaches:           spec.Caches,
		capacity:            spec.CacheCapacity,
		videoSizes:          make([]int64, spec.Videos),
		datacenterLatencies: make([]int64, spec.Endpoints),
		latencies:           mat.NewDense(spec.Endpoints, spec.Caches, nil),
		requests:            mat.NewDense(spec.Videos, spec.Endpoints, nil),
		savings:             mat.NewDense(spec.Endpoints, spec.Caches, nil),
		reachable:           make([][]int, spec.Endpoints),
	}

	for v, size := range spec.VideoSizes {
		if size < 0 {
			return nil, malformed(fmt.Sprintf("video[%d]", v), "size must be non-negative, got %d", size)
		}
		t.videoSizes[v] = size
	}

	for e := 0; e < spec.Endpoints; e++ {
		for c := 0; c < spec.Caches; c++ {
			t.latencies.Set(e, c, NoConnection)
		}
	}
	for e, ep := range spec.EndpointSpecs {
		if err := t.addEndpoint(e, ep); err != nil {
			return nil, err
		}
	}

	// Duplicate request descriptions overwrite: the last one wins.
	for i, r := range spec.RequestSpecs {
		record := fmt.Sprintf("request[%d]", i)
		if r.Video < 0 || r.Video >= spec.Videos {
			return nil, malformed(record, "video id %d out of range [0,%d)", r.Video, spec.Videos)
		}
		if r.Endpoint < 0 || r.Endpoint >= spec.Endpoints {
			return nil, malformed(record, "endpoint id %d out of range [0,%d)", r.Endpoint, spec.Endpoints)
		}
		if r.Count < 0 {
			return nil, malformed(record, "request count must be non-negative, got %d", r.Count)
		}
		t.requests.Set(r.Video, r.Endpoint, float64(r.Count))
	}

	t.computeSavings()
	return t, nil
}

func validateCounts(spec Spec) error {
	counts := []struct {
		name  string
		value int64
	}{
		{"videos", int64(spec.Videos)},
		{"endpoints", int64(spec.Endpoints)},
		{"requests", int64(spec.Requests)},
		{"caches", int64(spec.Caches)},
		{"cache capacity", spec.CacheCapacity},
	}
	for _, c := range counts {
		if c.value <= 0 {
			return malformed("header", "%s must be positive, got %d", c.name, c.value)
		}
	}
	if len(spec.VideoSizes) != spec.Videos {
		return malformed("video_sizes", "expected %d video sizes, got %d", spec.Videos, len(spec.VideoSizes))
	}
	if len(spec.EndpointSpecs) != spec.Endpoints {
		return malformed("endpoints", "expected %d endpoints, got %d", spec.Endpoints, len(spec.EndpointSpecs))
	}
	if spec.Caches > maxMatrixCells/spec.Endpoints || spec.Videos > maxMatrixCells/spec.Endpoints {
		return malformed("header", "%d videos, %d endpoints and %d caches exceed %d matrix cells",
			spec.Videos, spec.Endpoints, spec.Caches, maxMatrixCells)
	}
	return nil
}

func (t *Topology) addEndpoint(e int, ep EndpointSpec) error {
	record := fmt.Sprintf("endpoint[%d]", e)
	if ep.DatacenterLatency < 0 {
		return malformed(record, "datacenter latency must be non-negative, got %d", ep.DatacenterLatency)
	}
	if ep.CacheCount != len(ep.Links) {
		return malformed(record, "declares %d cache links but lists %d", ep.CacheCount, len(ep.Links))
	}
	t.datacenterLatencies[e] = ep.DatacenterLatency
	for i, link := range ep.Links {
		linkRecord := fmt.Sprintf("%s.link[%d]", record, i)
		if link.Cache < 0 || link.Cache >= t.numCaches {
			return malformed(linkRecord, "cache id %d out of range [0,%d)", link.Cache, t.numCaches)
		}
		if link.Latency < 0 {
			return malformed(linkRecord, "latency must be non-negative, got %d", link.Latency)
		}
		t.latencies.Set(e, link.Cache, float64(link.Latency))
	}
	return nil
}

// computeSavings fills savings and the reachable-cache index from the
// latency matrix. Cells without a connection stay exactly 0.
func (t *Topology) computeSavings() {
	for e := 0; e < t.numEndpoints; e++ {
		base := float64(t.datacenterLatencies[e])
		for c := 0; c < t.numCaches; c++ {
			lat := t.latencies.At(e, c)
			if lat < 0 {
				continue
			}
			t.savings.Set(e, c, base-lat)
			t.reachable[e] = append(t.reachable[e], c)
		}
	}
}

// NumVideos returns V.
func (t *Topology) NumVideos() int { return t.numVideos }

// NumEndpoints returns E.
func (t *Topology) NumEndpoints() int { return t.numEndpoints }

// NumCaches returns C.
func (t *Topology) NumCaches() int { return t.numCaches }

// NumRequestDescriptions returns the declared R from the input header.
func (t *Topology) NumRequestDescriptions() int { return t.numRequests }

// Capacity returns the per-cache capacity X.
func (t *Topology) Capacity() int64 { return t.capacity }

// VideoSize returns the size of video v.
func (t *Topology) VideoSize(v int) int64 { return t.videoSizes[v] }

// DatacenterLatency returns the base latency of endpoint e.
func (t *Topology) DatacenterLatency(e int) int64 { return t.datacenterLatencies[e] }

// Latency returns the endpoint-cache latency, or NoConnection.
func (t *Topology) Latency(e, c int) int64 { return int64(t.latencies.At(e, c)) }

// Connected reports whether endpoint e can reach cache c.
func (t *Topology) Connected(e, c int) bool { return t.latencies.At(e, c) >= 0 }

// Saving returns datacenter latency minus cache latency for a connected
// pair, and 0 otherwise. It can be negative.
func (t *Topology) Saving(e, c int) float64 { return t.savings.At(e, c) }

// SavingsRow returns a copy of the savings of endpoint e across all caches.
func (t *Topology) SavingsRow(e int) []float64 {
	return mat.Row(nil, e, t.savings)
}

// Requests returns how many times video v is requested from endpoint e.
func (t *Topology) Requests(v, e int) int64 { return int64(t.requests.At(v, e)) }

// TotalRequests sums the request matrix.
func (t *Topology) TotalRequests() int64 { return int64(mat.Sum(t.requests)) }

// ReachableCaches returns the caches connected to endpoint e in ascending
// id order. The returned slice must not be modified.
func (t *Topology) ReachableCaches(e int) []int { return t.reachable[e] }
