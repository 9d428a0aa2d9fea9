package topology

// Spec is one problem instance as read from the input format, before any
// validation. New turns a Spec into an immutable Topology.
type Spec struct {
	Videos        int   // V
	Endpoints     int   // E
	Requests      int   // R, number of request descriptions; informational only
	Caches        int   // C
	CacheCapacity int64 // X, identical for every cache

	VideoSizes    []int64
	EndpointSpecs []EndpointSpec
	RequestSpecs  []RequestSpec
}

// EndpointSpec describes one endpoint: its latency to the datacenter and the
// caches it is connected to. CacheCount is the declared number of links and
// must equal len(Links).
type EndpointSpec struct {
	DatacenterLatency int64
	CacheCount        int
	Links             []CacheLink
}

// CacheLink is a single endpoint-to-cache connection.
type CacheLink struct {
	Cache   int
	Latency int64
}

// RequestSpec is one request description: Count requests for Video issued
// from Endpoint.
type RequestSpec struct {
	Video    int
	Endpoint int
	Count    int64
}
