package topology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxLineBytes bounds a single input line; the video sizes line of a large
// instance holds tens of thousands of integers.
const maxLineBytes = 16 << 20

// lineReader yields the integer fields of each non-blank line.
type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineReader{scanner: s}
}

// next returns the fields of the next non-blank line. ok is false at EOF.
func (lr *lineReader) next(record string) (fields []int64, ok bool, err error) {
	for lr.scanner.Scan() {
		lr.line++
		raw := strings.Fields(lr.scanner.Text())
		if len(raw) == 0 {
			continue
		}
		fields = make([]int64, len(raw))
		for i, f := range raw {
			n, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, false, malformedAt(lr.line, record, "field %d: %q is not an integer", i, f)
			}
			fields[i] = n
		}
		return fields, true, nil
	}
	if err := lr.scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("reading line %d: %w", lr.line+1, err)
	}
	return nil, false, nil
}

// expect reads the next line and requires exactly want fields.
func (lr *lineReader) expect(record string, want int) ([]int64, error) {
	fields, ok, err := lr.next(record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, malformedAt(lr.line+1, record, "unexpected end of input")
	}
	if want >= 0 && len(fields) != want {
		return nil, malformedAt(lr.line, record, "expected %d fields, got %d", want, len(fields))
	}
	return fields, nil
}

// Parse reads one instance in the whitespace-separated integer format:
//
//	V E R C X
//	size_0 ... size_{V-1}
//	for each endpoint: base_latency K, then K lines of "cache_id latency"
//	any number of "video_id endpoint_id count" lines
//
// Parse checks the shape of each record; range and sign checks are left to New.
func Parse(r io.Reader) (*Spec, error) {
	lr := newLineReader(r)

	header, err := lr.expect("header", 5)
	if err != nil {
		return nil, err
	}
	spec := &Spec{
		Videos:        int(header[0]),
		Endpoints:     int(header[1]),
		Requests:      int(header[2]),
		Caches:        int(header[3]),
		CacheCapacity: header[4],
	}

	sizes, err := lr.expect("video_sizes", -1)
	if err != nil {
		return nil, err
	}
	spec.VideoSizes = sizes

	for e := 0; e < spec.Endpoints; e++ {
		record := fmt.Sprintf("endpoint[%d]", e)
		fields, err := lr.expect(record, 2)
		if err != nil {
			return nil, err
		}
		if fields[1] < 0 {
			return nil, malformedAt(lr.line, record, "cache count must be non-negative, got %d", fields[1])
		}
		ep := EndpointSpec{
			DatacenterLatency: fields[0],
			CacheCount:        int(fields[1]),
		}
		// CacheCount is untrusted; Links grows only as link lines are read.
		for i := 0; i < ep.CacheCount; i++ {
			link, err := lr.expect(fmt.Sprintf("%s.link[%d]", record, i), 2)
			if err != nil {
				return nil, err
			}
			ep.Links = append(ep.Links, CacheLink{Cache: int(link[0]), Latency: link[1]})
		}
		spec.EndpointSpecs = append(spec.EndpointSpecs, ep)
	}

	for {
		record := fmt.Sprintf("request[%d]", len(spec.RequestSpecs))
		fields, ok, err := lr.next(record)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if len(fields) != 3 {
			return nil, malformedAt(lr.line, record, "expected 3 fields, got %d", len(fields))
		}
		spec.RequestSpecs = append(spec.RequestSpecs, RequestSpec{
			Video:    int(fields[0]),
			Endpoint: int(fields[1]),
			Count:    fields[2],
		})
	}

	if len(spec.RequestSpecs) != spec.Requests {
		logrus.Debugf("header declares %d request descriptions, found %d", spec.Requests, len(spec.RequestSpecs))
	}
	return spec, nil
}

// Load reads, parses and validates the instance at path.
func Load(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening instance: %w", err)
	}
	defer func() { _ = f.Close() }()

	spec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	t, err := New(*spec)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return t, nil
}
