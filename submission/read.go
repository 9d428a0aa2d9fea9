package submission

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inference-sim/cache-sim/allocator"
	"github.com/inference-sim/cache-sim/topology"
)

// Parse reads an output file back into an Assignment over t. Cache and
// video ids must be in range, each cache may be described once, and the
// videos of every cache must fit its capacity.
func Parse(r io.Reader, t *topology.Topology) (*allocator.Assignment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)

	a := allocator.NewAssignment(t.NumCaches(), t.Capacity())
	described := make(map[int]bool)
	lineNo := 0
	declared := -1
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		ids, err := atoiAll(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if declared < 0 {
			if len(ids) != 1 || ids[0] < 0 || ids[0] > t.NumCaches() {
				return nil, fmt.Errorf("line %d: header must be a cache count in [0,%d], got %q",
					lineNo, t.NumCaches(), scanner.Text())
			}
			declared = ids[0]
			continue
		}
		c := ids[0]
		if c < 0 || c >= t.NumCaches() {
			return nil, fmt.Errorf("line %d: cache id %d out of range [0,%d)", lineNo, c, t.NumCaches())
		}
		if described[c] {
			return nil, fmt.Errorf("line %d: cache %d described twice", lineNo, c)
		}
		described[c] = true
		for _, v := range ids[1:] {
			if v < 0 || v >= t.NumVideos() {
				return nil, fmt.Errorf("line %d: video id %d out of range [0,%d)", lineNo, v, t.NumVideos())
			}
			if err := a.Place(c, v, t.VideoSize(v)); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}
	if declared < 0 {
		return nil, fmt.Errorf("empty output: missing header")
	}
	if len(described) != declared {
		return nil, fmt.Errorf("header declares %d cache descriptions, found %d", declared, len(described))
	}
	return a, nil
}

// ParseFile opens path and calls Parse.
func ParseFile(path string, t *topology.Topology) (*allocator.Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	defer func() { _ = f.Close() }()

	a, err := Parse(f, t)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return a, nil
}

func atoiAll(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %q is not an integer", i, f)
		}
		out[i] = n
	}
	return out, nil
}
