package allocator

import (
	"fmt"
	"sort"
)

// Assignment maps each cache to the set of videos it holds. It only grows:
// placements are never removed, and Place refuses any placement that would
// exceed the cache capacity or duplicate a (cache, video) pair.
type Assignment struct {
	capacity int64
	used     []int64
	videos   []map[int]struct{}
	count    int
}

// NewAssignment creates an empty assignment over numCaches caches of the
// given capacity.
func NewAssignment(numCaches int, capacity int64) *Assignment {
	a := &Assignment{
		capacity: capacity,
		used:     make([]int64, numCaches),
		videos:   make([]map[int]struct{}, numCaches),
	}
	for c := range a.videos {
		a.videos[c] = make(map[int]struct{})
	}
	return a
}

// NumCaches returns the number of caches, including empty ones.
func (a *Assignment) NumCaches() int { return len(a.videos) }

// Capacity returns the per-cache capacity.
func (a *Assignment) Capacity() int64 { return a.capacity }

// Len returns the total number of (cache, video) placements.
func (a *Assignment) Len() int { return a.count }

// Has reports whether video v is assigned to cache c.
func (a *Assignment) Has(c, v int) bool {
	_, ok := a.videos[c][v]
	return ok
}

// Used returns the total size of the videos assigned to cache c.
func (a *Assignment) Used(c int) int64 { return a.used[c] }

// Free returns the remaining capacity of cache c.
func (a *Assignment) Free(c int) int64 { return a.capacity - a.used[c] }

// Place assigns video v of the given size to cache c.
func (a *Assignment) Place(c, v int, size int64) error {
	if c < 0 || c >= len(a.videos) {
		return fmt.Errorf("cache %d: %w", c, ErrUnknownCache)
	}
	if a.Has(c, v) {
		return fmt.Errorf("cache %d, video %d: %w", c, v, ErrAlreadyAssigned)
	}
	if size < 0 {
		return fmt.Errorf("cache %d, video %d: negative size %d", c, v, size)
	}
	if size > a.Free(c) {
		return fmt.Errorf("cache %d, video %d (size %d, free %d): %w", c, v, size, a.Free(c), ErrCapacityExceeded)
	}
	a.videos[c][v] = struct{}{}
	a.used[c] += size
	a.count++
	return nil
}

// Videos returns the videos assigned to cache c in ascending id order.
func (a *Assignment) Videos(c int) []int {
	out := make([]int, 0, len(a.videos[c]))
	for v := range a.videos[c] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Equal reports whether both assignments hold the same videos on the same
// caches with the same capacity.
func (a *Assignment) Equal(b *Assignment) bool {
	if a.capacity != b.capacity || len(a.videos) != len(b.videos) || a.count != b.count {
		return false
	}
	for c := range a.videos {
		if len(a.videos[c]) != len(b.videos[c]) {
			return false
		}
		for v := range a.videos[c] {
			if !b.Has(c, v) {
				return false
			}
		}
	}
	return true
}
