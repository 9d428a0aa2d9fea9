package testutil

import "testing"

// CacheContents is the read side of an assignment.
type CacheContents interface {
	NumCaches() int
	Videos(c int) []int
}

// VideoSizer is the part of a topology needed to check capacity.
type VideoSizer interface {
	VideoSize(v int) int64
	Capacity() int64
}

// AssertWithinCapacity fails if any cache holds more than the capacity or
// lists a video twice.
func AssertWithinCapacity(t *testing.T, sizes VideoSizer, a CacheContents) {
	t.Helper()
	for c := 0; c < a.NumCaches(); c++ {
		var used int64
		seen := make(map[int]bool)
		for _, v := range a.Videos(c) {
			if seen[v] {
				t.Errorf("cache %d lists video %d twice", c, v)
			}
			seen[v] = true
			used += sizes.VideoSize(v)
		}
		if used > sizes.Capacity() {
			t.Errorf("cache %d holds %d, capacity %d", c, used, sizes.Capacity())
		}
	}
}

// AssertContents compares an assignment with the expected per-cache videos.
func AssertContents(t *testing.T, want [][]int, a CacheContents) {
	t.Helper()
	if a.NumCaches() != len(want) {
		t.Fatalf("assignment has %d caches, want %d", a.NumCaches(), len(want))
	}
	for c := range want {
		got := a.Videos(c)
		if len(got) != len(want[c]) {
			t.Errorf("cache %d: got videos %v, want %v", c, got, want[c])
			continue
		}
		for i := range got {
			if got[i] != want[c][i] {
				t.Errorf("cache %d: got videos %v, want %v", c, got, want[c])
				break
			}
		}
	}
}
