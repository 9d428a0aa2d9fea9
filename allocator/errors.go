package allocator

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateValue is matched by every *DegenerateValueError via errors.Is.
	ErrDegenerateValue = errors.New("degenerate value")

	// ErrUnknownCache is returned by Assignment.Place for a cache id out of range.
	ErrUnknownCache = errors.New("unknown cache")

	// ErrAlreadyAssigned is returned by Assignment.Place for a duplicate (cache, video) pair.
	ErrAlreadyAssigned = errors.New("video already assigned to cache")

	// ErrCapacityExceeded is returned by Assignment.Place when the video does not fit.
	ErrCapacityExceeded = errors.New("cache capacity exceeded")
)

// DegenerateValueError reports a (endpoint, video) pair whose value is
// undefined because the video has size zero and the zero-size policy is
// ZeroSizeReject.
type DegenerateValueError struct {
	Endpoint int
	Video    int
}

func (e *DegenerateValueError) Error() string {
	return fmt.Sprintf("degenerate value for endpoint %d, video %d: video size is zero", e.Endpoint, e.Video)
}

// Is makes errors.Is(err, ErrDegenerateValue) succeed for any DegenerateValueError.
func (e *DegenerateValueError) Is(target error) bool {
	return target == ErrDegenerateValue
}
