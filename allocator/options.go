package allocator

import (
	"fmt"

	"github.com/inference-sim/cache-sim/allocator/trace"
)

// ZeroSizePolicy decides how a video of size zero is scored.
type ZeroSizePolicy string

const (
	// ZeroSizeReject fails the allocation with a *DegenerateValueError.
	ZeroSizeReject ZeroSizePolicy = "reject"
	// ZeroSizeFree treats the video as placeable at no cost: its value is
	// +Inf when it has a positive benefit, -Inf when negative, 0 otherwise.
	ZeroSizeFree ZeroSizePolicy = "free"
)

// ZeroValuePolicy decides whether pairs with value exactly 0 are attempted.
type ZeroValuePolicy string

const (
	// ZeroValuePlace keeps value-0 pairs as their own group, processed after
	// every positive group; they only consume capacity nothing else wanted.
	ZeroValuePlace ZeroValuePolicy = "place"
	// ZeroValueSkip drops value-0 pairs entirely.
	ZeroValueSkip ZeroValuePolicy = "skip"
)

// ValidZeroSizePolicies is the set of recognized zero-size policy names.
var ValidZeroSizePolicies = map[string]bool{"": true, string(ZeroSizeReject): true, string(ZeroSizeFree): true}

// ValidZeroValuePolicies is the set of recognized zero-value policy names.
var ValidZeroValuePolicies = map[string]bool{"": true, string(ZeroValuePlace): true, string(ZeroValueSkip): true}

// Options configures an allocation pass. The zero value is valid and means
// ZeroSizeReject, ZeroValuePlace, no trace.
type Options struct {
	ZeroSize  ZeroSizePolicy
	ZeroValue ZeroValuePolicy
	Trace     *trace.PlacementTrace // nil disables tracing
}

// Validate checks that both policy names are recognized.
func (o Options) Validate() error {
	if !ValidZeroSizePolicies[string(o.ZeroSize)] {
		return fmt.Errorf("unknown zero-size policy %q; valid: reject, free", o.ZeroSize)
	}
	if !ValidZeroValuePolicies[string(o.ZeroValue)] {
		return fmt.Errorf("unknown zero-value policy %q; valid: place, skip", o.ZeroValue)
	}
	return nil
}

func (o Options) zeroSize() ZeroSizePolicy {
	if o.ZeroSize == "" {
		return ZeroSizeReject
	}
	return o.ZeroSize
}

func (o Options) zeroValue() ZeroValuePolicy {
	if o.ZeroValue == "" {
		return ZeroValuePlace
	}
	return o.ZeroValue
}
