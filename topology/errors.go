package topology

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is matched by every *MalformedInputError via errors.Is.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a structural violation of the instance format:
// an index out of range, a count that disagrees with its list, or a negative
// size, latency or request count. It is fatal for the instance it came from.
type MalformedInputError struct {
	Line   int    // 1-based input line; 0 when the record did not come from Parse
	Record string // record locator, e.g. "endpoint[3].link[1]"
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input: line %d (%s): %s", e.Line, e.Record, e.Reason)
	}
	return fmt.Sprintf("malformed input: %s: %s", e.Record, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedInput) succeed for any MalformedInputError.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(record, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Record: record, Reason: fmt.Sprintf(format, args...)}
}

func malformedAt(line int, record, format string, args ...any) *MalformedInputError {
	err := malformed(record, format, args...)
	err.Line = line
	return err
}
