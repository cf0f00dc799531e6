package perf

import (
	"fmt"

	"github.com/pkg/errors"
)

// RangeError reports an interval that falls outside the domain of a cost
// model, or whose bounds are reversed.
type RangeError struct {
	Start  int
	End    int
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid interval [%d, %d) for domain [0, %d]", e.Start, e.End, e.Length)
}

// ExternalCostError wraps a failure of a caller-supplied cost function:
// a returned error, a panic, or a non-finite result.
type ExternalCostError struct {
	Start int
	End   int
	Value float64
	Cause error
}

func (e *ExternalCostError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("external cost failed for [%d, %d): %s", e.Start, e.End, e.Cause.Error())
	}
	return fmt.Sprintf("external cost returned non-finite value %v for [%d, %d)", e.Value, e.Start, e.End)
}

func (e *ExternalCostError) Unwrap() error { return e.Cause }

// NonFiniteCostError reports a NaN or infinite value produced by a cost
// model that does not classify its own failures.
type NonFiniteCostError struct {
	Start int
	End   int
	Value float64
}

func (e *NonFiniteCostError) Error() string {
	return fmt.Sprintf("cost for [%d, %d) is not finite: %v", e.Start, e.End, e.Value)
}

// IsRangeError returns true when err, or an error it wraps, is a
// *RangeError.
func IsRangeError(err error) bool {
	var target *RangeError
	return errors.As(err, &target)
}

// IsExternalCostError returns true when err, or an error it wraps, is an
// *ExternalCostError.
func IsExternalCostError(err error) bool {
	var target *ExternalCostError
	return errors.As(err, &target)
}

func checkRange(start, end, length int) error {
	if start < 0 || end > length || start > end {
		return &RangeError{Start: start, End: end, Length: length}
	}
	return nil
}
