package perf

import (
	"math"

	"github.com/pkg/errors"
)

// CostFunc is a caller-supplied cost over [start, end). It must return 0
// for empty intervals and must not depend on anything that changes between
// calls.
type CostFunc func(start, end int) (float64, error)

// ExternalCost adapts a CostFunc to the CostModel interface. The function
// is called once per Eval; if searches share an ExternalCost across
// goroutines, the function itself must be safe for concurrent use.
type ExternalCost struct {
	length int
	fn     CostFunc
}

// NewExternalCost wraps fn over the domain [0, length].
func NewExternalCost(length int, fn CostFunc) (*ExternalCost, error) {
	if fn == nil {
		return nil, errors.New("cost function must not be nil")
	}
	if length < 0 {
		return nil, errors.Errorf("invalid domain length %d", length)
	}

	return &ExternalCost{length: length, fn: fn}, nil
}

func (c *ExternalCost) Len() int { return c.length }

// Eval forwards the interval to the wrapped function. Errors, panics and
// non-finite results all surface as *ExternalCostError.
func (c *ExternalCost) Eval(start, end int) (value float64, err error) {
	if err = checkRange(start, end, c.length); err != nil {
		return 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			value = 0
			err = &ExternalCostError{
				Start: start,
				End:   end,
				Cause: errors.Errorf("cost function panicked: %v", r),
			}
		}
	}()

	value, err = c.fn(start, end)
	if err != nil {
		return 0, &ExternalCostError{Start: start, End: end, Cause: err}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ExternalCostError{Start: start, End: end, Value: value}
	}

	return value, nil
}
