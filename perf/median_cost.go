package perf

import (
	"math"

	"github.com/pkg/errors"
)

// MedianCost is the L1 cost of an interval: the sum of absolute deviations
// from the interval median. It is robust to outliers at the price of an
// O(m log m) query.
type MedianCost struct {
	values []float64
}

func NewMedianCost(values []float64) (*MedianCost, error) {
	for i, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Errorf("value at index %d is not finite", i)
		}
	}

	return &MedianCost{values: append([]float64{}, values...)}, nil
}

func (c *MedianCost) Len() int { return len(c.values) }

func (c *MedianCost) Eval(start, end int) (float64, error) {
	if err := checkRange(start, end, c.Len()); err != nil {
		return 0, err
	}
	if end-start <= 0 {
		return 0, nil
	}

	list := make(sortedList, 0, end-start)
	list.Insert(c.values[start:end]...)
	median := list.Median()

	total := 0.0
	for _, x := range list {
		total += math.Abs(x - median)
	}

	return total, nil
}
