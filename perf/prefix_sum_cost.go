package perf

import (
	"math"

	"github.com/pkg/errors"
)

// PrefixSumCost computes the residual sum of squares of an interval in
// constant time from cumulative sums of the values and their squares.
//
// The identity SS = sum(x^2) - sum(x)^2/m cancels badly when the values are
// large relative to their spread; use TwoPassCost when that matters.
type PrefixSumCost struct {
	csum  []float64
	csum2 []float64
}

// NewPrefixSumCost builds the cumulative sums for values. Values must be
// finite, and so must their running sums.
func NewPrefixSumCost(values []float64) (*PrefixSumCost, error) {
	n := len(values)
	c := &PrefixSumCost{
		csum:  make([]float64, n+1),
		csum2: make([]float64, n+1),
	}

	for i, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Errorf("value at index %d is not finite", i)
		}
		c.csum[i+1] = c.csum[i] + x
		c.csum2[i+1] = c.csum2[i] + x*x
	}

	if math.IsInf(c.csum[n], 0) || math.IsInf(c.csum2[n], 0) {
		return nil, errors.New("cumulative sums overflow")
	}

	return c, nil
}

func (c *PrefixSumCost) Len() int { return len(c.csum) - 1 }

func (c *PrefixSumCost) Eval(start, end int) (float64, error) {
	if err := checkRange(start, end, c.Len()); err != nil {
		return 0, err
	}

	m := end - start
	if m <= 0 {
		return 0, nil
	}

	sum := c.csum[end] - c.csum[start]
	sumsq := c.csum2[end] - c.csum2[start]

	return sumsq - sum*sum/float64(m), nil
}
