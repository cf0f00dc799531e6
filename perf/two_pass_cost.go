package perf

import (
	"math"

	"github.com/pkg/errors"
)

// TwoPassCost computes the residual sum of squares by first taking the
// segment mean and then summing squared deviations. Each query is linear in
// the interval length.
type TwoPassCost struct {
	values []float64
}

func NewTwoPassCost(values []float64) (*TwoPassCost, error) {
	for i, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Errorf("value at index %d is not finite", i)
		}
	}

	return &TwoPassCost{values: append([]float64{}, values...)}, nil
}

func (c *TwoPassCost) Len() int { return len(c.values) }

func (c *TwoPassCost) Eval(start, end int) (float64, error) {
	if err := checkRange(start, end, c.Len()); err != nil {
		return 0, err
	}
	if end-start <= 0 {
		return 0, nil
	}

	segment := c.values[start:end]

	mean := 0.0
	for _, x := range segment {
		mean += x
	}
	mean /= float64(len(segment))

	var ss, comp float64
	for _, x := range segment {
		d := x - mean
		ss += d * d
		comp += d
	}

	// corrected two-pass: comp is zero in exact arithmetic
	return ss - comp*comp/float64(len(segment)), nil
}
