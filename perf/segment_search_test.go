package perf

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBestSplit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("StepSeries", func(t *testing.T) {
		cost, err := NewPrefixSumCost([]float64{1, 1, 1, 5, 5, 5})
		require.NoError(t, err)

		res, err := FindBestSplit(ctx, cost, 0, 6)
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, 3, res.Changepoint)
		assert.Equal(t, 0, res.Start)
		assert.Equal(t, 6, res.End)
		assert.InDelta(t, 24.0, res.TotalCost, tolerance)
		assert.InDelta(t, 0.0, res.SplitCost, tolerance)
		assert.True(t, res.Gain > 0)
		assert.InDelta(t, res.TotalCost-res.SplitCost, res.Gain, tolerance)
	})
	t.Run("SubInterval", func(t *testing.T) {
		cost, err := NewPrefixSumCost([]float64{9, 9, 1, 1, 1, 5, 5, 5, 0})
		require.NoError(t, err)

		res, err := FindBestSplit(ctx, cost, 2, 8)
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, 5, res.Changepoint)
	})
	t.Run("LinearSeriesIsDeterministic", func(t *testing.T) {
		cost, err := NewPrefixSumCost([]float64{1, 2, 3, 4, 5})
		require.NoError(t, err)

		first, err := FindBestSplit(ctx, cost, 0, 5)
		require.NoError(t, err)
		require.True(t, first.Found)
		assert.True(t, first.Changepoint > 0 && first.Changepoint < 5)
		assert.True(t, first.Gain >= 0)

		for i := 0; i < 10; i++ {
			res, err := FindBestSplit(ctx, cost, 0, 5)
			require.NoError(t, err)
			assert.Equal(t, first, res)
		}
	})
	t.Run("TiesKeepLowestIndex", func(t *testing.T) {
		cost, err := NewPrefixSumCost([]float64{0, 1, 0})
		require.NoError(t, err)

		left, err := cost.Eval(0, 1)
		require.NoError(t, err)
		right, err := cost.Eval(1, 3)
		require.NoError(t, err)
		first := left + right
		left, err = cost.Eval(0, 2)
		require.NoError(t, err)
		right, err = cost.Eval(2, 3)
		require.NoError(t, err)
		require.Equal(t, first, left+right)

		res, err := FindBestSplit(ctx, cost, 0, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Changepoint)
	})
	t.Run("TiesWithExternalCost", func(t *testing.T) {
		cost, err := NewExternalCost(6, func(int, int) (float64, error) { return 1, nil })
		require.NoError(t, err)

		res, err := FindBestSplit(ctx, cost, 0, 6)
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, 1, res.Changepoint)
		assert.Equal(t, -1.0, res.Gain)
	})
	t.Run("SingleElementIsNotFound", func(t *testing.T) {
		cost, err := NewPrefixSumCost([]float64{4, 2, 7})
		require.NoError(t, err)

		for start := 0; start < 3; start++ {
			res, err := FindBestSplit(ctx, cost, start, start+1)
			require.NoError(t, err)
			assert.False(t, res.Found)
			assert.Equal(t, -1, res.Changepoint)
			assert.Zero(t, res.Gain)
		}
	})
	t.Run("NotFoundDiffersFromZeroGain", func(t *testing.T) {
		cost, err := NewPrefixSumCost([]float64{2, 2, 2})
		require.NoError(t, err)

		res, err := FindBestSplit(ctx, cost, 0, 3)
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, 1, res.Changepoint)
		assert.Zero(t, res.Gain)
	})
	t.Run("InvalidIntervals", func(t *testing.T) {
		cost, err := NewPrefixSumCost([]float64{1, 2, 3, 4})
		require.NoError(t, err)

		for name, bounds := range map[string][2]int{
			"NegativeStart": {-1, 3},
			"EndPastDomain": {0, 5},
			"Reversed":      {3, 1},
			"Empty":         {2, 2},
		} {
			t.Run(name, func(t *testing.T) {
				res, err := FindBestSplit(ctx, cost, bounds[0], bounds[1])
				assert.Error(t, err)
				assert.True(t, IsRangeError(err))
				assert.Equal(t, SplitResult{}, res)
			})
		}
	})
	t.Run("InvalidIntervalNeverEvaluates", func(t *testing.T) {
		calls := 0
		cost, err := NewExternalCost(4, func(int, int) (float64, error) {
			calls++
			return 0, nil
		})
		require.NoError(t, err)

		_, err = FindBestSplit(ctx, cost, 3, 1)
		assert.True(t, IsRangeError(err))
		assert.Zero(t, calls)
	})
	t.Run("NilCost", func(t *testing.T) {
		_, err := FindBestSplit(ctx, nil, 0, 1)
		assert.Error(t, err)
	})
	t.Run("NaNFromExternalCostFailsSearch", func(t *testing.T) {
		series := []float64{1, 1, 1, 5, 5, 5}
		base, err := NewPrefixSumCost(series)
		require.NoError(t, err)

		cost, err := NewExternalCost(len(series), func(start, end int) (float64, error) {
			if start == 2 && end == 4 {
				return math.NaN(), nil
			}
			return base.Eval(start, end)
		})
		require.NoError(t, err)

		res, err := FindBestSplit(ctx, cost, 2, 6)
		require.Error(t, err)
		assert.True(t, IsExternalCostError(err))
		assert.False(t, res.Found)

		var extErr *ExternalCostError
		require.True(t, errors.As(err, &extErr))
		assert.Equal(t, 2, extErr.Start)
		assert.Equal(t, 4, extErr.End)
		assert.True(t, math.IsNaN(extErr.Value))
	})
	t.Run("ExternalErrorPropagates", func(t *testing.T) {
		cost, err := NewExternalCost(5, func(start, end int) (float64, error) {
			if end == 3 {
				return 0, errors.New("unavailable")
			}
			return 1, nil
		})
		require.NoError(t, err)

		_, err = FindBestSplit(ctx, cost, 0, 5)
		assert.True(t, IsExternalCostError(err))
	})
	t.Run("NonFiniteBuiltInValueIsRejected", func(t *testing.T) {
		_, err := FindBestSplit(ctx, nanCost{length: 4}, 0, 4)
		require.Error(t, err)

		var nfErr *NonFiniteCostError
		assert.True(t, errors.As(err, &nfErr))
	})
	t.Run("CanceledContext", func(t *testing.T) {
		cctx, ccancel := context.WithCancel(ctx)
		ccancel()

		cost, err := NewPrefixSumCost([]float64{1, 2, 3})
		require.NoError(t, err)

		_, err = FindBestSplit(cctx, cost, 0, 3)
		require.Error(t, err)
		assert.Equal(t, context.Canceled, errors.Cause(err))
	})
}

type nanCost struct{ length int }

func (c nanCost) Len() int { return c.length }
func (c nanCost) Eval(start, end int) (float64, error) {
	if start == end {
		return 0, nil
	}
	return math.NaN(), nil
}
