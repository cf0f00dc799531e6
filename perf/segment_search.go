package perf

import (
	"context"
	"math"

	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// SplitResult is the outcome of a single-split search over [Start, End).
// Found is false when the interval has no interior index, in which case
// Changepoint is -1 and Gain is 0.
type SplitResult struct {
	Start       int     `bson:"start" json:"start" yaml:"start"`
	End         int     `bson:"end" json:"end" yaml:"end"`
	Changepoint int     `bson:"changepoint" json:"changepoint" yaml:"changepoint"`
	Found       bool    `bson:"found" json:"found" yaml:"found"`
	TotalCost   float64 `bson:"total_cost" json:"total_cost" yaml:"total_cost"`
	SplitCost   float64 `bson:"split_cost" json:"split_cost" yaml:"split_cost"`
	Gain        float64 `bson:"gain" json:"gain" yaml:"gain"`
}

// Fields renders the result for structured logging.
func (r SplitResult) Fields() message.Fields {
	out := message.Fields{
		"message":    "single split search",
		"start":      r.Start,
		"end":        r.End,
		"found":      r.Found,
		"total_cost": r.TotalCost,
	}
	if r.Found {
		out["changepoint"] = r.Changepoint
		out["split_cost"] = r.SplitCost
		out["gain"] = r.Gain
	}
	return out
}

// FindBestSplit scans every interior index of [start, end) and returns the
// one that minimizes cost(start, cp) + cost(cp, end). On equal cost the
// lowest index wins. Intervals with one element have no interior index and
// yield a result with Found set to false; empty or out of domain intervals
// are a *RangeError.
//
// The context is checked before each candidate.
func FindBestSplit(ctx context.Context, cost CostModel, start, end int) (SplitResult, error) {
	if cost == nil {
		return SplitResult{}, errors.New("cost model must not be nil")
	}
	if err := checkRange(start, end, cost.Len()); err != nil {
		return SplitResult{}, err
	}
	if start == end {
		return SplitResult{}, &RangeError{Start: start, End: end, Length: cost.Len()}
	}

	res := SplitResult{Start: start, End: end, Changepoint: -1}

	totalErr, err := evalFinite(cost, start, end)
	if err != nil {
		return SplitResult{}, err
	}
	res.TotalCost = totalErr

	if end-start < 2 {
		return res, nil
	}

	minErr := math.Inf(1)
	bestCp := -1
	for cp := start + 1; cp <= end-1; cp++ {
		if err = ctx.Err(); err != nil {
			return SplitResult{}, errors.Wrapf(err, "search of [%d, %d) interrupted at %d", start, end, cp)
		}

		left, err := evalFinite(cost, start, cp)
		if err != nil {
			return SplitResult{}, err
		}
		right, err := evalFinite(cost, cp, end)
		if err != nil {
			return SplitResult{}, err
		}

		if splitErr := left + right; splitErr < minErr {
			minErr = splitErr
			bestCp = cp
		}
	}

	if bestCp < 0 {
		// only reachable if every sum overflowed to +Inf
		return SplitResult{}, &NonFiniteCostError{Start: start, End: end, Value: minErr}
	}

	res.Changepoint = bestCp
	res.Found = true
	res.SplitCost = minErr
	res.Gain = totalErr - minErr

	return res, nil
}

func evalFinite(cost CostModel, start, end int) (float64, error) {
	value, err := cost.Eval(start, end)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &NonFiniteCostError{Start: start, End: end, Value: value}
	}
	return value, nil
}
