package perf

import (
	"context"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
)

// SplitReporter receives the result of every successful search.
type SplitReporter func(SplitResult)

// LogSplit returns a reporter that logs results with grip at the given
// priority.
func LogSplit(priority level.Priority) SplitReporter {
	return func(r SplitResult) {
		grip.Log(priority, r.Fields())
	}
}

// BinarySegmentation runs single-split searches against one cost model.
type BinarySegmentation struct {
	cost      CostModel
	reporters []SplitReporter
}

func NewBinarySegmentation(cost CostModel, reporters ...SplitReporter) *BinarySegmentation {
	return &BinarySegmentation{cost: cost, reporters: reporters}
}

// Predict finds the best split of [start, end) and hands the result to the
// reporters. Failed searches are not reported.
func (b *BinarySegmentation) Predict(ctx context.Context, start, end int) (SplitResult, error) {
	res, err := FindBestSplit(ctx, b.cost, start, end)
	if err != nil {
		return SplitResult{}, err
	}

	for _, report := range b.reporters {
		if report != nil {
			report(res)
		}
	}

	return res, nil
}
