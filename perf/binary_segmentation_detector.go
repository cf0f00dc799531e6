package perf

import (
	"context"

	"github.com/pkg/errors"
)

type binarySegmentationDetector struct {
	kind CostKind
	info AlgorithmInfo
}

// NewBinarySegmentationDetector returns a ChangeDetector that reports at
// most one change point per series: the best single split under the named
// cost, when it reduces the cost at all.
func NewBinarySegmentationDetector(kind CostKind) ChangeDetector {
	if kind == "" {
		kind = DefaultCostKind
	}

	return &binarySegmentationDetector{
		kind: kind,
		info: AlgorithmInfo{
			Name:    "binary_segmentation",
			Version: 1,
			Options: []AlgorithmOption{
				{
					Name:  "cost",
					Value: string(kind),
				},
			},
		},
	}
}

func (d *binarySegmentationDetector) DetectChanges(ctx context.Context, series []float64) ([]ChangePoint, error) {
	if len(series) == 0 {
		return []ChangePoint{}, nil
	}

	cost, err := NewCostModel(d.kind, series)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := FindBestSplit(ctx, cost, 0, len(series))
	if err != nil {
		return nil, errors.Wrap(err, "problem searching series")
	}

	if !res.Found || res.Gain <= 0 {
		return []ChangePoint{}, nil
	}

	return []ChangePoint{
		{
			Index: res.Changepoint,
			Gain:  res.Gain,
			Info:  d.info,
		},
	}, nil
}
