package perf

import (
	"time"

	"github.com/pkg/errors"
)

// CostKind names a built-in cost model.
type CostKind string

const (
	CostL2       CostKind = "l2"
	CostL2Stable CostKind = "l2_stable"
	CostL1       CostKind = "l1"

	DefaultCostKind = CostL2
)

func (k CostKind) Validate() error {
	switch k {
	case CostL2, CostL2Stable, CostL1:
		return nil
	default:
		return errors.Errorf("'%s' is not a valid cost kind", k)
	}
}

// CostKinds lists the built-in cost models.
func CostKinds() []CostKind {
	return []CostKind{CostL2, CostL2Stable, CostL1}
}

// NewCostModel builds the named cost model over values. An empty kind
// selects DefaultCostKind.
func NewCostModel(kind CostKind, values []float64) (CostModel, error) {
	if kind == "" {
		kind = DefaultCostKind
	}

	var (
		model CostModel
		err   error
	)

	switch kind {
	case CostL2:
		model, err = NewPrefixSumCost(values)
	case CostL2Stable:
		model, err = NewTwoPassCost(values)
	case CostL1:
		model, err = NewMedianCost(values)
	default:
		return nil, kind.Validate()
	}

	if err != nil {
		return nil, errors.Wrapf(err, "building '%s' cost model", kind)
	}
	return model, nil
}

// CostOptions select a cost model for a series. When URL is set the
// model is a remote cost service over [0, Length], and Length defaults to
// the number of values; otherwise Kind names a built-in model over Values.
type CostOptions struct {
	Kind    CostKind
	URL     string
	Values  []float64
	Length  int
	Timeout time.Duration
}

// Build constructs the selected cost model.
func (opts CostOptions) Build() (CostModel, error) {
	if opts.URL == "" {
		return NewCostModel(opts.Kind, opts.Values)
	}

	length := opts.Length
	if length == 0 {
		length = len(opts.Values)
	}

	remote, err := NewRemoteCost(RemoteCostOptions{
		BaseURL: opts.URL,
		Length:  length,
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "building remote cost model for '%s'", opts.URL)
	}

	return remote, nil
}
