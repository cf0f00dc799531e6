package model

import (
	"github.com/evergreen-ci/binseg/perf"
	"github.com/evergreen-ci/binseg/units"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// APISplitRequest is the body of a split search request. A nil Start
// means 0 and a nil End means the domain length. When CostURL is set the
// costs come from that service and Length, if given, overrides the number
// of values as the domain length.
type APISplitRequest struct {
	Values  []float64 `json:"values"`
	Cost    string    `json:"cost,omitempty"`
	CostURL string    `json:"cost_url,omitempty"`
	Length  *int      `json:"length,omitempty"`
	Start   *int      `json:"start,omitempty"`
	End     *int      `json:"end,omitempty"`
}

// DomainLength is the size of the series the request searches.
func (r *APISplitRequest) DomainLength() int {
	if r.CostURL != "" && r.Length != nil {
		return *r.Length
	}
	return len(r.Values)
}

// Bounds resolves the requested interval.
func (r *APISplitRequest) Bounds() (int, int) {
	start, end := 0, r.DomainLength()
	if r.Start != nil {
		start = *r.Start
	}
	if r.End != nil {
		end = *r.End
	}
	return start, end
}

// CostKind resolves the requested cost model, falling back to def.
func (r *APISplitRequest) CostKind(def perf.CostKind) (perf.CostKind, error) {
	kind := perf.CostKind(r.Cost)
	if kind == "" {
		kind = def
	}
	return kind, errors.WithStack(kind.Validate())
}

// CostOptions resolves the cost model selection of the request.
func (r *APISplitRequest) CostOptions(def perf.CostKind) (perf.CostOptions, error) {
	kind, err := r.CostKind(def)
	if err != nil {
		return perf.CostOptions{}, err
	}
	if r.Length != nil && *r.Length < 0 {
		return perf.CostOptions{}, errors.Errorf("invalid length %d", *r.Length)
	}

	opts := perf.CostOptions{
		Kind:   kind,
		URL:    r.CostURL,
		Values: r.Values,
	}
	if r.CostURL != "" {
		opts.Length = r.DomainLength()
	}
	return opts, nil
}

// APISplitResult describes the outcome of a split search. Changepoint is
// null when the interval has no interior index.
type APISplitResult struct {
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Changepoint *int    `json:"changepoint"`
	TotalCost   float64 `json:"total_cost"`
	SplitCost   float64 `json:"split_cost"`
	Gain        float64 `json:"gain"`
}

// Import transforms a perf.SplitResult (or a pointer to one) into an
// APISplitResult.
func (a *APISplitResult) Import(i interface{}) error {
	var res perf.SplitResult
	switch r := i.(type) {
	case perf.SplitResult:
		res = r
	case *perf.SplitResult:
		if r == nil {
			return errors.New("cannot import nil split result")
		}
		res = *r
	default:
		return errors.Errorf("incorrect type %T when converting to APISplitResult", i)
	}

	a.Start = res.Start
	a.End = res.End
	a.TotalCost = res.TotalCost
	a.SplitCost = res.SplitCost
	a.Gain = res.Gain
	a.Changepoint = nil
	if res.Found {
		cp := res.Changepoint
		a.Changepoint = &cp
	}

	return nil
}

// Export transforms the APISplitResult back into a perf.SplitResult.
func (a *APISplitResult) Export() (interface{}, error) {
	res := perf.SplitResult{
		Start:       a.Start,
		End:         a.End,
		Changepoint: -1,
		TotalCost:   a.TotalCost,
		SplitCost:   a.SplitCost,
		Gain:        a.Gain,
	}
	if a.Changepoint != nil {
		res.Changepoint = *a.Changepoint
		res.Found = true
	}
	return res, nil
}

// APISplitJob describes an asynchronous split search.
type APISplitJob struct {
	ID        *string         `json:"id"`
	Completed bool            `json:"completed"`
	Result    *APISplitResult `json:"result,omitempty"`
	Error     *string         `json:"error,omitempty"`
}

// Import transforms a *units.FindSplitJob into an APISplitJob.
func (a *APISplitJob) Import(i interface{}) error {
	j, ok := i.(*units.FindSplitJob)
	if !ok || j == nil {
		return errors.Errorf("incorrect type %T when converting to APISplitJob", i)
	}

	a.ID = utility.ToStringPtr(j.ID())
	a.Completed = j.Status().Completed
	a.Result = nil
	a.Error = nil

	// the worker writes the result before marking the job complete
	if !a.Completed {
		return nil
	}

	if err := j.Error(); err != nil {
		a.Error = utility.ToStringPtr(err.Error())
	}
	if j.Result != nil {
		a.Result = &APISplitResult{}
		if err := a.Result.Import(*j.Result); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

// Export is not supported for jobs.
func (a *APISplitJob) Export() (interface{}, error) {
	return nil, errors.New("split jobs cannot be exported")
}
