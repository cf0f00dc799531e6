package units

import (
	"context"
	"fmt"

	"github.com/evergreen-ci/binseg/perf"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const findSplitJobName = "find-best-split"

// FindSplitJob searches a series for its best single split. The result is
// stored on the job before it is marked complete; read it only once
// Status().Completed is true.
type FindSplitJob struct {
	*job.Base `bson:"metadata" json:"metadata" yaml:"metadata"`
	Series    []float64         `bson:"series" json:"series" yaml:"series"`
	Cost      perf.CostKind     `bson:"cost" json:"cost" yaml:"cost"`
	CostURL   string            `bson:"cost_url,omitempty" json:"cost_url,omitempty" yaml:"cost_url,omitempty"`
	Length    int               `bson:"length,omitempty" json:"length,omitempty" yaml:"length,omitempty"`
	Start     int               `bson:"start" json:"start" yaml:"start"`
	End       int               `bson:"end" json:"end" yaml:"end"`
	Result    *perf.SplitResult `bson:"result,omitempty" json:"result,omitempty" yaml:"result,omitempty"`
}

func init() {
	registry.AddJobType(findSplitJobName, func() amboy.Job { return makeFindSplitJob() })
}

func makeFindSplitJob() *FindSplitJob {
	j := &FindSplitJob{
		Base: &job.Base{
			JobType: amboy.JobType{
				Name:    findSplitJobName,
				Version: 1,
			},
		},
	}
	j.SetDependency(dependency.NewAlways())
	return j
}

// NewFindSplitJob creates a job that searches [start, end) with the cost
// model selected by opts.
func NewFindSplitJob(opts perf.CostOptions, start, end int) *FindSplitJob {
	j := makeFindSplitJob()
	j.SetID(fmt.Sprintf("%s.%d.%s", j.JobType.Name, job.GetNumber(), utility.RandomString()))
	j.Series = append([]float64{}, opts.Values...)
	j.Cost = opts.Kind
	j.CostURL = opts.URL
	j.Length = opts.Length
	j.Start = start
	j.End = end
	return j
}

func (j *FindSplitJob) Run(ctx context.Context) {
	defer j.MarkComplete()

	cost, err := perf.CostOptions{
		Kind:   j.Cost,
		URL:    j.CostURL,
		Values: j.Series,
		Length: j.Length,
	}.Build()
	if err != nil {
		j.AddError(errors.Wrap(err, "problem building cost model"))
		return
	}

	res, err := perf.NewBinarySegmentation(cost, perf.LogSplit(level.Debug)).Predict(ctx, j.Start, j.End)
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "split search failed",
			"job":     j.ID(),
			"start":   j.Start,
			"end":     j.End,
			"cost":    j.Cost,
			"url":     j.CostURL,
		}))
		j.AddError(err)
		return
	}

	j.Result = &res
}
