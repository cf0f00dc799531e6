package units

import (
	"context"
	"fmt"

	"github.com/evergreen-ci/binseg"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const queueStatsCollectorJobName = "queue-stats-collector"

func init() {
	registry.AddJobType(queueStatsCollectorJobName,
		func() amboy.Job { return makeQueueStatsCollector() })
}

type queueStatsCollector struct {
	job.Base `bson:"job_base" json:"job_base" yaml:"job_base"`
	env      binseg.Environment
}

// NewQueueStatsCollector reports the status of the queue registered in
// the environment.
func NewQueueStatsCollector(env binseg.Environment, id string) amboy.Job {
	j := makeQueueStatsCollector()
	j.env = env
	j.SetID(fmt.Sprintf("%s-%s", queueStatsCollectorJobName, id))
	return j
}

func makeQueueStatsCollector() *queueStatsCollector {
	j := &queueStatsCollector{
		env: binseg.GetEnvironment(),
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    queueStatsCollectorJobName,
				Version: 0,
			},
		},
	}

	j.SetDependency(dependency.NewAlways())
	return j
}

func (j *queueStatsCollector) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.env == nil {
		j.env = binseg.GetEnvironment()
	}

	q, err := j.env.GetQueue()
	if err != nil {
		j.AddError(errors.Wrap(err, "problem getting queue"))
		return
	}

	if q.Info().Started {
		grip.Info(message.Fields{
			"message": "amboy queue stats",
			"job":     j.ID(),
			"stats":   q.Stats(ctx),
		})
	}
}
