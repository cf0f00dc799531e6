package units

import (
	"context"
	"time"

	"github.com/evergreen-ci/binseg"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const tsFormat = "2006-01-02.15-04-05"

// StartCrons schedules the periodic background jobs of a service process
// on the environment's queue. The queue should already be started.
func StartCrons(ctx context.Context, env binseg.Environment) error {
	conf, err := env.GetConf()
	if err != nil {
		return errors.Wrap(err, "problem getting configuration")
	}

	q, err := env.GetQueue()
	if err != nil {
		return errors.Wrap(err, "problem getting queue")
	}

	opts := amboy.QueueOperationConfig{
		ContinueOnError: true,
		LogErrors:       false,
		DebugLogging:    false,
	}

	grip.Info(message.Fields{
		"message":       "starting background cron jobs",
		"started":       q.Info().Started,
		"stats_enabled": !conf.DisableQueueStats,
	})

	if conf.DisableQueueStats {
		return nil
	}

	amboy.IntervalQueueOperation(ctx, q, time.Minute, time.Now(), opts, func(ctx context.Context, queue amboy.Queue) error {
		return queue.Put(ctx, NewQueueStatsCollector(env, utility.RoundPartOfMinute(0).Format(tsFormat)))
	})

	return nil
}
