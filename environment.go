package binseg

import (
	"sync"

	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

var globalEnv *envState

func init()                       { resetEnv() }
func GetEnvironment() Environment { return globalEnv }

func resetEnv() { globalEnv = &envState{name: "global"} }

// Environment objects provide access to the process configuration and the
// shared job queue.
type Environment interface {
	Configure(*Configuration) error

	// GetQueue retrieves the shared queue used by the REST service and
	// command line operations to run split jobs.
	GetQueue() (amboy.Queue, error)
	// SetQueue installs a queue; it fails if one is already set.
	SetQueue(amboy.Queue) error

	GetConf() (*Configuration, error)
}

// NewEnvironment returns a configured environment that is independent
// of the global one.
func NewEnvironment(name string, conf *Configuration) (Environment, error) {
	env := &envState{name: name}
	if err := env.Configure(conf); err != nil {
		return nil, errors.WithStack(err)
	}
	return env, nil
}

type envState struct {
	name  string
	queue amboy.Queue
	conf  *Configuration
	mutex sync.RWMutex
}

func (c *envState) Configure(conf *Configuration) error {
	if conf == nil {
		return errors.New("cannot configure with a nil configuration")
	}

	if err := conf.Validate(); err != nil {
		return errors.WithStack(err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.conf = conf

	if c.queue == nil {
		c.queue = queue.NewLocalLimitedSize(conf.NumWorkers, conf.QueueCapacity)
		grip.Info(message.Fields{
			"message":  "configured local queue",
			"env":      c.name,
			"queue":    QueueName,
			"workers":  conf.NumWorkers,
			"capacity": conf.QueueCapacity,
		})
	}

	return nil
}

func (c *envState) SetQueue(q amboy.Queue) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.queue != nil {
		return errors.New("queue exists, cannot overwrite")
	}

	if q == nil {
		return errors.New("cannot set queue to nil")
	}

	c.queue = q
	grip.Noticef("caching a '%T' queue in the '%s' service cache for use in tasks", q, c.name)
	return nil
}

func (c *envState) GetQueue() (amboy.Queue, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.queue == nil {
		return nil, errors.New("no queue defined in the services cache")
	}

	return c.queue, nil
}

func (c *envState) GetConf() (*Configuration, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.conf == nil {
		return nil, errors.New("configuration is not set")
	}

	// copy the struct
	out := &Configuration{}
	*out = *c.conf
	out.CORSOrigins = append([]string{}, c.conf.CORSOrigins...)

	return out, nil
}
