package binseg

import (
	"github.com/evergreen-ci/binseg/perf"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Configuration defines the settings of a binseg process.
type Configuration struct {
	NumWorkers    int           `bson:"num_workers" json:"num_workers" yaml:"num_workers"`
	QueueCapacity int           `bson:"queue_capacity" json:"queue_capacity" yaml:"queue_capacity"`
	ServicePort   int           `bson:"service_port" json:"service_port" yaml:"service_port"`
	DefaultCost   perf.CostKind `bson:"default_cost" json:"default_cost" yaml:"default_cost"`
	CORSOrigins   []string      `bson:"cors_origins" json:"cors_origins" yaml:"cors_origins"`

	DisableQueueStats bool `bson:"disable_queue_stats" json:"disable_queue_stats" yaml:"disable_queue_stats"`
}

// Validate fills unset values with defaults and reports invalid ones.
func (c *Configuration) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.NumWorkers == 0 {
		c.NumWorkers = DefaultNumWorkers
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	if c.ServicePort == 0 {
		c.ServicePort = DefaultServicePort
	}
	if c.DefaultCost == "" {
		c.DefaultCost = perf.DefaultCostKind
	}

	catcher.NewWhen(c.NumWorkers < 1, "must specify a valid number of amboy workers")
	catcher.NewWhen(c.QueueCapacity < c.NumWorkers, "queue capacity must be at least the number of workers")
	catcher.NewWhen(c.ServicePort < 0 || c.ServicePort > 65535, "service port is out of range")
	catcher.Add(c.DefaultCost.Validate())

	return catcher.Resolve()
}

// LoadConfiguration reads a YAML (or JSON) configuration file and
// validates it.
func LoadConfiguration(path string) (*Configuration, error) {
	conf := &Configuration{}
	if err := utility.ReadYAMLFile(path, conf); err != nil {
		return nil, errors.Wrapf(err, "problem reading configuration from '%s'", path)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return conf, nil
}
