package binseg

import (
	"testing"

	"github.com/mongodb/amboy/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestGlobalEnvironment(t *testing.T) {
	assert.Exactly(t, globalEnv, GetEnvironment())

	first := GetEnvironment()
	first.(*envState).name = "foo"
	assert.Exactly(t, globalEnv, GetEnvironment())

	resetEnv()
	second := GetEnvironment()
	assert.NotEqual(t, first, second)
}

type EnvironmentSuite struct {
	env *envState
	suite.Suite
}

func TestEnvironmentSuite(t *testing.T) {
	suite.Run(t, new(EnvironmentSuite))
}

func (s *EnvironmentSuite) SetupTest() {
	s.env = &envState{name: "binseg.testing"}
}

func (s *EnvironmentSuite) TestDefaultValues() {
	s.Nil(s.env.queue)
	s.Nil(s.env.conf)
	s.Equal("binseg.testing", s.env.name)

	conf, err := s.env.GetConf()
	s.Error(err)
	s.Nil(conf)

	q, err := s.env.GetQueue()
	s.Error(err)
	s.Nil(q)
}

func (s *EnvironmentSuite) TestQueueNotSettableToNil() {
	s.Error(s.env.SetQueue(nil))
	s.Nil(s.env.queue)

	q := queue.NewLocalLimitedSize(2, 16)
	s.NoError(s.env.SetQueue(q))
	s.Equal(q, s.env.queue)

	s.Error(s.env.SetQueue(nil))
	s.Error(s.env.SetQueue(queue.NewLocalLimitedSize(2, 16)))
	s.Equal(q, s.env.queue)

	retrieved, err := s.env.GetQueue()
	s.NoError(err)
	s.Equal(q, retrieved)
}

func (s *EnvironmentSuite) TestConfigureCreatesQueue() {
	s.Error(s.env.Configure(nil))
	s.Error(s.env.Configure(&Configuration{NumWorkers: -1}))
	s.Nil(s.env.queue)

	s.NoError(s.env.Configure(&Configuration{NumWorkers: 3}))
	s.NotNil(s.env.queue)

	conf, err := s.env.GetConf()
	s.Require().NoError(err)
	s.Equal(3, conf.NumWorkers)
	s.Equal(DefaultQueueCapacity, conf.QueueCapacity)
}

func (s *EnvironmentSuite) TestConfigureKeepsExistingQueue() {
	q := queue.NewLocalLimitedSize(1, 8)
	s.Require().NoError(s.env.SetQueue(q))
	s.NoError(s.env.Configure(&Configuration{}))
	s.Equal(q, s.env.queue)
}

func (s *EnvironmentSuite) TestGetConfReturnsCopy() {
	s.Require().NoError(s.env.Configure(&Configuration{CORSOrigins: []string{"a"}}))

	conf, err := s.env.GetConf()
	s.Require().NoError(err)
	conf.NumWorkers = 100
	conf.CORSOrigins[0] = "b"

	again, err := s.env.GetConf()
	s.Require().NoError(err)
	s.Equal(DefaultNumWorkers, again.NumWorkers)
	s.Equal([]string{"a"}, again.CORSOrigins)
}

func TestNewEnvironment(t *testing.T) {
	env, err := NewEnvironment("test", &Configuration{NumWorkers: 1})
	require.NoError(t, err)
	assert.NotEqual(t, GetEnvironment(), env)

	q, err := env.GetQueue()
	assert.NoError(t, err)
	assert.NotNil(t, q)

	_, err = NewEnvironment("bad", &Configuration{DefaultCost: "l7"})
	assert.Error(t, err)
}
