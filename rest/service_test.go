package rest

import (
	"testing"

	"github.com/evergreen-ci/binseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceValidate(t *testing.T) {
	t.Run("RequiresEnvironment", func(t *testing.T) {
		s := &Service{}
		assert.Error(t, s.Validate())
	})
	t.Run("UnconfiguredEnvironment", func(t *testing.T) {
		s := &Service{Environment: binseg.GetEnvironment()}
		assert.Error(t, s.Validate())
	})
	t.Run("Defaults", func(t *testing.T) {
		env, err := binseg.NewEnvironment("rest.test", &binseg.Configuration{
			ServicePort: 9123,
			CORSOrigins: []string{"http://localhost:8080"},
		})
		require.NoError(t, err)

		s := &Service{Environment: env}
		require.NoError(t, s.Validate())
		assert.Equal(t, 9123, s.Port)
		assert.Equal(t, "rest", s.Prefix)
		assert.NotNil(t, s.queue)
		assert.NotNil(t, s.app)
	})
	t.Run("ExplicitPort", func(t *testing.T) {
		env, err := binseg.NewEnvironment("rest.test", &binseg.Configuration{})
		require.NoError(t, err)

		s := &Service{Environment: env, Port: 4000, Prefix: "api"}
		require.NoError(t, s.Validate())
		assert.Equal(t, 4000, s.Port)
		assert.Equal(t, "api", s.Prefix)
	})
}
