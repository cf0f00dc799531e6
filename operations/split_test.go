package operations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/evergreen-ci/binseg"
	"github.com/evergreen-ci/binseg/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunSplit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	series := writeFile(t, "series.txt", "1\n1\n1\n9\n9\n9\n")

	t.Run("WholeSeries", func(t *testing.T) {
		out, err := runSplit(ctx, splitOptions{path: series, end: -1})
		require.NoError(t, err)
		require.NotNil(t, out.Changepoint)
		assert.Equal(t, 3, *out.Changepoint)
		assert.Equal(t, 0, out.Start)
		assert.Equal(t, 6, out.End)
		assert.InDelta(t, 96.0, out.TotalCost, 1e-9)
		assert.InDelta(t, 0.0, out.SplitCost, 1e-9)
		assert.InDelta(t, 96.0, out.Gain, 1e-9)
	})
	t.Run("SubInterval", func(t *testing.T) {
		out, err := runSplit(ctx, splitOptions{path: series, start: 2, end: 5, cost: perf.CostL1})
		require.NoError(t, err)
		require.NotNil(t, out.Changepoint)
		assert.Equal(t, 3, *out.Changepoint)
	})
	t.Run("SingleElementInterval", func(t *testing.T) {
		out, err := runSplit(ctx, splitOptions{path: series, start: 2, end: 3})
		require.NoError(t, err)
		assert.Nil(t, out.Changepoint)
	})
	t.Run("InvalidInterval", func(t *testing.T) {
		_, err := runSplit(ctx, splitOptions{path: series, start: 4, end: 2})
		require.Error(t, err)
		assert.True(t, perf.IsRangeError(err))
	})
	t.Run("RemoteCost", func(t *testing.T) {
		local, err := perf.NewPrefixSumCost([]float64{1, 1, 1, 9, 9, 9})
		require.NoError(t, err)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := struct {
				Start int `json:"start"`
				End   int `json:"end"`
			}{}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			value, err := local.Eval(req.Start, req.End)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			assert.NoError(t, json.NewEncoder(w).Encode(map[string]float64{"cost": value}))
		}))
		defer srv.Close()

		out, err := runSplit(ctx, splitOptions{path: series, end: -1, url: srv.URL})
		require.NoError(t, err)
		require.NotNil(t, out.Changepoint)
		assert.Equal(t, 3, *out.Changepoint)
		assert.InDelta(t, 96.0, out.Gain, 1e-9)
	})
	t.Run("UnknownCost", func(t *testing.T) {
		_, err := runSplit(ctx, splitOptions{path: series, end: -1, cost: "l3"})
		assert.Error(t, err)
	})
	t.Run("MissingFile", func(t *testing.T) {
		_, err := runSplit(ctx, splitOptions{path: filepath.Join(t.TempDir(), "none.txt"), end: -1})
		assert.Error(t, err)
	})
}

func TestServiceConfiguration(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		conf, err := serviceConfiguration("", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, binseg.DefaultNumWorkers, conf.NumWorkers)
		assert.Equal(t, binseg.DefaultServicePort, conf.ServicePort)
		assert.Equal(t, perf.DefaultCostKind, conf.DefaultCost)
	})
	t.Run("FlagsOverrideFile", func(t *testing.T) {
		path := writeFile(t, "conf.yaml", "num_workers: 3\nservice_port: 8080\ndefault_cost: l1\n")

		conf, err := serviceConfiguration(path, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, conf.NumWorkers)
		assert.Equal(t, 8080, conf.ServicePort)
		assert.Equal(t, perf.CostL1, conf.DefaultCost)
	})
	t.Run("InvalidFile", func(t *testing.T) {
		path := writeFile(t, "conf.yaml", "default_cost: l3\n")

		_, err := serviceConfiguration(path, 0, 0)
		assert.Error(t, err)
	})
}
