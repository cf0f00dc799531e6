package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli"
)

func flagNames(flags []cli.Flag) map[string]cli.Flag {
	flagMap := map[string]cli.Flag{}
	for _, f := range flags {
		flagMap[f.GetName()] = f
	}
	return flagMap
}

func TestBaseFlags(t *testing.T) {
	assert := assert.New(t)

	flagMap := flagNames(addConfigFlag(baseFlags()...))

	expected := []string{"workers", "port, p", "config"}
	for _, n := range expected {
		_, ok := flagMap[n]
		assert.True(ok, n)
	}
}

func TestSplitFlags(t *testing.T) {
	assert := assert.New(t)

	flagMap := flagNames(addOutputPath(intervalFlags(addPathFlag()...)...))
	assert.Len(flagMap, 6)

	for _, n := range []string{"path, filename, file, f", "output, o", "start", "end", "cost", "cost-url"} {
		_, ok := flagMap[n]
		assert.True(ok, n)
	}

	end, ok := flagMap["end"].(cli.IntFlag)
	assert.True(ok)
	assert.Equal(-1, end.Value)
}

func TestMergeFlags(t *testing.T) {
	merged := mergeFlags(addPathFlag(), restServiceFlags())
	assert.Len(t, merged, 3)
	assert.Len(t, mergeFlags(), 0)
}

func TestResolveEnd(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(10, resolveEnd(-1, 10))
	assert.Equal(9, resolveEnd(-2, 10))
	assert.Equal(4, resolveEnd(4, 10))
	assert.Equal(0, resolveEnd(0, 10))
}

func TestCostKindNames(t *testing.T) {
	assert.Equal(t, "l2|l2_stable|l1", costKindNames())
}
