package crisis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-treasury/internal/model"
)

func TestDetectNeverFiresAtZeroProbability(t *testing.T) {
	g := NewGenerator(0, DefaultGridFailurePenalty, rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		assert.Nil(t, g.Detect())
	}
}

func TestDetectAlwaysFiresAtFullProbability(t *testing.T) {
	g := NewGenerator(1, DefaultGridFailurePenalty, rand.New(rand.NewSource(1)))
	seen := map[model.CrisisKind]bool{}
	for i := 0; i < 1000; i++ {
		c := g.Detect()
		require.NotNil(t, c)
		seen[c.Kind] = true
	}
	// Uniform selection over the catalog reaches all three kinds.
	assert.Len(t, seen, 3)
}

func TestForceIsOneShot(t *testing.T) {
	g := NewGenerator(0, DefaultGridFailurePenalty, rand.New(rand.NewSource(1)))

	require.NoError(t, g.Force("grid_failure"))
	assert.Equal(t, model.CrisisGridFailure, g.Forced())

	c := g.Detect()
	require.NotNil(t, c)
	assert.Equal(t, model.CrisisGridFailure, c.Kind)

	// The force is consumed: with probability 0 the next draw is stable.
	assert.Nil(t, g.Detect())
	assert.Equal(t, model.CrisisKind(""), g.Forced())
}

func TestForceNoneClears(t *testing.T) {
	g := NewGenerator(0, DefaultGridFailurePenalty, nil)
	require.NoError(t, g.Force("cloud_cover"))
	require.NoError(t, g.Force("none"))
	assert.Nil(t, g.Detect())
}

func TestForceUnknownKindRejectedWithoutMutation(t *testing.T) {
	g := NewGenerator(0, DefaultGridFailurePenalty, nil)
	require.NoError(t, g.Force("price_crash"))

	err := g.Force("asteroid_strike")
	assert.Error(t, err)
	// The pending force survives the rejected call.
	assert.Equal(t, model.CrisisPriceCrash, g.Forced())
}

func TestCatalogImpacts(t *testing.T) {
	g := NewGenerator(0.35, 4.0, nil)

	cloud, ok := g.Lookup(model.CrisisCloudCover)
	require.True(t, ok)
	assert.Equal(t, 0.95, cloud.ProductionDrop)
	assert.Equal(t, 0.80, cloud.AssetImpact)

	crash, ok := g.Lookup(model.CrisisPriceCrash)
	require.True(t, ok)
	assert.Equal(t, 0.90, crash.PriceDrop)
	assert.Equal(t, 0.78, crash.AssetImpact)

	grid, ok := g.Lookup(model.CrisisGridFailure)
	require.True(t, ok)
	assert.Equal(t, 0.30, grid.ProductionDrop)
	assert.Equal(t, 0.88, grid.AssetImpact)
	assert.Equal(t, 4.0, grid.CashPenalty)
}
