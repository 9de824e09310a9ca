package casestudy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legoio/internal/table"
)

func TestToFullHourlyModel(t *testing.T) {
	cs := newFixture(t, Options{})

	out, err := cs.ToFullHourlyModel(false)
	require.NoError(t, err)
	require.NotNil(t, out)

	t.Run("tables expand to the chronological horizon", func(t *testing.T) {
		assert.Equal(t, 16, out.Demand.Len(), "eight hours times two buses")
		assert.Equal(t, 8, out.Hindex.Len())
		assert.Equal(t, 8, out.WeightsK.Len())
		assert.Equal(t, 1, out.WeightsRP.Len())

		rp := out.WeightsRP.Rows()[0]
		assert.Equal(t, HourlyRP, rp.RP)
		assert.Equal(t, 1.0, rp.Weight)
		for _, w := range out.WeightsK.Rows() {
			assert.Equal(t, 1.0, w.Weight)
		}
	})

	t.Run("hours carry their representative slot data", func(t *testing.T) {
		// Hour three sat in the rp02/k0001 slot, hour five back in rp01/k0001.
		row, ok := out.Demand.Get(table.Key(DefaultScenario, HourlyRP, "k0003", "b1"))
		require.True(t, ok)
		assert.InDelta(t, 1.2, row.Value, 1e-12)

		row, ok = out.Demand.Get(table.Key(DefaultScenario, HourlyRP, "k0005", "b1"))
		require.True(t, ok)
		assert.InDelta(t, 1.0, row.Value, 1e-12)

		inflow, ok := out.Inflows.Get(table.Key(DefaultScenario, HourlyRP, "k0004", "h1"))
		require.True(t, ok)
		assert.InDelta(t, 2.3, inflow.Value, 1e-12)
	})

	t.Run("hour index becomes the identity mapping", func(t *testing.T) {
		for _, r := range out.Hindex.Rows() {
			assert.Equal(t, HourlyRP, r.RP)
			assert.Equal(t, r.P[1:], r.K[1:], "hour p maps onto timestep k of the same ordinal")
		}
	})

	t.Run("transition matrices collapse to the single period", func(t *testing.T) {
		abs := out.RPTransitionAbsolute
		require.NotNil(t, abs)
		assert.Equal(t, []string{HourlyRP}, abs.RPs())
		assert.Equal(t, 1.0, abs.At(0, 0))
		assert.Equal(t, 1.0, out.RPTransitionRelativeTo.At(0, 0))
	})

	assert.Equal(t, 8, cs.Demand.Len(), "receiver untouched without inplace")
}

func TestToFullHourlyModelInplace(t *testing.T) {
	cs := newFixture(t, Options{})

	out, err := cs.ToFullHourlyModel(true)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 16, cs.Demand.Len())
	assert.Equal(t, []string{HourlyRP}, cs.RPTransitionAbsolute.RPs())
}

func TestToFullHourlyModelPerScenario(t *testing.T) {
	cs := newFixture(t, Options{}, "ScenarioA", "ScenarioB")

	out, err := cs.ToFullHourlyModel(false)
	require.NoError(t, err)

	assert.Equal(t, 32, out.Demand.Len())
	for _, sc := range []string{"ScenarioA", "ScenarioB"} {
		assert.True(t, out.Demand.Has(table.Key(sc, HourlyRP, "k0008", "b2")))
		assert.True(t, out.Hindex.Has(table.Key(sc, "h0008")))
	}
}
