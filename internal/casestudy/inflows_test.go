package casestudy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legoio/internal/table"
)

func TestInflowsToCapacityFactors(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.InflowsToCapacityFactors())

	// Rated capacity of h1 is 5, so the first inflow of 2.0 becomes 0.4.
	row, ok := cs.VRESProfiles.Get(table.Key(DefaultScenario, "rp01", "k0001", "b3", "Hydro", "h1"))
	require.True(t, ok)
	assert.InDelta(t, 0.4, row.Value, 1e-12)

	assert.Equal(t, 12, cs.VRESProfiles.Len(), "converted rows join the bus-level profiles")
	assert.Equal(t, 4, cs.Inflows.Len(), "inflow rows stay in place")

	err := cs.InflowsToCapacityFactors()
	require.Error(t, err, "converting twice collides on the generator-tagged keys")
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestInflowsToCapacityFactorsMissingGenerator(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.Inflows.Append(InflowRow{
		Scenario: DefaultScenario, RP: "rp01", K: "k0001", G: "ghost", Value: 1,
	}))

	err := cs.InflowsToCapacityFactors()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingGenerator)
}

func TestInflowsToCapacityFactorsUnusableCapacity(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.VRES.Update(func(r VRESRow) VRESRow {
		if r.G == "h1" {
			r.MaxProd = 0
		}
		return r
	}))

	err := cs.InflowsToCapacityFactors()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnusableCapacity)
}

func TestCapacityFactorsToInflowsRoundTrip(t *testing.T) {
	cs := newFixture(t, Options{})
	original := append([]InflowRow(nil), cs.Inflows.Rows()...)

	require.NoError(t, cs.InflowsToCapacityFactors())
	require.NoError(t, cs.Inflows.Replace(nil))
	require.NoError(t, cs.CapacityFactorsToInflows(true))

	require.Equal(t, len(original), cs.Inflows.Len())
	for _, want := range original {
		got, ok := cs.Inflows.Get(want.Key())
		require.True(t, ok)
		assert.InDelta(t, want.Value, got.Value, 1e-12)
	}

	assert.Equal(t, 8, cs.VRESProfiles.Len(), "generator-tagged profiles removed, bus-level kept")
	for _, r := range cs.VRESProfiles.Rows() {
		assert.Empty(t, r.G)
	}
}

func TestCapacityFactorsToInflowsKeepsProfiles(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.InflowsToCapacityFactors())
	require.NoError(t, cs.Inflows.Replace(nil))

	require.NoError(t, cs.CapacityFactorsToInflows(false))
	assert.Equal(t, 12, cs.VRESProfiles.Len())
	assert.Equal(t, 4, cs.Inflows.Len())
}
