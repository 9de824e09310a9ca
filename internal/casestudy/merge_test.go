package casestudy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legoio/internal/table"
)

func TestMergeSingleNodeBuses(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.MergeSingleNodeBuses())

	merged := MergedBusPrefix + "b1-b2"

	t.Run("bus info aggregates the component", func(t *testing.T) {
		require.Equal(t, 2, cs.BusInfo.Len())
		assert.False(t, cs.BusInfo.Has(table.Key(DefaultScenario, "b1")))
		assert.False(t, cs.BusInfo.Has(table.Key(DefaultScenario, "b2")))

		bus, ok := cs.BusInfo.Get(table.Key(DefaultScenario, merged))
		require.True(t, ok)
		assert.InDelta(t, 41.0, bus.Lat, 1e-12)
		assert.InDelta(t, -3.5, bus.Long, 1e-12)
		assert.InDelta(t, 2005.0, bus.YearCom, 1e-12)
		assert.True(t, bus.ZOI, "zone-of-interest flag ORs across members")
		assert.Equal(t, "z1", bus.Zone, "non-aggregated fields take the first member")
	})

	t.Run("internal line dropped, survivor re-keyed", func(t *testing.T) {
		require.Equal(t, 1, cs.Network.Len())
		line := cs.Network.Rows()[0]
		assert.Equal(t, "b3", line.I)
		assert.Equal(t, merged, line.J)
		assert.Equal(t, TecReprDCOPF, line.TecRepr)
		assert.Equal(t, 10.0, line.Pmax)
	})

	t.Run("demand sums per slot", func(t *testing.T) {
		require.Equal(t, 4, cs.Demand.Len())
		row, ok := cs.Demand.Get(table.Key(DefaultScenario, "rp02", "k0002", merged))
		require.True(t, ok)
		assert.InDelta(t, 1.3+2.3, row.Value, 1e-12)
	})

	t.Run("profiles average per slot", func(t *testing.T) {
		require.Equal(t, 4, cs.VRESProfiles.Len())
		row, ok := cs.VRESProfiles.Get(table.Key(DefaultScenario, "rp01", "k0001", merged, "Solar", ""))
		require.True(t, ok)
		assert.InDelta(t, 0.4, row.Value, 1e-12)
	})

	t.Run("units and hubs follow the rename", func(t *testing.T) {
		v1, ok := cs.VRES.Get(table.Key(DefaultScenario, "v1"))
		require.True(t, ok)
		assert.Equal(t, merged, v1.Bus)

		t1, ok := cs.ThermalGen.Get(table.Key(DefaultScenario, "t1"))
		require.True(t, ok)
		assert.Equal(t, "b3", t1.Bus, "buses outside the component keep their name")

		hub, ok := cs.ImpExpHubs.Get(table.Key(DefaultScenario, "hub1"))
		require.True(t, ok)
		assert.Equal(t, "b3", hub.Bus)
	})
}

func TestMergeIsIdempotent(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.MergeSingleNodeBuses())

	before := cs.Copy()
	require.NoError(t, cs.MergeSingleNodeBuses())

	assert.Equal(t, before.BusInfo.Rows(), cs.BusInfo.Rows())
	assert.Equal(t, before.Network.Rows(), cs.Network.Rows())
	assert.Equal(t, before.Demand.Rows(), cs.Demand.Rows())
	assert.Equal(t, before.VRESProfiles.Rows(), cs.VRESProfiles.Rows())
}

func TestMergeCollapsesParallelLines(t *testing.T) {
	in := minimalTables("a", "b", "c")
	in.Network = []LineRow{
		{Scenario: DefaultScenario, I: "a", J: "b", Circuit: "c1", TecRepr: TecReprSingleNode, X: 0.0001, Pmax: 999},
		{Scenario: DefaultScenario, I: "b", J: "c", Circuit: "c1", TecRepr: TecReprDCOPF, X: 0.2, Pmax: 10},
		{Scenario: DefaultScenario, I: "a", J: "c", Circuit: "c2", TecRepr: "NTC", X: 0.3, Pmax: 8},
	}
	cs, err := New(in, Options{})
	require.NoError(t, err)
	require.NoError(t, cs.MergeSingleNodeBuses())

	require.Equal(t, 1, cs.Network.Len())
	line := cs.Network.Rows()[0]
	assert.Equal(t, "c", line.I)
	assert.Equal(t, MergedBusPrefix+"a-b", line.J)
	assert.InDelta(t, 0.12, line.X, 1e-12, "reactances combine in parallel")
	assert.InDelta(t, 16.0, line.Pmax, 1e-12, "capacity is min times line count")
	assert.Equal(t, TecReprDCOPF, line.TecRepr, "DC-OPF wins over other representations")
}

func TestMergeChainsIntoOneComponent(t *testing.T) {
	in := minimalTables("a", "b", "c")
	in.Network = []LineRow{
		{Scenario: DefaultScenario, I: "a", J: "b", Circuit: "c1", TecRepr: TecReprSingleNode, X: 0.0001, Pmax: 999},
		{Scenario: DefaultScenario, I: "b", J: "c", Circuit: "c1", TecRepr: TecReprSingleNode, X: 0.0001, Pmax: 999},
	}
	cs, err := New(in, Options{})
	require.NoError(t, err)
	require.NoError(t, cs.MergeSingleNodeBuses())

	assert.Equal(t, 0, cs.Network.Len())
	require.Equal(t, 1, cs.BusInfo.Len())
	assert.Equal(t, MergedBusPrefix+"a-b-c", cs.BusInfo.Rows()[0].Bus)
}

func TestMergeMissingEndpointFails(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.Network.Append(LineRow{
		Scenario: DefaultScenario, I: "b3", J: "ghost", Circuit: "c9", TecRepr: TecReprSingleNode, X: 0.0001,
	}))

	err := cs.MergeSingleNodeBuses()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBus)
}

// minimalTables builds the smallest valid study over the given buses: one
// scenario, one hour, a flat demand row per bus.
func minimalTables(buses ...string) Tables {
	in := Tables{
		Scenarios: []ScenarioRow{{ScenarioID: DefaultScenario, RelativeWeight: 1}},
		Hindex: []HindexRow{
			{Scenario: DefaultScenario, P: "h0001", RP: "rp01", K: "k0001"},
		},
		WeightsRP: []WeightRPRow{{Scenario: DefaultScenario, RP: "rp01", Weight: 1}},
		WeightsK:  []WeightKRow{{Scenario: DefaultScenario, K: "k0001", Weight: 1}},
	}
	for i, b := range buses {
		in.BusInfo = append(in.BusInfo, BusRow{
			Scenario: DefaultScenario, Bus: b, Zone: "z1", BaseVolt: 220,
			Lat: float64(40 + i), Long: float64(-3 - i),
		})
		in.Demand = append(in.Demand, DemandRow{
			Scenario: DefaultScenario, RP: "rp01", K: "k0001", Bus: b,
			Value: float64(i + 1),
		})
	}
	return in
}

func TestMergeHandlesMultipleScenarios(t *testing.T) {
	cs := newFixture(t, Options{}, "ScenarioA", "ScenarioB")
	require.NoError(t, cs.MergeSingleNodeBuses())

	for _, sc := range []string{"ScenarioA", "ScenarioB"} {
		assert.True(t, cs.BusInfo.Has(table.Key(sc, MergedBusPrefix+"b1-b2")),
			fmt.Sprintf("scenario %s merges independently", sc))
	}
	assert.Equal(t, 4, cs.BusInfo.Len())
}
