package casestudy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legoio/internal/table"
)

// fixtureSlots lists the (rp, k) grid of the fixture hour index.
func fixtureSlots() []struct{ RP, K string } {
	return []struct{ RP, K string }{
		{"rp01", "k0001"}, {"rp01", "k0002"},
		{"rp02", "k0001"}, {"rp02", "k0002"},
	}
}

// fixtureTables builds a small three-bus system per scenario: an SN line
// b1-b2, a DC-OPF line b2-b3, one thermal unit, two renewables, one storage
// unit and one exchange hub. The hour index covers eight hours in four
// two-hour blocks alternating rp01 and rp02.
func fixtureTables(scenarios ...string) Tables {
	if len(scenarios) == 0 {
		scenarios = []string{DefaultScenario}
	}
	in := Tables{
		Global: GlobalParameters{
			Solver:             "gurobi",
			PowerScalingFactor: 0.5,
			CostScalingFactor:  2,
		},
		Power: PowerParameters{
			SBase:              100,
			ENSCost:            1000,
			LOLCost:            500,
			MaxAngleDCOPF:      60,
			EnableThermalGen:   true,
			EnableVRES:         true,
			EnableStorage:      true,
			EnableImportExport: true,
		},
	}

	for _, sc := range scenarios {
		in.Scenarios = append(in.Scenarios, ScenarioRow{ScenarioID: sc, RelativeWeight: 1})

		in.BusInfo = append(in.BusInfo,
			BusRow{Scenario: sc, Bus: "b1", Zone: "z1", BaseVolt: 220, Lat: 40, Long: -3, YearCom: 2000, YearDecom: 2050, ZOI: true},
			BusRow{Scenario: sc, Bus: "b2", Zone: "z1", BaseVolt: 220, Lat: 42, Long: -4, YearCom: 2010, YearDecom: 2060},
			BusRow{Scenario: sc, Bus: "b3", Zone: "z2", BaseVolt: 400, Lat: 44, Long: -5, YearCom: 2020, YearDecom: 2070},
		)
		in.Network = append(in.Network,
			LineRow{Scenario: sc, I: "b1", J: "b2", Circuit: "c1", LineID: "l12", TecRepr: TecReprSingleNode, X: 0.0001, Pmax: 999, YearCom: 2000, YearDecom: 2050},
			LineRow{Scenario: sc, I: "b2", J: "b3", Circuit: "c1", LineID: "l23", TecRepr: TecReprDCOPF, R: 0.01, X: 0.2, Pmax: 10, YearCom: 2005, YearDecom: 2055},
		)

		for i, slot := range fixtureSlots() {
			delta := float64(i) / 10
			in.Demand = append(in.Demand,
				DemandRow{Scenario: sc, RP: slot.RP, K: slot.K, Bus: "b1", Value: 1.0 + delta},
				DemandRow{Scenario: sc, RP: slot.RP, K: slot.K, Bus: "b2", Value: 2.0 + delta},
			)
			in.VRESProfiles = append(in.VRESProfiles,
				VRESProfileRow{Scenario: sc, RP: slot.RP, K: slot.K, Bus: "b1", Tec: "Solar", Value: 0.3},
				VRESProfileRow{Scenario: sc, RP: slot.RP, K: slot.K, Bus: "b2", Tec: "Solar", Value: 0.5},
			)
			in.Inflows = append(in.Inflows,
				InflowRow{Scenario: sc, RP: slot.RP, K: slot.K, G: "h1", Value: 2.0 + delta},
			)
			in.ImpExpProfiles = append(in.ImpExpProfiles,
				ImpExpProfileRow{Scenario: sc, RP: slot.RP, K: slot.K, Hub: "hub1", ImpExpPrice: 50, CapacityFactor: 1},
			)
		}

		in.ThermalGen = append(in.ThermalGen, ThermalGenRow{
			Scenario: sc, G: "t1", Tec: "CCGT", Bus: "b3",
			ExisUnits: 1, InvestCost: 100,
			MaxProd: 10, MinProd: 2, RampUp: 5, RampDw: 5,
			OMVarCost: 2, FuelCost: 10, Efficiency: 0.5, EFOR: 0.1,
			CommitConsumption: 0.1, StartupConsumption: 3,
			MinUpTime: 2, MinDownTime: 1, Qmin: -500, Qmax: 500,
		})
		in.VRES = append(in.VRES,
			VRESRow{Scenario: sc, G: "v1", Tec: "Solar", Bus: "b2", ExisUnits: 2, EnableInvest: 1, MaxInvest: 3, InvestCost: 80, MaxProd: 10, OMVarCost: 1},
			VRESRow{Scenario: sc, G: "h1", Tec: "Hydro", Bus: "b3", ExisUnits: 1, MaxProd: 5, OMVarCost: 0.5},
		)
		in.Storage = append(in.Storage, StorageRow{
			Scenario: sc, G: "s1", Tec: "Battery", Bus: "b3",
			ExisUnits: 1, InvestCostPerMW: 50, InvestCostPerMWh: 10, Ene2PowRatio: 4,
			MaxProd: 4, MaxCons: 4, IniReserve: 8, MinReserve: 2,
			DisEffic: 0.9, ChEffic: 0.85, OMVarCost: 0.5, Qmin: -200, Qmax: 200,
		})
		in.ImpExpHubs = append(in.ImpExpHubs, ImpExpHubRow{Scenario: sc, Hub: "hub1", Bus: "b3", ImpExpMin: -5, ImpExpMax: 5})

		for i, slot := range append(fixtureSlots(), fixtureSlots()...) {
			in.Hindex = append(in.Hindex, HindexRow{
				Scenario: sc, P: fmt.Sprintf("h%04d", i+1),
				RP: slot.RP, K: slot.K,
				DataPackage: "fixture", DataSource: "unit",
			})
		}
		in.WeightsRP = append(in.WeightsRP,
			WeightRPRow{Scenario: sc, RP: "rp01", Weight: 2},
			WeightRPRow{Scenario: sc, RP: "rp02", Weight: 2},
		)
		in.WeightsK = append(in.WeightsK,
			WeightKRow{Scenario: sc, K: "k0001", Weight: 1},
			WeightKRow{Scenario: sc, K: "k0002", Weight: 1},
		)
	}
	return in
}

func newFixture(t *testing.T, opts Options, scenarios ...string) *CaseStudy {
	t.Helper()
	cs, err := New(fixtureTables(scenarios...), opts)
	require.NoError(t, err)
	return cs
}

func TestNewDefaults(t *testing.T) {
	in := fixtureTables()
	in.Global.PowerScalingFactor = 0
	in.Global.CostScalingFactor = 0
	in.Scenarios = nil

	cs, err := New(in, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, cs.PowerScalingFactor)
	assert.Equal(t, 1.0, cs.CostScalingFactor)
	assert.Equal(t, []string{DefaultScenario}, cs.ScenarioIDs(),
		"empty registry falls back to the default scenario")
}

func TestNewRejectsDuplicateKeys(t *testing.T) {
	in := fixtureTables()
	in.Demand = append(in.Demand, in.Demand[0])

	_, err := New(in, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), TableDemand)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestNewValidatesReferences(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tables)
		wantErr error
	}{
		{
			name: "demand at unknown bus",
			mutate: func(in *Tables) {
				in.Demand[0].Bus = "ghost"
			},
			wantErr: ErrMissingBus,
		},
		{
			name: "bus tagged with unregistered scenario",
			mutate: func(in *Tables) {
				in.BusInfo[0].Scenario = "ScenarioZ"
			},
			wantErr: ErrUnknownScenario,
		},
		{
			name: "demand outside the hour index",
			mutate: func(in *Tables) {
				in.Demand[0].RP = "rp09"
			},
			wantErr: ErrMissingTimeslot,
		},
		{
			name: "line endpoint missing",
			mutate: func(in *Tables) {
				in.Network[1].J = "ghost"
			},
			wantErr: ErrMissingBus,
		},
		{
			name: "inflow outside the hour index",
			mutate: func(in *Tables) {
				in.Inflows[0].K = "k0099"
			},
			wantErr: ErrMissingTimeslot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fixtureTables()
			tt.mutate(&in)
			_, err := New(in, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRunsPreparationSequence(t *testing.T) {
	cs, err := New(fixtureTables(), DefaultOptions())
	require.NoError(t, err)

	merged := MergedBusPrefix + "b1-b2"
	assert.True(t, cs.BusInfo.Has(table.Key(DefaultScenario, merged)))
	assert.False(t, cs.BusInfo.Has(table.Key(DefaultScenario, "b1")))

	// Demand merges first (1.0 + 2.0 on the first slot), then scales by the
	// power factor.
	row, ok := cs.Demand.Get(table.Key(DefaultScenario, "rp01", "k0001", merged))
	require.True(t, ok)
	assert.InDelta(t, 3.0*0.5, row.Value, 1e-12)
}

func TestCopyIsIndependent(t *testing.T) {
	cs := newFixture(t, Options{})
	cp := cs.Copy()

	require.NoError(t, cp.Demand.Update(func(r DemandRow) DemandRow {
		r.Value = -1
		return r
	}))
	cp.RPTransitionAbsolute.Dense().Set(0, 0, 99)

	orig, ok := cs.Demand.Get(table.Key(DefaultScenario, "rp01", "k0001", "b1"))
	require.True(t, ok)
	assert.Equal(t, 1.0, orig.Value)
	assert.Equal(t, 0.0, cs.RPTransitionAbsolute.At(0, 0))
}

func TestScenarioIDs(t *testing.T) {
	cs := newFixture(t, Options{}, "ScenarioA", "ScenarioB")
	assert.Equal(t, []string{"ScenarioA", "ScenarioB"}, cs.ScenarioIDs())
}
