package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legoio/internal/casestudy"
)

// exportFixture builds a small but fully referenced case study covering
// every core table. Merging and scaling stay off so the exported cells
// match the inputs.
func exportFixture(t *testing.T) *casestudy.CaseStudy {
	t.Helper()

	nan := math.NaN()
	cs, err := casestudy.New(casestudy.Tables{
		Scenarios: []casestudy.ScenarioRow{
			{ScenarioID: "ScenarioA", RelativeWeight: 1, Comment: "baseline"},
		},
		BusInfo: []casestudy.BusRow{
			{Scenario: "ScenarioA", Bus: "Madrid", Zone: "ES", BaseVolt: 220, Lat: 40.42, Long: -3.7, YearCom: nan, YearDecom: nan, ZOI: true},
			{Scenario: "ScenarioA", Bus: "Sevilla", Zone: "ES", BaseVolt: 220, Lat: 37.39, Long: -5.99, YearCom: 2030, YearDecom: nan, ZOI: false},
		},
		Network: []casestudy.LineRow{
			{Scenario: "ScenarioA", I: "Madrid", J: "Sevilla", Circuit: "c1", LineID: "L001", TecRepr: casestudy.TecReprDCOPF, R: 0.01, X: 0.1, Pmax: 500, InvestCost: nan, YearCom: nan, YearDecom: nan},
		},
		Demand: []casestudy.DemandRow{
			{Scenario: "ScenarioA", RP: "rp01", K: "k0001", Bus: "Madrid", Value: 10.5},
			{Scenario: "ScenarioA", RP: "rp01", K: "k0002", Bus: "Madrid", Value: 11},
		},
		ThermalGen: []casestudy.ThermalGenRow{
			{Scenario: "ScenarioA", G: "CCGT_1", Tec: "CCGT", Bus: "Madrid", ExisUnits: 1, MaxProd: 400, MinProd: 120, FuelCost: 25.5, Efficiency: 0.55, MinUpTime: 4, MinDownTime: 2, Qmin: nan, Qmax: nan},
		},
		VRES: []casestudy.VRESRow{
			{Scenario: "ScenarioA", G: "Solar_1", Tec: "Solar", Bus: "Sevilla", ExisUnits: 1, EnableInvest: 1, MaxInvest: 3, MaxProd: 50},
		},
		VRESProfiles: []casestudy.VRESProfileRow{
			{Scenario: "ScenarioA", RP: "rp01", K: "k0001", Bus: "Sevilla", Tec: "Solar", Value: 0.31},
		},
		Storage: []casestudy.StorageRow{
			{Scenario: "ScenarioA", G: "Battery_1", Tec: "BESS", Bus: "Madrid", ExisUnits: 1, Ene2PowRatio: 4, MaxProd: 10, MaxCons: 10, DisEffic: 0.95, ChEffic: 0.95},
		},
		Inflows: []casestudy.InflowRow{
			{Scenario: "ScenarioA", RP: "rp01", K: "k0001", G: "Hydro_1", Value: 3.25},
		},
		ImpExpHubs: []casestudy.ImpExpHubRow{
			{Scenario: "ScenarioA", Hub: "FR", Bus: "Madrid", ImpExpMin: -1000, ImpExpMax: 1000},
		},
		ImpExpProfiles: []casestudy.ImpExpProfileRow{
			{Scenario: "ScenarioA", RP: "rp01", K: "k0001", Hub: "FR", ImpExpPrice: 42.5, CapacityFactor: 1},
		},
		WeightsRP: []casestudy.WeightRPRow{
			{Scenario: "ScenarioA", RP: "rp01", Weight: 1},
		},
		WeightsK: []casestudy.WeightKRow{
			{Scenario: "ScenarioA", K: "k0001", Weight: 1},
			{Scenario: "ScenarioA", K: "k0002", Weight: 1},
		},
		Hindex: []casestudy.HindexRow{
			{Scenario: "ScenarioA", P: "h0001", RP: "rp01", K: "k0001"},
			{Scenario: "ScenarioA", P: "h0002", RP: "rp01", K: "k0002"},
		},
	}, casestudy.Options{})
	require.NoError(t, err)
	return cs
}

// readCSV reads an exported file back, stripping the BOM prefix.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	rows, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCoreTablesCoversEveryTable(t *testing.T) {
	cs := exportFixture(t)

	files := CoreTables(cs)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		assert.NotEmpty(t, f.Headers, "table %s has no headers", f.Name)
	}
	assert.Equal(t, []string{
		casestudy.TableGlobalScenarios,
		casestudy.TableBusInfo,
		casestudy.TableNetwork,
		casestudy.TableDemand,
		casestudy.TableThermalGen,
		casestudy.TableVRES,
		casestudy.TableVRESProfiles,
		casestudy.TableStorage,
		casestudy.TableInflows,
		casestudy.TableImpExpHubs,
		casestudy.TableImpExpProfiles,
		casestudy.TableWeightsRP,
		casestudy.TableWeightsK,
		casestudy.TableHindex,
	}, names)

	// Every table except the registry itself carries the scenario tag first.
	for _, f := range files {
		if f.Name == casestudy.TableGlobalScenarios {
			assert.Equal(t, "scenarioID", f.Headers[0])
			continue
		}
		assert.Equal(t, "scenario", f.Headers[0], "table %s", f.Name)
	}

	// Record widths match the headers.
	for _, f := range files {
		for i, rec := range f.Records {
			assert.Len(t, rec, len(f.Headers), "table %s record %d", f.Name, i)
		}
	}
}

func TestExportWritesAllFiles(t *testing.T) {
	cs := exportFixture(t)
	tempDir := t.TempDir()

	err := Export(cs, NewCSVWriter(tempDir))
	require.NoError(t, err)

	for _, f := range CoreTables(cs) {
		_, err := os.Stat(filepath.Join(tempDir, f.FileName()))
		assert.NoError(t, err, "missing %s", f.FileName())
	}
}

func TestExportBusInfoCells(t *testing.T) {
	cs := exportFixture(t)
	tempDir := t.TempDir()

	require.NoError(t, Export(cs, NewCSVWriter(tempDir)))

	rows := readCSV(t, filepath.Join(tempDir, "Power_BusInfo.csv"))
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"scenario", "i", "zone", "baseVolt", "lat", "long",
		"YearCom", "YearDecom", "zoi",
	}, rows[0])

	// Madrid: NaN years become empty cells, ZOI renders numeric.
	assert.Equal(t, []string{"ScenarioA", "Madrid", "ES", "220", "40.42", "-3.7", "", "", "1"}, rows[1])
	assert.Equal(t, []string{"ScenarioA", "Sevilla", "ES", "220", "37.39", "-5.99", "2030", "", "0"}, rows[2])
}

func TestExportDemandCells(t *testing.T) {
	cs := exportFixture(t)
	tempDir := t.TempDir()

	require.NoError(t, Export(cs, NewCSVWriter(tempDir)))

	rows := readCSV(t, filepath.Join(tempDir, "Power_Demand.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"scenario", "rp", "k", "i", "value"}, rows[0])
	assert.Equal(t, []string{"ScenarioA", "rp01", "k0001", "Madrid", "10.5"}, rows[1])
	assert.Equal(t, []string{"ScenarioA", "rp01", "k0002", "Madrid", "11"}, rows[2])
}

func TestExportThermalGenCells(t *testing.T) {
	cs := exportFixture(t)
	tempDir := t.TempDir()

	require.NoError(t, Export(cs, NewCSVWriter(tempDir)))

	rows := readCSV(t, filepath.Join(tempDir, "Power_ThermalGen.csv"))
	require.Len(t, rows, 2)

	header := rows[0]
	rec := rows[1]
	cell := func(col string) string {
		for i, h := range header {
			if h == col {
				return rec[i]
			}
		}
		t.Fatalf("column %q not found in %v", col, header)
		return ""
	}

	assert.Equal(t, "CCGT_1", cell("g"))
	assert.Equal(t, "Madrid", cell("i"))
	assert.Equal(t, "400", cell("MaxProd"))
	assert.Equal(t, "25.5", cell("FuelCost"))
	assert.Equal(t, "0.55", cell("Efficiency"))
	assert.Equal(t, "", cell("Qmin"))
	assert.Equal(t, "", cell("pSlopeVarCostEUR"))
}

func TestExportEmptyTableKeepsHeaders(t *testing.T) {
	cs := exportFixture(t)
	require.NoError(t, cs.ImpExpHubs.Replace(nil))
	require.NoError(t, cs.ImpExpProfiles.Replace(nil))
	tempDir := t.TempDir()

	require.NoError(t, Export(cs, NewCSVWriter(tempDir)))

	rows := readCSV(t, filepath.Join(tempDir, "Power_ImpExpHubs.csv"))
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"scenario", "hub", "i", "ImpExpMin", "ImpExpMax"}, rows[0])
}

func TestExportTable(t *testing.T) {
	cs := exportFixture(t)
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	err := ExportTable(cs, writer, casestudy.TableWeightsRP)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(tempDir, "Power_WeightsRP.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"scenario", "rp", "weight"}, rows[0])
	assert.Equal(t, []string{"ScenarioA", "rp01", "1"}, rows[1])

	// Only the requested file is written.
	_, err = os.Stat(filepath.Join(tempDir, "Power_Demand.csv"))
	assert.True(t, os.IsNotExist(err))

	err = ExportTable(cs, writer, "Power_Bogus")
	assert.ErrorContains(t, err, "unknown table")
}

func TestNumFormatting(t *testing.T) {
	assert.Equal(t, "", num(math.NaN()))
	assert.Equal(t, "2030", num(2030))
	assert.Equal(t, "0.125", num(0.125))
	assert.Equal(t, "-3.7", num(-3.7))
	assert.Equal(t, "1", flag(true))
	assert.Equal(t, "0", flag(false))
}
