package exporter

import (
	"fmt"
	"math"
	"strconv"

	"legoio/internal/casestudy"
)

// TableFile is one core table rendered to flat CSV form: the long format
// with one row per record, not the pivoted workbook layout.
type TableFile struct {
	Name    string
	Headers []string
	Records [][]string
}

// FileName returns the CSV file name for the table.
func (f TableFile) FileName() string { return f.Name + ".csv" }

// Export writes every core table of the case study as <TableName>.csv under
// the writer's output directory. Empty tables still produce a header-only
// file so downstream consumers see a complete set.
func Export(cs *casestudy.CaseStudy, w *CSVWriter) error {
	for _, f := range CoreTables(cs) {
		if err := w.WriteSimpleCSV(f.FileName(), f.Headers, f.Records); err != nil {
			return fmt.Errorf("exporting %s: %w", f.Name, err)
		}
	}
	return nil
}

// ExportTable writes a single core table by name.
func ExportTable(cs *casestudy.CaseStudy, w *CSVWriter, name string) error {
	for _, f := range CoreTables(cs) {
		if f.Name == name {
			if err := w.WriteSimpleCSV(f.FileName(), f.Headers, f.Records); err != nil {
				return fmt.Errorf("exporting %s: %w", f.Name, err)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown table %q", name)
}

// CoreTables renders every core table of the case study. Column names match
// the workbook database row so CSV and Excel exports stay interchangeable.
func CoreTables(cs *casestudy.CaseStudy) []TableFile {
	return []TableFile{
		scenariosFile(cs),
		busInfoFile(cs),
		networkFile(cs),
		demandFile(cs),
		thermalGenFile(cs),
		vresFile(cs),
		vresProfilesFile(cs),
		storageFile(cs),
		inflowsFile(cs),
		impExpHubsFile(cs),
		impExpProfilesFile(cs),
		weightsRPFile(cs),
		weightsKFile(cs),
		hindexFile(cs),
	}
}

func scenariosFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableGlobalScenarios,
		Headers: []string{"scenarioID", "relativeWeight", "comments"},
	}
	for _, r := range cs.Scenarios.Rows() {
		f.Records = append(f.Records, []string{r.ScenarioID, num(r.RelativeWeight), r.Comment})
	}
	return f
}

func busInfoFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name: casestudy.TableBusInfo,
		Headers: []string{
			"scenario", "i", "zone", "baseVolt", "lat", "long",
			"YearCom", "YearDecom", "zoi",
		},
	}
	for _, r := range cs.BusInfo.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.Bus, r.Zone, num(r.BaseVolt), num(r.Lat), num(r.Long),
			num(r.YearCom), num(r.YearDecom), flag(r.ZOI),
		})
	}
	return f
}

func networkFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name: casestudy.TableNetwork,
		Headers: []string{
			"scenario", "i", "j", "c", "LineID", "tecRepr",
			"R", "X", "Pmax", "InvestCost", "YearCom", "YearDecom",
		},
	}
	for _, r := range cs.Network.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.I, r.J, r.Circuit, r.LineID, r.TecRepr,
			num(r.R), num(r.X), num(r.Pmax), num(r.InvestCost),
			num(r.YearCom), num(r.YearDecom),
		})
	}
	return f
}

func demandFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableDemand,
		Headers: []string{"scenario", "rp", "k", "i", "value"},
	}
	for _, r := range cs.Demand.Rows() {
		f.Records = append(f.Records, []string{r.Scenario, r.RP, r.K, r.Bus, num(r.Value)})
	}
	return f
}

func thermalGenFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name: casestudy.TableThermalGen,
		Headers: []string{
			"scenario", "g", "tec", "i",
			"ExisUnits", "EnableInvest", "MaxInvest", "InvestCost", "InvestCostEUR",
			"MaxProd", "MinProd", "RampUp", "RampDw",
			"OMVarCost", "FuelCost", "Efficiency", "EFOR",
			"CommitConsumption", "StartupConsumption",
			"pSlopeVarCostEUR", "pInterVarCostEUR", "pStartupCostEUR",
			"MinUpTime", "MinDownTime", "Qmin", "Qmax",
		},
	}
	for _, r := range cs.ThermalGen.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.G, r.Tec, r.Bus,
			num(r.ExisUnits), num(r.EnableInvest), num(r.MaxInvest), num(r.InvestCost), num(r.InvestCostEUR),
			num(r.MaxProd), num(r.MinProd), num(r.RampUp), num(r.RampDw),
			num(r.OMVarCost), num(r.FuelCost), num(r.Efficiency), num(r.EFOR),
			num(r.CommitConsumption), num(r.StartupConsumption),
			num(r.SlopeVarCostEUR), num(r.InterVarCostEUR), num(r.StartupCostEUR),
			num(r.MinUpTime), num(r.MinDownTime), num(r.Qmin), num(r.Qmax),
		})
	}
	return f
}

func vresFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name: casestudy.TableVRES,
		Headers: []string{
			"scenario", "g", "tec", "i",
			"ExisUnits", "EnableInvest", "MaxInvest", "InvestCost", "InvestCostEUR",
			"MaxProd", "MinProd", "OMVarCost", "Qmin", "Qmax",
		},
	}
	for _, r := range cs.VRES.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.G, r.Tec, r.Bus,
			num(r.ExisUnits), num(r.EnableInvest), num(r.MaxInvest), num(r.InvestCost), num(r.InvestCostEUR),
			num(r.MaxProd), num(r.MinProd), num(r.OMVarCost), num(r.Qmin), num(r.Qmax),
		})
	}
	return f
}

func vresProfilesFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableVRESProfiles,
		Headers: []string{"scenario", "rp", "k", "i", "tec", "g", "value"},
	}
	for _, r := range cs.VRESProfiles.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.RP, r.K, r.Bus, r.Tec, r.G, num(r.Value),
		})
	}
	return f
}

func storageFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name: casestudy.TableStorage,
		Headers: []string{
			"scenario", "g", "tec", "i",
			"ExisUnits", "EnableInvest", "InvestCostPerMW", "InvestCostPerMWh",
			"Ene2PowRatio", "InvestCostEUR", "MaxProd", "MaxCons", "MinProd",
			"IniReserve", "MinReserve", "DisEffic", "ChEffic",
			"OMVarCost", "pOMVarCostEUR", "Qmin", "Qmax",
		},
	}
	for _, r := range cs.Storage.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.G, r.Tec, r.Bus,
			num(r.ExisUnits), num(r.EnableInvest), num(r.InvestCostPerMW), num(r.InvestCostPerMWh),
			num(r.Ene2PowRatio), num(r.InvestCostEUR), num(r.MaxProd), num(r.MaxCons), num(r.MinProd),
			num(r.IniReserve), num(r.MinReserve), num(r.DisEffic), num(r.ChEffic),
			num(r.OMVarCost), num(r.OMVarCostEUR), num(r.Qmin), num(r.Qmax),
		})
	}
	return f
}

func inflowsFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableInflows,
		Headers: []string{"scenario", "rp", "k", "g", "value"},
	}
	for _, r := range cs.Inflows.Rows() {
		f.Records = append(f.Records, []string{r.Scenario, r.RP, r.K, r.G, num(r.Value)})
	}
	return f
}

func impExpHubsFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableImpExpHubs,
		Headers: []string{"scenario", "hub", "i", "ImpExpMin", "ImpExpMax"},
	}
	for _, r := range cs.ImpExpHubs.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.Hub, r.Bus, num(r.ImpExpMin), num(r.ImpExpMax),
		})
	}
	return f
}

func impExpProfilesFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableImpExpProfiles,
		Headers: []string{"scenario", "rp", "k", "hub", "ImpExpPrice", "CapacityFactor"},
	}
	for _, r := range cs.ImpExpProfiles.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.RP, r.K, r.Hub, num(r.ImpExpPrice), num(r.CapacityFactor),
		})
	}
	return f
}

func weightsRPFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableWeightsRP,
		Headers: []string{"scenario", "rp", "weight"},
	}
	for _, r := range cs.WeightsRP.Rows() {
		f.Records = append(f.Records, []string{r.Scenario, r.RP, num(r.Weight)})
	}
	return f
}

func weightsKFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableWeightsK,
		Headers: []string{"scenario", "k", "weight"},
	}
	for _, r := range cs.WeightsK.Rows() {
		f.Records = append(f.Records, []string{r.Scenario, r.K, num(r.Weight)})
	}
	return f
}

func hindexFile(cs *casestudy.CaseStudy) TableFile {
	f := TableFile{
		Name:    casestudy.TableHindex,
		Headers: []string{"scenario", "p", "rp", "k", "dataPackage", "dataSource"},
	}
	for _, r := range cs.Hindex.Rows() {
		f.Records = append(f.Records, []string{
			r.Scenario, r.P, r.RP, r.K, r.DataPackage, r.DataSource,
		})
	}
	return f
}

// num renders a float cell. NaN marks a missing value and becomes an empty
// cell, matching the workbook convention.
func num(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// flag renders a boolean cell as the numeric 1/0 the workbooks use.
func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
