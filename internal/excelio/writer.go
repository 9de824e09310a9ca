package excelio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"legoio/internal/casestudy"
	"legoio/internal/table"
)

// WriteTables writes every sheet of a case study into dir, one workbook per
// table. The output loads back through ReadTables; cell styling is not
// reproduced.
func WriteTables(cs *casestudy.CaseStudy, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// A bundle that carries unit rows must re-load them, so the enable
	// flags are forced on wherever the matching tables are populated.
	power := cs.Power
	power.EnableThermalGen = power.EnableThermalGen || cs.ThermalGen.Len() > 0
	power.EnableVRES = power.EnableVRES || cs.VRES.Len() > 0 || cs.VRESProfiles.Len() > 0
	power.EnableStorage = power.EnableStorage || cs.Storage.Len() > 0
	power.EnableImportExport = power.EnableImportExport || cs.ImpExpHubs.Len() > 0 || cs.ImpExpProfiles.Len() > 0

	steps := []struct {
		table string
		write func(string) error
	}{
		{DefGlobalParameters.Table, func(p string) error { return WriteGlobalParameters(cs.Global, p) }},
		{DefScenarios.Table, func(p string) error { return WriteScenarios(cs.Scenarios.Rows(), p) }},
		{DefPowerParameters.Table, func(p string) error { return WritePowerParameters(power, p) }},
		{DefBusInfo.Table, func(p string) error { return WriteBusInfo(cs.BusInfo.Rows(), p) }},
		{DefNetwork.Table, func(p string) error { return WriteNetwork(cs.Network.Rows(), p) }},
		{DefDemand.Table, func(p string) error { return WriteDemand(cs.Demand.Rows(), p) }},
		{DefThermalGen.Table, func(p string) error { return WriteThermalGen(cs.ThermalGen.Rows(), p) }},
		{DefVRES.Table, func(p string) error { return WriteVRES(cs.VRES.Rows(), p) }},
		{DefVRESProfiles.Table, func(p string) error { return WriteVRESProfiles(cs.VRESProfiles.Rows(), p) }},
		{DefStorage.Table, func(p string) error { return WriteStorage(cs.Storage.Rows(), p) }},
		{DefInflows.Table, func(p string) error { return WriteInflows(cs.Inflows.Rows(), p) }},
		{DefImpExpHubs.Table, func(p string) error { return WriteImpExpHubs(cs.ImpExpHubs.Rows(), p) }},
		{DefImpExpProfiles.Table, func(p string) error { return WriteImpExpProfiles(cs.ImpExpProfiles.Rows(), p) }},
		{DefWeightsRP.Table, func(p string) error { return WriteWeightsRP(cs.WeightsRP.Rows(), p) }},
		{DefWeightsK.Table, func(p string) error { return WriteWeightsK(cs.WeightsK.Rows(), p) }},
		{DefHindex.Table, func(p string) error { return WriteHindex(cs.Hindex.Rows(), p) }},
	}
	for _, st := range steps {
		path := filepath.Join(dir, st.table+".xlsx")
		if err := st.write(path); err != nil {
			return fmt.Errorf("writing %s: %w", st.table, err)
		}
	}
	return nil
}

// cellWriter collects the first write error so sheet assembly stays linear.
// Nil and empty-string values leave the cell blank.
type cellWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *cellWriter) set(col, row int, v any) {
	if w.err != nil || v == nil {
		return
	}
	if s, ok := v.(string); ok && s == "" {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

// writeHeaderBlock fills rows 1-7: title, version tag, and the per-column
// header block. kLabels extend the block for pivoted timestep columns.
func writeHeaderBlock(w *cellWriter, def SheetDefinition, kLabels []string) {
	w.set(2, titleRow, def.Title)
	w.set(2, versionRow, "Version:")
	w.set(3, versionRow, def.Version)

	if def.HasExcl {
		w.set(1, readableRow, "Excl.")
		w.set(1, dbNameRow, "excl")
		w.set(1, descRow, exclDescription)
	}
	for i, c := range def.Fixed {
		col := i + 2
		w.set(col, readableRow, c.Readable)
		w.set(col, dbNameRow, c.DBName)
		w.set(col, descRow, c.Description)
		w.set(col, behaviorRow, c.Behavior)
		w.set(col, unitRow, c.Unit)
	}
	for i, label := range kLabels {
		col := len(def.Fixed) + 2 + i
		w.set(col, readableRow, label)
		w.set(col, dbNameRow, label)
		w.set(col, unitRow, def.PivotUnit)
	}
}

// writeFlatSheet writes a non-pivoted workbook. Each record aligns with the
// fixed columns of the definition; column A stays empty.
func writeFlatSheet(path string, def SheetDefinition, records [][]any) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", def.Table); err != nil {
		return err
	}

	w := &cellWriter{f: f, sheet: def.Table}
	writeHeaderBlock(w, def, nil)
	for r, rec := range records {
		for c, v := range rec {
			w.set(c+2, firstDataRow+r, v)
		}
	}
	if w.err != nil {
		return fmt.Errorf("assembling sheet %s: %w", def.Table, w.err)
	}
	return saveWorkbook(f, path)
}

// pivotRow is one sheet row of a pivoted workbook: the fixed cells plus the
// timestep cells keyed by k label.
type pivotRow struct {
	fixed []any
	cells map[string]float64
}

// pivotGroups accumulates pivot rows in first-touch order.
type pivotGroups struct {
	index map[string]*pivotRow
	rows  []*pivotRow
}

func newPivotGroups() *pivotGroups {
	return &pivotGroups{index: make(map[string]*pivotRow)}
}

func (g *pivotGroups) row(key string, fixed []any) *pivotRow {
	if r, ok := g.index[key]; ok {
		return r
	}
	r := &pivotRow{fixed: fixed, cells: make(map[string]float64)}
	g.index[key] = r
	g.rows = append(g.rows, r)
	return r
}

// writePivotSheet writes a pivoted workbook. The k columns are the sorted
// union of the timesteps seen; NaN cells stay blank.
func writePivotSheet(path string, def SheetDefinition, rows []*pivotRow) error {
	labels := make(map[string]struct{})
	for _, r := range rows {
		for k := range r.cells {
			labels[k] = struct{}{}
		}
	}
	kLabels := make([]string, 0, len(labels))
	for k := range labels {
		kLabels = append(kLabels, k)
	}
	sort.Strings(kLabels)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", def.Table); err != nil {
		return err
	}

	w := &cellWriter{f: f, sheet: def.Table}
	writeHeaderBlock(w, def, kLabels)
	for r, row := range rows {
		for c, v := range row.fixed {
			w.set(c+2, firstDataRow+r, v)
		}
		for i, label := range kLabels {
			v, ok := row.cells[label]
			if !ok || math.IsNaN(v) {
				continue
			}
			w.set(len(def.Fixed)+2+i, firstDataRow+r, v)
		}
	}
	if w.err != nil {
		return fmt.Errorf("assembling sheet %s: %w", def.Table, w.err)
	}
	return saveWorkbook(f, path)
}

func saveWorkbook(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// numCell renders a float cell. NaN marks a missing value and stays blank.
func numCell(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// flagCell renders a boolean as the numeric 1/0 the sheets use.
func flagCell(b bool) any {
	if b {
		return 1
	}
	return 0
}

// WriteScenarios writes the scenario registry workbook.
func WriteScenarios(rows []casestudy.ScenarioRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{r.ScenarioID, numCell(r.RelativeWeight), r.Comment})
	}
	return writeFlatSheet(path, DefScenarios, records)
}

// WriteGlobalParameters writes the global parameter workbook.
func WriteGlobalParameters(p casestudy.GlobalParameters, path string) error {
	records := [][]any{
		{"Solver", p.Solver},
		{"EnableRMIP", flagCell(p.EnableRMIP)},
		{"PowerScalingFactor", numCell(p.PowerScalingFactor)},
		{"CostScalingFactor", numCell(p.CostScalingFactor)},
	}
	return writeFlatSheet(path, DefGlobalParameters, records)
}

// WritePowerParameters writes the power system parameter workbook.
func WritePowerParameters(p casestudy.PowerParameters, path string) error {
	records := [][]any{
		{"SBase", numCell(p.SBase)},
		{"ENSCost", numCell(p.ENSCost)},
		{"LOLCost", numCell(p.LOLCost)},
		{"MaxAngleDCOPF", numCell(p.MaxAngleDCOPF)},
		{"EnableThermalGen", flagCell(p.EnableThermalGen)},
		{"EnableVRES", flagCell(p.EnableVRES)},
		{"EnableStorage", flagCell(p.EnableStorage)},
		{"EnableImportExport", flagCell(p.EnableImportExport)},
		{"EnableSOCP", flagCell(p.EnableSOCP)},
		{"EnableChDisPower", flagCell(p.EnableChDisPower)},
		{"FixStInterResToIniReserve", flagCell(p.FixStInterResToIniReserve)},
		{"EnableSoftLineLoadLimits", flagCell(p.EnableSoftLineLoadLimits)},
	}
	return writeFlatSheet(path, DefPowerParameters, records)
}

// WriteBusInfo writes the bus workbook.
func WriteBusInfo(rows []casestudy.BusRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{
			r.Scenario, r.Bus, r.Zone, numCell(r.BaseVolt), numCell(r.Lat), numCell(r.Long),
			numCell(r.YearCom), numCell(r.YearDecom), flagCell(r.ZOI),
		})
	}
	return writeFlatSheet(path, DefBusInfo, records)
}

// WriteNetwork writes the line workbook.
func WriteNetwork(rows []casestudy.LineRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{
			r.Scenario, r.I, r.J, r.Circuit, r.LineID, r.TecRepr,
			numCell(r.R), numCell(r.X), numCell(r.Pmax), numCell(r.InvestCost),
			numCell(r.YearCom), numCell(r.YearDecom),
		})
	}
	return writeFlatSheet(path, DefNetwork, records)
}

// WriteThermalGen writes the thermal unit workbook.
func WriteThermalGen(rows []casestudy.ThermalGenRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{
			r.Scenario, r.G, r.Tec, r.Bus,
			numCell(r.ExisUnits), numCell(r.EnableInvest), numCell(r.MaxInvest),
			numCell(r.InvestCost), numCell(r.InvestCostEUR),
			numCell(r.MaxProd), numCell(r.MinProd), numCell(r.RampUp), numCell(r.RampDw),
			numCell(r.OMVarCost), numCell(r.FuelCost), numCell(r.Efficiency), numCell(r.EFOR),
			numCell(r.CommitConsumption), numCell(r.StartupConsumption),
			numCell(r.SlopeVarCostEUR), numCell(r.InterVarCostEUR), numCell(r.StartupCostEUR),
			numCell(r.MinUpTime), numCell(r.MinDownTime), numCell(r.Qmin), numCell(r.Qmax),
		})
	}
	return writeFlatSheet(path, DefThermalGen, records)
}

// WriteVRES writes the variable renewable unit workbook.
func WriteVRES(rows []casestudy.VRESRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{
			r.Scenario, r.G, r.Tec, r.Bus,
			numCell(r.ExisUnits), numCell(r.EnableInvest), numCell(r.MaxInvest),
			numCell(r.InvestCost), numCell(r.InvestCostEUR),
			numCell(r.MaxProd), numCell(r.MinProd), numCell(r.OMVarCost),
			numCell(r.Qmin), numCell(r.Qmax),
		})
	}
	return writeFlatSheet(path, DefVRES, records)
}

// WriteStorage writes the storage unit workbook.
func WriteStorage(rows []casestudy.StorageRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{
			r.Scenario, r.G, r.Tec, r.Bus,
			numCell(r.ExisUnits), numCell(r.EnableInvest),
			numCell(r.InvestCostPerMW), numCell(r.InvestCostPerMWh), numCell(r.Ene2PowRatio),
			numCell(r.InvestCostEUR), numCell(r.MaxProd), numCell(r.MaxCons), numCell(r.MinProd),
			numCell(r.IniReserve), numCell(r.MinReserve), numCell(r.DisEffic), numCell(r.ChEffic),
			numCell(r.OMVarCost), numCell(r.OMVarCostEUR), numCell(r.Qmin), numCell(r.Qmax),
		})
	}
	return writeFlatSheet(path, DefStorage, records)
}

// WriteImpExpHubs writes the hub workbook.
func WriteImpExpHubs(rows []casestudy.ImpExpHubRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{
			r.Scenario, r.Hub, r.Bus, numCell(r.ImpExpMin), numCell(r.ImpExpMax),
		})
	}
	return writeFlatSheet(path, DefImpExpHubs, records)
}

// WriteWeightsRP writes the representative-period weight workbook.
func WriteWeightsRP(rows []casestudy.WeightRPRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{r.Scenario, r.RP, numCell(r.Weight)})
	}
	return writeFlatSheet(path, DefWeightsRP, records)
}

// WriteWeightsK writes the timestep weight workbook.
func WriteWeightsK(rows []casestudy.WeightKRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{r.Scenario, r.K, numCell(r.Weight)})
	}
	return writeFlatSheet(path, DefWeightsK, records)
}

// WriteHindex writes the hour index workbook.
func WriteHindex(rows []casestudy.HindexRow, path string) error {
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{nil, r.Scenario, r.P, r.RP, r.K, r.DataPackage, r.DataSource})
	}
	return writeFlatSheet(path, DefHindex, records)
}

// WriteDemand writes the pivoted demand workbook, one row per scenario, rp
// and bus.
func WriteDemand(rows []casestudy.DemandRow, path string) error {
	groups := newPivotGroups()
	for _, r := range rows {
		g := groups.row(table.Key(r.Scenario, r.RP, r.Bus),
			[]any{nil, r.Scenario, r.RP, r.Bus, nil, nil})
		g.cells[r.K] = r.Value
	}
	return writePivotSheet(path, DefDemand, groups.rows)
}

// WriteVRESProfiles writes the pivoted profile workbook, one row per
// scenario, rp, bus, technology and unit.
func WriteVRESProfiles(rows []casestudy.VRESProfileRow, path string) error {
	groups := newPivotGroups()
	for _, r := range rows {
		g := groups.row(table.Key(r.Scenario, r.RP, r.Bus, r.Tec, r.G),
			[]any{nil, r.Scenario, r.RP, r.Bus, r.Tec, r.G, nil, nil})
		g.cells[r.K] = r.Value
	}
	return writePivotSheet(path, DefVRESProfiles, groups.rows)
}

// WriteInflows writes the pivoted inflow workbook, one row per scenario, rp
// and unit.
func WriteInflows(rows []casestudy.InflowRow, path string) error {
	groups := newPivotGroups()
	for _, r := range rows {
		g := groups.row(table.Key(r.Scenario, r.RP, r.G),
			[]any{nil, r.Scenario, r.RP, r.G, nil, nil})
		g.cells[r.K] = r.Value
	}
	return writePivotSheet(path, DefInflows, groups.rows)
}

// WriteImpExpProfiles writes the pivoted hub profile workbook. Each
// property of a hub gets its own sheet row; properties that are NaN
// everywhere produce none.
func WriteImpExpProfiles(rows []casestudy.ImpExpProfileRow, path string) error {
	groups := newPivotGroups()
	for _, r := range rows {
		if !math.IsNaN(r.ImpExpPrice) {
			g := groups.row(table.Key(r.Scenario, r.RP, r.Hub, "ImpExpPrice"),
				[]any{nil, r.Scenario, r.RP, r.Hub, "ImpExpPrice", nil, nil})
			g.cells[r.K] = r.ImpExpPrice
		}
		if !math.IsNaN(r.CapacityFactor) {
			g := groups.row(table.Key(r.Scenario, r.RP, r.Hub, "CapacityFactor"),
				[]any{nil, r.Scenario, r.RP, r.Hub, "CapacityFactor", nil, nil})
			g.cells[r.K] = r.CapacityFactor
		}
	}
	return writePivotSheet(path, DefImpExpProfiles, groups.rows)
}
