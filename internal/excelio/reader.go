package excelio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"legoio/internal/casestudy"
	"legoio/internal/table"
)

// sheetData is one loaded sheet: the raw rows plus the column binding built
// from the database-name row.
type sheetData struct {
	def   SheetDefinition
	path  string
	rows  [][]string
	cols  map[string]int
	kCols []kColumn
}

// kColumn is one pivoted timestep column.
type kColumn struct {
	label string
	index int
}

// loadSheet opens a workbook, checks the version tag and binds the columns
// of the first sheet. Columns are located by database name, so extra or
// reordered columns do not break the read.
func loadSheet(path string, def SheetDefinition) (*sheetData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := checkVersion(f, path, def.Version); err != nil {
		return nil, err
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}
	if len(rows) < unitRow {
		return nil, fmt.Errorf("workbook %s: sheet %q is missing the header block", path, sheets[0])
	}

	s := &sheetData{def: def, path: path, rows: rows, cols: make(map[string]int)}

	fixed := make(map[string]struct{}, len(def.Fixed))
	for _, c := range def.Fixed {
		fixed[c.DBName] = struct{}{}
	}
	for i, name := range rows[dbNameRow-1] {
		name = strings.TrimSpace(name)
		if i == 0 || name == "" || name == "excl" {
			continue
		}
		if _, ok := fixed[name]; ok {
			s.cols[name] = i
			continue
		}
		if def.PivotK {
			s.kCols = append(s.kCols, kColumn{label: name, index: i})
		}
	}
	return s, nil
}

// checkVersion compares cell C2 of every sheet against the expected tag.
func checkVersion(f *excelize.File, path, want string) error {
	for _, sheet := range f.GetSheetList() {
		got, err := f.GetCellValue(sheet, "C2")
		if err != nil {
			return fmt.Errorf("failed to read version tag of %s: %w", path, err)
		}
		if got != want {
			return fmt.Errorf("workbook %s: sheet %q has version %q, expected %q", path, sheet, got, want)
		}
	}
	return nil
}

// require fails when a column the reader binds keys to is absent. Value
// columns stay optional and read as NaN.
func (s *sheetData) require(dbNames ...string) error {
	for _, name := range dbNames {
		if _, ok := s.cols[name]; !ok {
			return fmt.Errorf("workbook %s: missing column %q", s.path, name)
		}
	}
	return nil
}

// eachRow walks the data rows, skipping excluded and empty ones. rowNum is
// the 1-based Excel row for error messages.
func (s *sheetData) eachRow(fn func(rowNum int, row []string) error) error {
	for i := firstDataRow - 1; i < len(s.rows); i++ {
		row := s.rows[i]
		if s.def.HasExcl && cellAt(row, 0) != "" {
			continue
		}
		if rowEmpty(row) {
			continue
		}
		if err := fn(i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (s *sheetData) str(row []string, db string) string {
	idx, ok := s.cols[db]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func (s *sheetData) float(row []string, rowNum int, db string) (float64, error) {
	raw := s.str(row, db)
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: column %q: invalid number %q", s.def.Table, rowNum, db, raw)
	}
	return v, nil
}

func (s *sheetData) flag(row []string, rowNum int, db string) (bool, error) {
	v, err := parseFlagValue(s.str(row, db))
	if err != nil {
		return false, fmt.Errorf("%s row %d: column %q: %w", s.def.Table, rowNum, db, err)
	}
	return v, nil
}

func parseFlagValue(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "", "0", "false", "no":
		return false, nil
	case "1", "true", "yes":
		return true, nil
	}
	return false, fmt.Errorf("invalid flag value %q", raw)
}

// scenario returns the scenario tag of a row. Workbooks without a scenario
// column read as the default scenario, which keeps single-scenario data
// folders loadable.
func (s *sheetData) scenario(row []string) string {
	if v := s.str(row, "scenario"); v != "" {
		return v
	}
	return casestudy.DefaultScenario
}

// rowParser collects the first parse error of a row so struct literals stay
// readable.
type rowParser struct {
	s      *sheetData
	row    []string
	rowNum int
	err    error
}

func (p *rowParser) str(db string) string { return p.s.str(p.row, db) }

func (p *rowParser) float(db string) float64 {
	if p.err != nil {
		return math.NaN()
	}
	v, err := p.s.float(p.row, p.rowNum, db)
	if err != nil {
		p.err = err
	}
	return v
}

func (p *rowParser) flag(db string) bool {
	if p.err != nil {
		return false
	}
	v, err := p.s.flag(p.row, p.rowNum, db)
	if err != nil {
		p.err = err
	}
	return v
}

// ReadScenarios reads the scenario registry workbook. An empty weight cell
// defaults to 1.
func ReadScenarios(path string) ([]casestudy.ScenarioRow, error) {
	s, err := loadSheet(path, DefScenarios)
	if err != nil {
		return nil, err
	}
	if err := s.require("scenarioID"); err != nil {
		return nil, err
	}
	var out []casestudy.ScenarioRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.ScenarioRow{
			ScenarioID:     p.str("scenarioID"),
			RelativeWeight: p.float("relativeWeight"),
			Comment:        p.str("comments"),
		}
		if p.err != nil {
			return p.err
		}
		if math.IsNaN(r.RelativeWeight) {
			r.RelativeWeight = 1
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadGlobalParameters reads the global parameter workbook. Unknown
// parameters are logged and skipped; empty values leave the zero default.
func ReadGlobalParameters(path string) (casestudy.GlobalParameters, error) {
	var p casestudy.GlobalParameters
	s, err := loadSheet(path, DefGlobalParameters)
	if err != nil {
		return p, err
	}
	if err := s.require("parameter", "value"); err != nil {
		return p, err
	}
	err = s.eachRow(func(rowNum int, row []string) error {
		name := s.str(row, "parameter")
		raw := s.str(row, "value")
		if raw == "" {
			return nil
		}
		switch name {
		case "Solver":
			p.Solver = raw
		case "EnableRMIP":
			v, err := parseFlagValue(raw)
			if err != nil {
				return fmt.Errorf("%s row %d: parameter %q: %w", s.def.Table, rowNum, name, err)
			}
			p.EnableRMIP = v
		case "PowerScalingFactor", "CostScalingFactor":
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%s row %d: parameter %q: invalid number %q", s.def.Table, rowNum, name, raw)
			}
			if name == "PowerScalingFactor" {
				p.PowerScalingFactor = v
			} else {
				p.CostScalingFactor = v
			}
		default:
			slog.Warn("unknown parameter",
				slog.String("table", s.def.Table),
				slog.String("parameter", name))
		}
		return nil
	})
	return p, err
}

// ReadPowerParameters reads the power system parameter workbook.
func ReadPowerParameters(path string) (casestudy.PowerParameters, error) {
	var p casestudy.PowerParameters
	s, err := loadSheet(path, DefPowerParameters)
	if err != nil {
		return p, err
	}
	if err := s.require("parameter", "value"); err != nil {
		return p, err
	}

	floats := map[string]*float64{
		"SBase":         &p.SBase,
		"ENSCost":       &p.ENSCost,
		"LOLCost":       &p.LOLCost,
		"MaxAngleDCOPF": &p.MaxAngleDCOPF,
	}
	flags := map[string]*bool{
		"EnableThermalGen":          &p.EnableThermalGen,
		"EnableVRES":                &p.EnableVRES,
		"EnableStorage":             &p.EnableStorage,
		"EnableImportExport":        &p.EnableImportExport,
		"EnableSOCP":                &p.EnableSOCP,
		"EnableChDisPower":          &p.EnableChDisPower,
		"FixStInterResToIniReserve": &p.FixStInterResToIniReserve,
		"EnableSoftLineLoadLimits":  &p.EnableSoftLineLoadLimits,
	}

	err = s.eachRow(func(rowNum int, row []string) error {
		name := s.str(row, "parameter")
		raw := s.str(row, "value")
		if raw == "" {
			return nil
		}
		if dst, ok := floats[name]; ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%s row %d: parameter %q: invalid number %q", s.def.Table, rowNum, name, raw)
			}
			*dst = v
			return nil
		}
		if dst, ok := flags[name]; ok {
			v, err := parseFlagValue(raw)
			if err != nil {
				return fmt.Errorf("%s row %d: parameter %q: %w", s.def.Table, rowNum, name, err)
			}
			*dst = v
			return nil
		}
		slog.Warn("unknown parameter",
			slog.String("table", s.def.Table),
			slog.String("parameter", name))
		return nil
	})
	return p, err
}

// ReadBusInfo reads the bus workbook.
func ReadBusInfo(path string) ([]casestudy.BusRow, error) {
	s, err := loadSheet(path, DefBusInfo)
	if err != nil {
		return nil, err
	}
	if err := s.require("i"); err != nil {
		return nil, err
	}
	var out []casestudy.BusRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.BusRow{
			Scenario:  s.scenario(row),
			Bus:       p.str("i"),
			Zone:      p.str("zone"),
			BaseVolt:  p.float("baseVolt"),
			Lat:       p.float("lat"),
			Long:      p.float("long"),
			YearCom:   p.float("YearCom"),
			YearDecom: p.float("YearDecom"),
			ZOI:       p.flag("zoi"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadNetwork reads the line workbook.
func ReadNetwork(path string) ([]casestudy.LineRow, error) {
	s, err := loadSheet(path, DefNetwork)
	if err != nil {
		return nil, err
	}
	if err := s.require("i", "j", "c"); err != nil {
		return nil, err
	}
	var out []casestudy.LineRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.LineRow{
			Scenario:   s.scenario(row),
			I:          p.str("i"),
			J:          p.str("j"),
			Circuit:    p.str("c"),
			LineID:     p.str("LineID"),
			TecRepr:    p.str("tecRepr"),
			R:          p.float("R"),
			X:          p.float("X"),
			Pmax:       p.float("Pmax"),
			InvestCost: p.float("InvestCost"),
			YearCom:    p.float("YearCom"),
			YearDecom:  p.float("YearDecom"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadThermalGen reads the thermal unit workbook. Non-existing and
// non-investable units are kept; dropping them is the scaling engine's job.
func ReadThermalGen(path string) ([]casestudy.ThermalGenRow, error) {
	s, err := loadSheet(path, DefThermalGen)
	if err != nil {
		return nil, err
	}
	if err := s.require("g"); err != nil {
		return nil, err
	}
	var out []casestudy.ThermalGenRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.ThermalGenRow{
			Scenario:           s.scenario(row),
			G:                  p.str("g"),
			Tec:                p.str("tec"),
			Bus:                p.str("i"),
			ExisUnits:          p.float("ExisUnits"),
			EnableInvest:       p.float("EnableInvest"),
			MaxInvest:          p.float("MaxInvest"),
			InvestCost:         p.float("InvestCost"),
			InvestCostEUR:      p.float("InvestCostEUR"),
			MaxProd:            p.float("MaxProd"),
			MinProd:            p.float("MinProd"),
			RampUp:             p.float("RampUp"),
			RampDw:             p.float("RampDw"),
			OMVarCost:          p.float("OMVarCost"),
			FuelCost:           p.float("FuelCost"),
			Efficiency:         p.float("Efficiency"),
			EFOR:               p.float("EFOR"),
			CommitConsumption:  p.float("CommitConsumption"),
			StartupConsumption: p.float("StartupConsumption"),
			SlopeVarCostEUR:    p.float("pSlopeVarCostEUR"),
			InterVarCostEUR:    p.float("pInterVarCostEUR"),
			StartupCostEUR:     p.float("pStartupCostEUR"),
			MinUpTime:          p.float("MinUpTime"),
			MinDownTime:        p.float("MinDownTime"),
			Qmin:               p.float("Qmin"),
			Qmax:               p.float("Qmax"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadVRES reads the variable renewable unit workbook.
func ReadVRES(path string) ([]casestudy.VRESRow, error) {
	s, err := loadSheet(path, DefVRES)
	if err != nil {
		return nil, err
	}
	if err := s.require("g"); err != nil {
		return nil, err
	}
	var out []casestudy.VRESRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.VRESRow{
			Scenario:      s.scenario(row),
			G:             p.str("g"),
			Tec:           p.str("tec"),
			Bus:           p.str("i"),
			ExisUnits:     p.float("ExisUnits"),
			EnableInvest:  p.float("EnableInvest"),
			MaxInvest:     p.float("MaxInvest"),
			InvestCost:    p.float("InvestCost"),
			InvestCostEUR: p.float("InvestCostEUR"),
			MaxProd:       p.float("MaxProd"),
			MinProd:       p.float("MinProd"),
			OMVarCost:     p.float("OMVarCost"),
			Qmin:          p.float("Qmin"),
			Qmax:          p.float("Qmax"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadStorage reads the storage unit workbook.
func ReadStorage(path string) ([]casestudy.StorageRow, error) {
	s, err := loadSheet(path, DefStorage)
	if err != nil {
		return nil, err
	}
	if err := s.require("g"); err != nil {
		return nil, err
	}
	var out []casestudy.StorageRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.StorageRow{
			Scenario:         s.scenario(row),
			G:                p.str("g"),
			Tec:              p.str("tec"),
			Bus:              p.str("i"),
			ExisUnits:        p.float("ExisUnits"),
			EnableInvest:     p.float("EnableInvest"),
			InvestCostPerMW:  p.float("InvestCostPerMW"),
			InvestCostPerMWh: p.float("InvestCostPerMWh"),
			Ene2PowRatio:     p.float("Ene2PowRatio"),
			InvestCostEUR:    p.float("InvestCostEUR"),
			MaxProd:          p.float("MaxProd"),
			MaxCons:          p.float("MaxCons"),
			MinProd:          p.float("MinProd"),
			IniReserve:       p.float("IniReserve"),
			MinReserve:       p.float("MinReserve"),
			DisEffic:         p.float("DisEffic"),
			ChEffic:          p.float("ChEffic"),
			OMVarCost:        p.float("OMVarCost"),
			OMVarCostEUR:     p.float("pOMVarCostEUR"),
			Qmin:             p.float("Qmin"),
			Qmax:             p.float("Qmax"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadDemand reads and melts the pivoted demand workbook. Empty timestep
// cells produce no row.
func ReadDemand(path string) ([]casestudy.DemandRow, error) {
	s, err := loadSheet(path, DefDemand)
	if err != nil {
		return nil, err
	}
	if err := s.require("rp", "i"); err != nil {
		return nil, err
	}
	var out []casestudy.DemandRow
	err = s.eachRow(func(rowNum int, row []string) error {
		scenario := s.scenario(row)
		rp := s.str(row, "rp")
		bus := s.str(row, "i")
		return s.meltRow(row, rowNum, func(k string, v float64) {
			out = append(out, casestudy.DemandRow{Scenario: scenario, RP: rp, K: k, Bus: bus, Value: v})
		})
	})
	return out, err
}

// ReadVRESProfiles reads and melts the pivoted profile workbook. The g
// column is empty for bus-level profiles.
func ReadVRESProfiles(path string) ([]casestudy.VRESProfileRow, error) {
	s, err := loadSheet(path, DefVRESProfiles)
	if err != nil {
		return nil, err
	}
	if err := s.require("rp", "i", "tec"); err != nil {
		return nil, err
	}
	var out []casestudy.VRESProfileRow
	err = s.eachRow(func(rowNum int, row []string) error {
		scenario := s.scenario(row)
		rp := s.str(row, "rp")
		bus := s.str(row, "i")
		tec := s.str(row, "tec")
		g := s.str(row, "g")
		return s.meltRow(row, rowNum, func(k string, v float64) {
			out = append(out, casestudy.VRESProfileRow{Scenario: scenario, RP: rp, K: k, Bus: bus, Tec: tec, G: g, Value: v})
		})
	})
	return out, err
}

// ReadInflows reads and melts the pivoted inflow workbook.
func ReadInflows(path string) ([]casestudy.InflowRow, error) {
	s, err := loadSheet(path, DefInflows)
	if err != nil {
		return nil, err
	}
	if err := s.require("rp", "g"); err != nil {
		return nil, err
	}
	var out []casestudy.InflowRow
	err = s.eachRow(func(rowNum int, row []string) error {
		scenario := s.scenario(row)
		rp := s.str(row, "rp")
		g := s.str(row, "g")
		return s.meltRow(row, rowNum, func(k string, v float64) {
			out = append(out, casestudy.InflowRow{Scenario: scenario, RP: rp, K: k, G: g, Value: v})
		})
	})
	return out, err
}

// ReadImpExpHubs reads the hub workbook.
func ReadImpExpHubs(path string) ([]casestudy.ImpExpHubRow, error) {
	s, err := loadSheet(path, DefImpExpHubs)
	if err != nil {
		return nil, err
	}
	if err := s.require("hub", "i"); err != nil {
		return nil, err
	}
	var out []casestudy.ImpExpHubRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.ImpExpHubRow{
			Scenario:  s.scenario(row),
			Hub:       p.str("hub"),
			Bus:       p.str("i"),
			ImpExpMin: p.float("ImpExpMin"),
			ImpExpMax: p.float("ImpExpMax"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadImpExpProfiles reads the pivoted hub profile workbook. Each sheet row
// carries one property (ImpExpPrice or CapacityFactor); rows of the same
// hub and timestep merge, with NaN where a property has no entry.
func ReadImpExpProfiles(path string) ([]casestudy.ImpExpProfileRow, error) {
	s, err := loadSheet(path, DefImpExpProfiles)
	if err != nil {
		return nil, err
	}
	if err := s.require("rp", "hub", "property"); err != nil {
		return nil, err
	}

	merged := make(map[string]*casestudy.ImpExpProfileRow)
	var order []string
	err = s.eachRow(func(rowNum int, row []string) error {
		scenario := s.scenario(row)
		rp := s.str(row, "rp")
		hub := s.str(row, "hub")
		property := s.str(row, "property")
		if property != "ImpExpPrice" && property != "CapacityFactor" {
			return fmt.Errorf("%s row %d: unknown property %q", s.def.Table, rowNum, property)
		}
		return s.meltRow(row, rowNum, func(k string, v float64) {
			key := table.Key(scenario, rp, k, hub)
			r, ok := merged[key]
			if !ok {
				r = &casestudy.ImpExpProfileRow{
					Scenario:       scenario,
					RP:             rp,
					K:              k,
					Hub:            hub,
					ImpExpPrice:    math.NaN(),
					CapacityFactor: math.NaN(),
				}
				merged[key] = r
				order = append(order, key)
			}
			if property == "ImpExpPrice" {
				r.ImpExpPrice = v
			} else {
				r.CapacityFactor = v
			}
		})
	})
	if err != nil {
		return nil, err
	}

	out := make([]casestudy.ImpExpProfileRow, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out, nil
}

// ReadWeightsRP reads the representative-period weight workbook.
func ReadWeightsRP(path string) ([]casestudy.WeightRPRow, error) {
	s, err := loadSheet(path, DefWeightsRP)
	if err != nil {
		return nil, err
	}
	if err := s.require("rp", "weight"); err != nil {
		return nil, err
	}
	var out []casestudy.WeightRPRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.WeightRPRow{
			Scenario: s.scenario(row),
			RP:       p.str("rp"),
			Weight:   p.float("weight"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadWeightsK reads the timestep weight workbook.
func ReadWeightsK(path string) ([]casestudy.WeightKRow, error) {
	s, err := loadSheet(path, DefWeightsK)
	if err != nil {
		return nil, err
	}
	if err := s.require("k", "weight"); err != nil {
		return nil, err
	}
	var out []casestudy.WeightKRow
	err = s.eachRow(func(rowNum int, row []string) error {
		p := &rowParser{s: s, row: row, rowNum: rowNum}
		r := casestudy.WeightKRow{
			Scenario: s.scenario(row),
			K:        p.str("k"),
			Weight:   p.float("weight"),
		}
		if p.err != nil {
			return p.err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadHindex reads the hour index workbook.
func ReadHindex(path string) ([]casestudy.HindexRow, error) {
	s, err := loadSheet(path, DefHindex)
	if err != nil {
		return nil, err
	}
	if err := s.require("p", "rp", "k"); err != nil {
		return nil, err
	}
	var out []casestudy.HindexRow
	err = s.eachRow(func(rowNum int, row []string) error {
		out = append(out, casestudy.HindexRow{
			Scenario:    s.scenario(row),
			P:           s.str(row, "p"),
			RP:          s.str(row, "rp"),
			K:           s.str(row, "k"),
			DataPackage: s.str(row, "dataPackage"),
			DataSource:  s.str(row, "dataSource"),
		})
		return nil
	})
	return out, err
}

// meltRow walks the pivoted timestep cells of one row.
func (s *sheetData) meltRow(row []string, rowNum int, emit func(k string, v float64)) error {
	for _, kc := range s.kCols {
		raw := cellAt(row, kc.index)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s row %d: column %q: invalid number %q", s.def.Table, rowNum, kc.label, raw)
		}
		emit(kc.label, v)
	}
	return nil
}

// ReadTables loads a LEGOExcel data folder into a table bundle. The bus,
// network, demand, hour-index and weight workbooks are required. Unit and
// profile workbooks load when present and not disabled by the power
// parameters; missing optional workbooks and a missing scenario registry
// log a warning and load nothing.
func ReadTables(dir string) (casestudy.Tables, error) {
	var in casestudy.Tables

	if path, ok := tablePath(dir, DefGlobalParameters); ok {
		p, err := ReadGlobalParameters(path)
		if err != nil {
			return in, err
		}
		in.Global = p
	} else {
		slog.Warn("global parameters workbook missing, using defaults", slog.String("dir", dir))
	}

	// The enable flags gate the unit tables. Without a parameter workbook
	// file presence alone decides.
	gate := struct{ thermal, vres, storage, impexp bool }{true, true, true, true}
	if path, ok := tablePath(dir, DefPowerParameters); ok {
		p, err := ReadPowerParameters(path)
		if err != nil {
			return in, err
		}
		in.Power = p
		gate.thermal = p.EnableThermalGen
		gate.vres = p.EnableVRES
		gate.storage = p.EnableStorage
		gate.impexp = p.EnableImportExport
	} else {
		slog.Warn("power parameters workbook missing, loading every unit table", slog.String("dir", dir))
	}

	if path, ok := tablePath(dir, DefScenarios); ok {
		rows, err := ReadScenarios(path)
		if err != nil {
			return in, err
		}
		in.Scenarios = rows
	} else {
		slog.Warn("scenario registry workbook missing, the default scenario will be used",
			slog.String("dir", dir))
	}

	required := []struct {
		def  SheetDefinition
		load func(string) error
	}{
		{DefBusInfo, func(p string) error { rows, err := ReadBusInfo(p); in.BusInfo = rows; return err }},
		{DefNetwork, func(p string) error { rows, err := ReadNetwork(p); in.Network = rows; return err }},
		{DefDemand, func(p string) error { rows, err := ReadDemand(p); in.Demand = rows; return err }},
		{DefWeightsRP, func(p string) error { rows, err := ReadWeightsRP(p); in.WeightsRP = rows; return err }},
		{DefWeightsK, func(p string) error { rows, err := ReadWeightsK(p); in.WeightsK = rows; return err }},
		{DefHindex, func(p string) error { rows, err := ReadHindex(p); in.Hindex = rows; return err }},
	}
	for _, r := range required {
		path, ok := tablePath(dir, r.def)
		if !ok {
			return in, fmt.Errorf("required workbook %s is missing from %s", r.def.FileName(), dir)
		}
		if err := r.load(path); err != nil {
			return in, err
		}
	}

	optionals := []struct {
		def     SheetDefinition
		enabled bool
		load    func(string) error
	}{
		{DefThermalGen, gate.thermal, func(p string) error { rows, err := ReadThermalGen(p); in.ThermalGen = rows; return err }},
		{DefVRES, gate.vres, func(p string) error { rows, err := ReadVRES(p); in.VRES = rows; return err }},
		{DefVRESProfiles, gate.vres, func(p string) error { rows, err := ReadVRESProfiles(p); in.VRESProfiles = rows; return err }},
		{DefStorage, gate.storage, func(p string) error { rows, err := ReadStorage(p); in.Storage = rows; return err }},
		{DefInflows, true, func(p string) error { rows, err := ReadInflows(p); in.Inflows = rows; return err }},
		{DefImpExpHubs, gate.impexp, func(p string) error { rows, err := ReadImpExpHubs(p); in.ImpExpHubs = rows; return err }},
		{DefImpExpProfiles, gate.impexp, func(p string) error { rows, err := ReadImpExpProfiles(p); in.ImpExpProfiles = rows; return err }},
	}
	for _, o := range optionals {
		path, ok := tablePath(dir, o.def)
		if !ok {
			slog.Warn("optional workbook missing, skipping", slog.String("file", o.def.FileName()))
			continue
		}
		if !o.enabled {
			slog.Info("table disabled by power parameters, skipping workbook",
				slog.String("file", o.def.FileName()))
			continue
		}
		if err := o.load(path); err != nil {
			return in, err
		}
	}

	return in, nil
}

func tablePath(dir string, def SheetDefinition) (string, bool) {
	path := filepath.Join(dir, def.FileName())
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
