package excelio

import "legoio/internal/casestudy"

// Database behavior notes shown in row 6 of the header block.
const (
	behaviorFilledByDatabase  = "Filled automatically by database"
	behaviorScenarioDependent = "Scenario-dependent"
	behaviorNone              = "-"
)

// exclDescription explains the exclusion column on sheets that carry one.
const exclDescription = "If a line has a value in this column, it is not read in (i.e., does not exist)."

// Sheet layout. Row 1 holds the title, row 2 the version tag in cell C2,
// rows 3 to 7 the per-column header block (readable name, database name,
// description, database behavior, unit), and data starts at row 8. Column A
// is the exclusion column or an empty placeholder.
const (
	titleRow     = 1
	versionRow   = 2
	readableRow  = 3
	dbNameRow    = 4
	descRow      = 5
	behaviorRow  = 6
	unitRow      = 7
	firstDataRow = 8
)

// Column describes one fixed sheet column.
type Column struct {
	Readable    string
	DBName      string
	Description string
	Behavior    string
	Unit        string
}

// SheetDefinition describes one LEGOExcel sheet: the table it stores, the
// version tag expected in C2, whether column A excludes rows, the fixed
// columns after column A, and whether timestep columns pivot to the right
// of the fixed block.
type SheetDefinition struct {
	Table     string
	Title     string
	Version   string
	HasExcl   bool
	Fixed     []Column
	PivotK    bool
	PivotUnit string
}

// FileName returns the workbook file name for the sheet.
func (d SheetDefinition) FileName() string { return d.Table + ".xlsx" }

// Columns shared between sheets.
var (
	colID       = Column{"Database ID", "id", "ID within database", behaviorFilledByDatabase, "[db-key]"}
	colScenario = Column{"Scenario", "scenario", "Scenario this entry belongs to", behaviorScenarioDependent, "[scenario]"}
	colRP       = Column{"rp", "rp", "Representative period", behaviorScenarioDependent, "[rp]"}
	colK        = Column{"k", "k", "Timestep within the representative period", behaviorScenarioDependent, "[k]"}
	colPackage  = Column{"Data Package", "dataPackage", "Which package this belongs to", behaviorScenarioDependent, "[DataPackage]"}
	colSource   = Column{"Data Source", "dataSource", "Where the data for the entry comes from", behaviorScenarioDependent, "[DataSource]"}
)

func unitCols(extra ...Column) []Column {
	cols := []Column{
		colScenario,
		{"Generator", "g", "Unit name", behaviorNone, "[g]"},
		{"Technology", "tec", "Technology of the unit", behaviorNone, "[tec]"},
		{"Bus", "i", "Bus the unit connects to", behaviorNone, "[i]"},
		{"Existing units", "ExisUnits", "Number of existing units", behaviorNone, "[units]"},
		{"Enable investment", "EnableInvest", "Whether new units may be built", behaviorNone, "[0/1]"},
	}
	return append(cols, extra...)
}

// Definitions of every LEGOExcel sheet. Version tags are shared by the
// reader and the writer.
var (
	DefScenarios = SheetDefinition{
		Table:   casestudy.TableGlobalScenarios,
		Title:   "Global - Scenario registry",
		Version: "v0.0.1",
		Fixed: []Column{
			{"Scenario ID", "scenarioID", "Name the data tables reference", behaviorNone, "[scenario]"},
			{"Relative weight", "relativeWeight", "Weight of the scenario relative to the others", behaviorNone, "[p.u.]"},
			{"Comments", "comments", "Free-form notes", behaviorNone, "[-]"},
		},
	}

	DefGlobalParameters = SheetDefinition{
		Table:   casestudy.TableGlobalParameters,
		Title:   "Global - General parameters",
		Version: "v0.0.1",
		Fixed: []Column{
			{"Parameter", "parameter", "Parameter name", behaviorNone, "[-]"},
			{"Value", "value", "Parameter value", behaviorNone, "[-]"},
		},
	}

	DefPowerParameters = SheetDefinition{
		Table:   casestudy.TablePowerParameters,
		Title:   "Power - Power system parameters",
		Version: "v0.0.1",
		Fixed: []Column{
			{"Parameter", "parameter", "Parameter name", behaviorNone, "[-]"},
			{"Value", "value", "Parameter value", behaviorNone, "[-]"},
		},
	}

	DefBusInfo = SheetDefinition{
		Table:   casestudy.TableBusInfo,
		Title:   "Power - Bus information",
		Version: "v0.0.3r",
		HasExcl: true,
		Fixed: []Column{
			colScenario,
			{"Bus", "i", "Bus name", behaviorNone, "[i]"},
			{"Zone", "zone", "Zone the bus belongs to", behaviorNone, "[zone]"},
			{"Base voltage", "baseVolt", "Base voltage of the bus", behaviorNone, "[kV]"},
			{"Latitude", "lat", "Latitude of the bus", behaviorNone, "[deg]"},
			{"Longitude", "long", "Longitude of the bus", behaviorNone, "[deg]"},
			{"Year commissioned", "YearCom", "First year the bus exists", behaviorNone, "[year]"},
			{"Year decommissioned", "YearDecom", "Last year the bus exists", behaviorNone, "[year]"},
			{"Zone of interest", "zoi", "Whether the bus belongs to the zone of interest", behaviorNone, "[0/1]"},
		},
	}

	DefNetwork = SheetDefinition{
		Table:   casestudy.TableNetwork,
		Title:   "Power - Network lines",
		Version: "v0.0.3",
		HasExcl: true,
		Fixed: []Column{
			colScenario,
			{"From bus", "i", "First endpoint", behaviorNone, "[i]"},
			{"To bus", "j", "Second endpoint", behaviorNone, "[i]"},
			{"Circuit", "c", "Circuit identifier", behaviorNone, "[c]"},
			{"Line ID", "LineID", "External line identifier", behaviorNone, "[-]"},
			{"Technical representation", "tecRepr", "SN collapses the line, DC-OPF keeps it", behaviorNone, "[SN/DC-OPF]"},
			{"Resistance", "R", "Series resistance", behaviorNone, "[p.u.]"},
			{"Reactance", "X", "Series reactance", behaviorNone, "[p.u.]"},
			{"Maximum flow", "Pmax", "Thermal limit", behaviorNone, "[MW]"},
			{"Investment cost", "InvestCost", "Cost of building the line", behaviorNone, "[EUR]"},
			{"Year commissioned", "YearCom", "First year the line exists", behaviorNone, "[year]"},
			{"Year decommissioned", "YearDecom", "Last year the line exists", behaviorNone, "[year]"},
		},
	}

	DefDemand = SheetDefinition{
		Table:   casestudy.TableDemand,
		Title:   "Power - Demand profiles",
		Version: "v0.0.2",
		Fixed: []Column{
			colID,
			colScenario,
			colRP,
			{"Bus", "i", "Bus the demand applies to", behaviorNone, "[i]"},
			colPackage,
			colSource,
		},
		PivotK:    true,
		PivotUnit: "[MW]",
	}

	DefThermalGen = SheetDefinition{
		Table:   casestudy.TableThermalGen,
		Title:   "Power - Thermal generation units",
		Version: "v0.0.3",
		HasExcl: true,
		Fixed: unitCols(
			Column{"Maximum investment", "MaxInvest", "Maximum number of new units", behaviorNone, "[units]"},
			Column{"Investment cost", "InvestCost", "Cost per MW of new capacity", behaviorNone, "[EUR/MW]"},
			Column{"Investment cost total", "InvestCostEUR", "Derived total investment cost", behaviorFilledByDatabase, "[MEUR]"},
			Column{"Maximum production", "MaxProd", "Maximum output per unit", behaviorNone, "[MW]"},
			Column{"Minimum production", "MinProd", "Minimum stable output per unit", behaviorNone, "[MW]"},
			Column{"Ramp up", "RampUp", "Maximum upward ramp", behaviorNone, "[MW/h]"},
			Column{"Ramp down", "RampDw", "Maximum downward ramp", behaviorNone, "[MW/h]"},
			Column{"O&M variable cost", "OMVarCost", "Variable operation and maintenance cost", behaviorNone, "[EUR/MWh]"},
			Column{"Fuel cost", "FuelCost", "Fuel price", behaviorNone, "[EUR/MWh_t]"},
			Column{"Efficiency", "Efficiency", "Thermal efficiency", behaviorNone, "[p.u.]"},
			Column{"EFOR", "EFOR", "Equivalent forced outage rate", behaviorNone, "[p.u.]"},
			Column{"Commitment consumption", "CommitConsumption", "Fuel burn while committed", behaviorNone, "[MWh_t/h]"},
			Column{"Startup consumption", "StartupConsumption", "Fuel burn per startup", behaviorNone, "[MWh_t]"},
			Column{"Slope variable cost", "pSlopeVarCostEUR", "Derived linear fuel cost", behaviorFilledByDatabase, "[kEUR/GWh]"},
			Column{"Intercept variable cost", "pInterVarCostEUR", "Derived commitment fuel cost", behaviorFilledByDatabase, "[kEUR/h]"},
			Column{"Startup cost", "pStartupCostEUR", "Derived startup cost", behaviorFilledByDatabase, "[kEUR]"},
			Column{"Minimum up time", "MinUpTime", "Hours the unit must stay on", behaviorNone, "[h]"},
			Column{"Minimum down time", "MinDownTime", "Hours the unit must stay off", behaviorNone, "[h]"},
			Column{"Minimum reactive", "Qmin", "Minimum reactive output", behaviorNone, "[kVAr]"},
			Column{"Maximum reactive", "Qmax", "Maximum reactive output", behaviorNone, "[kVAr]"},
		),
	}

	DefVRES = SheetDefinition{
		Table:   casestudy.TableVRES,
		Title:   "Power - Variable renewable units",
		Version: "v0.0.3r",
		HasExcl: true,
		Fixed: unitCols(
			Column{"Maximum investment", "MaxInvest", "Maximum number of new units", behaviorNone, "[units]"},
			Column{"Investment cost", "InvestCost", "Cost per MW of new capacity", behaviorNone, "[EUR/MW]"},
			Column{"Investment cost total", "InvestCostEUR", "Derived total investment cost", behaviorFilledByDatabase, "[MEUR]"},
			Column{"Maximum production", "MaxProd", "Maximum output per unit", behaviorNone, "[MW]"},
			Column{"Minimum production", "MinProd", "Minimum output per unit", behaviorNone, "[MW]"},
			Column{"O&M variable cost", "OMVarCost", "Variable operation and maintenance cost", behaviorNone, "[EUR/MWh]"},
			Column{"Minimum reactive", "Qmin", "Minimum reactive output", behaviorNone, "[kVAr]"},
			Column{"Maximum reactive", "Qmax", "Maximum reactive output", behaviorNone, "[kVAr]"},
		),
	}

	DefVRESProfiles = SheetDefinition{
		Table:   casestudy.TableVRESProfiles,
		Title:   "Power - Variable renewable profiles",
		Version: "v0.0.3",
		Fixed: []Column{
			colID,
			colScenario,
			colRP,
			{"Bus", "i", "Bus the profile applies to", behaviorNone, "[i]"},
			{"Technology", "tec", "Technology the profile applies to", behaviorNone, "[tec]"},
			{"Generator", "g", "Set when the profile belongs to one unit", behaviorNone, "[g]"},
			colPackage,
			colSource,
		},
		PivotK:    true,
		PivotUnit: "[p.u.]",
	}

	DefStorage = SheetDefinition{
		Table:   casestudy.TableStorage,
		Title:   "Power - Storage units",
		Version: "v0.0.3",
		HasExcl: true,
		Fixed: unitCols(
			Column{"Investment cost per MW", "InvestCostPerMW", "Power component of investment cost", behaviorNone, "[EUR/MW]"},
			Column{"Investment cost per MWh", "InvestCostPerMWh", "Energy component of investment cost", behaviorNone, "[EUR/MWh]"},
			Column{"Energy to power ratio", "Ene2PowRatio", "Hours of storage at full output", behaviorNone, "[h]"},
			Column{"Investment cost total", "InvestCostEUR", "Derived total investment cost", behaviorFilledByDatabase, "[MEUR]"},
			Column{"Maximum production", "MaxProd", "Maximum discharge per unit", behaviorNone, "[MW]"},
			Column{"Maximum consumption", "MaxCons", "Maximum charge per unit", behaviorNone, "[MW]"},
			Column{"Minimum production", "MinProd", "Minimum discharge per unit", behaviorNone, "[MW]"},
			Column{"Initial reserve", "IniReserve", "Initial state of charge", behaviorNone, "[p.u.]"},
			Column{"Minimum reserve", "MinReserve", "Minimum state of charge", behaviorNone, "[p.u.]"},
			Column{"Discharge efficiency", "DisEffic", "Efficiency when discharging", behaviorNone, "[p.u.]"},
			Column{"Charge efficiency", "ChEffic", "Efficiency when charging", behaviorNone, "[p.u.]"},
			Column{"O&M variable cost", "OMVarCost", "Variable operation and maintenance cost", behaviorNone, "[EUR/MWh]"},
			Column{"O&M variable cost derived", "pOMVarCostEUR", "Derived O&M cost", behaviorFilledByDatabase, "[kEUR/GWh]"},
			Column{"Minimum reactive", "Qmin", "Minimum reactive output", behaviorNone, "[kVAr]"},
			Column{"Maximum reactive", "Qmax", "Maximum reactive output", behaviorNone, "[kVAr]"},
		),
	}

	DefInflows = SheetDefinition{
		Table:   casestudy.TableInflows,
		Title:   "Power - Energy inflows",
		Version: "v0.0.1",
		Fixed: []Column{
			colID,
			colScenario,
			colRP,
			{"Generator", "g", "Unit the inflow feeds", behaviorNone, "[g]"},
			colPackage,
			colSource,
		},
		PivotK:    true,
		PivotUnit: "[MWh]",
	}

	DefImpExpHubs = SheetDefinition{
		Table:   casestudy.TableImpExpHubs,
		Title:   "Power - Import/export hubs",
		Version: "v0.0.1",
		HasExcl: true,
		Fixed: []Column{
			colScenario,
			{"Hub", "hub", "Hub name", behaviorNone, "[hub]"},
			{"Bus", "i", "Bus the hub connects to", behaviorNone, "[i]"},
			{"Minimum exchange", "ImpExpMin", "Lower exchange bound, negative exports", behaviorNone, "[MW]"},
			{"Maximum exchange", "ImpExpMax", "Upper exchange bound", behaviorNone, "[MW]"},
		},
	}

	DefImpExpProfiles = SheetDefinition{
		Table:   casestudy.TableImpExpProfiles,
		Title:   "Power - Import/export profiles",
		Version: "v0.0.1",
		Fixed: []Column{
			colID,
			colScenario,
			colRP,
			{"Hub", "hub", "Hub the profile applies to", behaviorNone, "[hub]"},
			{"Property", "property", "ImpExpPrice or CapacityFactor", behaviorNone, "[property]"},
			colPackage,
			colSource,
		},
		PivotK:    true,
		PivotUnit: "[-]",
	}

	DefWeightsRP = SheetDefinition{
		Table:   casestudy.TableWeightsRP,
		Title:   "Power - Weights of representative periods",
		Version: "v0.0.2",
		Fixed: []Column{
			colScenario,
			{"rp", "rp", "Representative period", behaviorScenarioDependent, "[rp]"},
			{"Weight", "weight", "Hours the period represents", behaviorNone, "[h]"},
		},
	}

	DefWeightsK = SheetDefinition{
		Table:   casestudy.TableWeightsK,
		Title:   "Power - Weights of timesteps",
		Version: "v0.0.2r",
		Fixed: []Column{
			colScenario,
			{"k", "k", "Timestep within the representative period", behaviorScenarioDependent, "[k]"},
			{"Weight", "weight", "Hours the timestep represents", behaviorNone, "[h]"},
		},
	}

	DefHindex = SheetDefinition{
		Table:   casestudy.TableHindex,
		Title:   "Power - Relation among periods and representative periods",
		Version: "v0.0.2r",
		Fixed: []Column{
			colID,
			colScenario,
			{"p", "p", "Hour of the year", behaviorNone, "[p]"},
			colRP,
			colK,
			colPackage,
			colSource,
		},
	}
)

// Definitions lists every sheet in workbook order.
func Definitions() []SheetDefinition {
	return []SheetDefinition{
		DefGlobalParameters,
		DefScenarios,
		DefPowerParameters,
		DefBusInfo,
		DefNetwork,
		DefDemand,
		DefThermalGen,
		DefVRES,
		DefVRESProfiles,
		DefStorage,
		DefInflows,
		DefImpExpHubs,
		DefImpExpProfiles,
		DefWeightsRP,
		DefWeightsK,
		DefHindex,
	}
}

// DefinitionFor returns the sheet definition of a table.
func DefinitionFor(table string) (SheetDefinition, bool) {
	for _, d := range Definitions() {
		if d.Table == table {
			return d, true
		}
	}
	return SheetDefinition{}, false
}
