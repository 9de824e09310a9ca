package casestudy

import "legoio/internal/table"

// Table names as they appear in workbooks and exports.
const (
	TableGlobalParameters = "Global_Parameters"
	TableGlobalScenarios  = "Global_Scenarios"
	TablePowerParameters  = "Power_Parameters"
	TableBusInfo          = "Power_BusInfo"
	TableNetwork          = "Power_Network"
	TableDemand           = "Power_Demand"
	TableThermalGen       = "Power_ThermalGen"
	TableVRES             = "Power_VRES"
	TableVRESProfiles     = "Power_VRESProfiles"
	TableStorage          = "Power_Storage"
	TableInflows          = "Power_Inflows"
	TableImpExpHubs       = "Power_ImpExpHubs"
	TableImpExpProfiles   = "Power_ImpExpProfiles"
	TableWeightsRP        = "Power_WeightsRP"
	TableWeightsK         = "Power_WeightsK"
	TableHindex           = "Power_Hindex"
)

// TecReprSingleNode tags zero-impedance lines whose endpoints collapse into
// one bus. TecReprDCOPF wins when merged parallel lines disagree.
const (
	TecReprSingleNode = "SN"
	TecReprDCOPF      = "DC-OPF"
)

// DefaultScenario is the synthetic registry entry used when no scenario
// table is supplied.
const DefaultScenario = "ScenarioA"

// Missing numeric cells are NaN throughout; scaling fills defaults where the
// formulas require one.

// ScenarioRow is one entry of the scenario registry.
type ScenarioRow struct {
	ScenarioID     string
	RelativeWeight float64
	Comment        string
}

func (r ScenarioRow) Key() string { return r.ScenarioID }

// BusRow describes one bus of the network.
type BusRow struct {
	Scenario  string
	Bus       string
	Zone      string
	BaseVolt  float64
	Lat       float64
	Long      float64
	YearCom   float64
	YearDecom float64
	ZOI       bool
}

func (r BusRow) Key() string { return table.Key(r.Scenario, r.Bus) }

// LineRow describes one circuit between buses I and J.
type LineRow struct {
	Scenario   string
	I          string
	J          string
	Circuit    string
	LineID     string
	TecRepr    string
	R          float64
	X          float64
	Pmax       float64
	InvestCost float64
	YearCom    float64
	YearDecom  float64
}

func (r LineRow) Key() string { return table.Key(r.Scenario, r.I, r.J, r.Circuit) }

// DemandRow holds the demand at one bus in one timestep.
type DemandRow struct {
	Scenario string
	RP       string
	K        string
	Bus      string
	Value    float64
}

func (r DemandRow) Key() string { return table.Key(r.Scenario, r.RP, r.K, r.Bus) }

// ThermalGenRow describes one thermal generation unit. The EUR-suffixed
// fields are derived during scaling.
type ThermalGenRow struct {
	Scenario           string
	G                  string
	Tec                string
	Bus                string
	ExisUnits          float64
	EnableInvest       float64
	MaxInvest          float64
	InvestCost         float64
	InvestCostEUR      float64
	MaxProd            float64
	MinProd            float64
	RampUp             float64
	RampDw             float64
	OMVarCost          float64
	FuelCost           float64
	Efficiency         float64
	EFOR               float64
	CommitConsumption  float64
	StartupConsumption float64
	SlopeVarCostEUR    float64
	InterVarCostEUR    float64
	StartupCostEUR     float64
	MinUpTime          float64
	MinDownTime        float64
	Qmin               float64
	Qmax               float64
}

func (r ThermalGenRow) Key() string { return table.Key(r.Scenario, r.G) }

// VRESRow describes one variable renewable unit.
type VRESRow struct {
	Scenario      string
	G             string
	Tec           string
	Bus           string
	ExisUnits     float64
	EnableInvest  float64
	MaxInvest     float64
	InvestCost    float64
	InvestCostEUR float64
	MaxProd       float64
	MinProd       float64
	OMVarCost     float64
	Qmin          float64
	Qmax          float64
}

func (r VRESRow) Key() string { return table.Key(r.Scenario, r.G) }

// VRESProfileRow holds a capacity factor per timestep. Profiles are keyed by
// bus and technology; G is set when the profile belongs to one specific unit
// (converted inflows) and empty for bus-level profiles.
type VRESProfileRow struct {
	Scenario string
	RP       string
	K        string
	Bus      string
	Tec      string
	G        string
	Value    float64
}

func (r VRESProfileRow) Key() string {
	return table.Key(r.Scenario, r.RP, r.K, r.Bus, r.Tec, r.G)
}

// StorageRow describes one storage unit.
type StorageRow struct {
	Scenario         string
	G                string
	Tec              string
	Bus              string
	ExisUnits        float64
	EnableInvest     float64
	InvestCostPerMW  float64
	InvestCostPerMWh float64
	Ene2PowRatio     float64
	InvestCostEUR    float64
	MaxProd          float64
	MaxCons          float64
	MinProd          float64
	IniReserve       float64
	MinReserve       float64
	DisEffic         float64
	ChEffic          float64
	OMVarCost        float64
	OMVarCostEUR     float64
	Qmin             float64
	Qmax             float64
}

func (r StorageRow) Key() string { return table.Key(r.Scenario, r.G) }

// InflowRow holds the energy inflow of one unit in one timestep.
type InflowRow struct {
	Scenario string
	RP       string
	K        string
	G        string
	Value    float64
}

func (r InflowRow) Key() string { return table.Key(r.Scenario, r.RP, r.K, r.G) }

// WeightRPRow weights one representative period.
type WeightRPRow struct {
	Scenario string
	RP       string
	Weight   float64
}

func (r WeightRPRow) Key() string { return table.Key(r.Scenario, r.RP) }

// WeightKRow weights one intra-period timestep.
type WeightKRow struct {
	Scenario string
	K        string
	Weight   float64
}

func (r WeightKRow) Key() string { return table.Key(r.Scenario, r.K) }

// HindexRow maps one absolute hour to its representative (rp, k) slot.
type HindexRow struct {
	Scenario    string
	P           string
	RP          string
	K           string
	DataPackage string
	DataSource  string
}

func (r HindexRow) Key() string { return table.Key(r.Scenario, r.P) }

// ImpExpHubRow describes one import/export hub and its static exchange
// bounds.
type ImpExpHubRow struct {
	Scenario  string
	Hub       string
	Bus       string
	ImpExpMin float64
	ImpExpMax float64
}

func (r ImpExpHubRow) Key() string { return table.Key(r.Scenario, r.Hub) }

// ImpExpProfileRow holds the per-timestep exchange price and availability of
// one hub.
type ImpExpProfileRow struct {
	Scenario       string
	RP             string
	K              string
	Hub            string
	ImpExpPrice    float64
	CapacityFactor float64
}

func (r ImpExpProfileRow) Key() string { return table.Key(r.Scenario, r.RP, r.K, r.Hub) }
