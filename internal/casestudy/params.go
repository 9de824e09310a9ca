package casestudy

// GlobalParameters holds the solver-independent global settings of a case
// study. Scaling factors default to 1 when the source omits them.
type GlobalParameters struct {
	Solver             string
	EnableRMIP         bool
	PowerScalingFactor float64
	CostScalingFactor  float64
}

// PowerParameters holds the power-system settings. The numeric fields are
// rewritten by the scaling engine; the enable flags decide which tables the
// loaders populate.
type PowerParameters struct {
	SBase         float64
	ENSCost       float64
	LOLCost       float64
	MaxAngleDCOPF float64

	EnableThermalGen          bool
	EnableVRES                bool
	EnableStorage             bool
	EnableImportExport        bool
	EnableSOCP                bool
	EnableChDisPower          bool
	FixStInterResToIniReserve bool
	EnableSoftLineLoadLimits  bool
}
