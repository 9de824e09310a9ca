package casestudy

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"legoio/internal/table"
)

// Fixed conversion factors. Reactive limits arrive in kVAr and the model
// works in MVAr; angles arrive in degrees and the model works in radians.
const (
	ReactivePowerScalingFactor = 1e-3
	AngleToRadFactor           = math.Pi / 180
)

// Sentinel errors for structural validation failures.
var (
	ErrUnknownScenario = errors.New("scenario not in registry")
	ErrMissingBus      = errors.New("bus not in bus info")
	ErrMissingTimeslot = errors.New("(rp, k) not in hour index")
)

// CaseStudy is the in-memory model of one case study: the parameter blocks,
// every input table, the scaling factors and the representative-period
// transition matrices derived from the hour index.
type CaseStudy struct {
	Global GlobalParameters
	Power  PowerParameters

	Scenarios      *table.Table[ScenarioRow]
	BusInfo        *table.Table[BusRow]
	Network        *table.Table[LineRow]
	Demand         *table.Table[DemandRow]
	ThermalGen     *table.Table[ThermalGenRow]
	VRES           *table.Table[VRESRow]
	VRESProfiles   *table.Table[VRESProfileRow]
	Storage        *table.Table[StorageRow]
	Inflows        *table.Table[InflowRow]
	ImpExpHubs     *table.Table[ImpExpHubRow]
	ImpExpProfiles *table.Table[ImpExpProfileRow]
	WeightsRP      *table.Table[WeightRPRow]
	WeightsK       *table.Table[WeightKRow]
	Hindex         *table.Table[HindexRow]

	// The power, cost and angle factors are inverted by RemoveScaling; the
	// reactive factor is fixed and applies on every scaling pass.
	PowerScalingFactor    float64
	CostScalingFactor     float64
	AngleScalingFactor    float64
	ReactiveScalingFactor float64

	RPTransitionAbsolute     *TransitionMatrix
	RPTransitionRelativeTo   *TransitionMatrix
	RPTransitionRelativeFrom *TransitionMatrix
}

// Tables bundles the raw inputs a loader hands to New.
type Tables struct {
	Global GlobalParameters
	Power  PowerParameters

	Scenarios      []ScenarioRow
	BusInfo        []BusRow
	Network        []LineRow
	Demand         []DemandRow
	ThermalGen     []ThermalGenRow
	VRES           []VRESRow
	VRESProfiles   []VRESProfileRow
	Storage        []StorageRow
	Inflows        []InflowRow
	ImpExpHubs     []ImpExpHubRow
	ImpExpProfiles []ImpExpProfileRow
	WeightsRP      []WeightRPRow
	WeightsK       []WeightKRow
	Hindex         []HindexRow
}

// Options controls the construction-time transforms.
type Options struct {
	MergeSingleNodeBuses bool
	ScaleUnits           bool
}

// DefaultOptions enables bus merging and unit scaling, the standard
// preparation sequence.
func DefaultOptions() Options {
	return Options{MergeSingleNodeBuses: true, ScaleUnits: true}
}

// New builds a case study from raw tables: rows are registered under their
// dependency classes, the transition matrices are derived from the hour
// index, then the optional bus merge and unit scaling run exactly once, in
// that order. Structural problems (duplicate keys, dangling references,
// unregistered scenarios) are fatal.
func New(in Tables, opts Options) (*CaseStudy, error) {
	cs := &CaseStudy{
		Global: in.Global,
		Power:  in.Power,

		Scenarios:      NewScenariosTable(),
		BusInfo:        NewBusInfoTable(),
		Network:        NewNetworkTable(),
		Demand:         NewDemandTable(),
		ThermalGen:     NewThermalGenTable(),
		VRES:           NewVRESTable(),
		VRESProfiles:   NewVRESProfilesTable(),
		Storage:        NewStorageTable(),
		Inflows:        NewInflowsTable(),
		ImpExpHubs:     NewImpExpHubsTable(),
		ImpExpProfiles: NewImpExpProfilesTable(),
		WeightsRP:      NewWeightsRPTable(),
		WeightsK:       NewWeightsKTable(),
		Hindex:         NewHindexTable(),

		PowerScalingFactor:    in.Global.PowerScalingFactor,
		CostScalingFactor:     in.Global.CostScalingFactor,
		AngleScalingFactor:    AngleToRadFactor,
		ReactiveScalingFactor: ReactivePowerScalingFactor,
	}
	// Zero means the source did not set a factor.
	if cs.PowerScalingFactor == 0 {
		cs.PowerScalingFactor = 1
	}
	if cs.CostScalingFactor == 0 {
		cs.CostScalingFactor = 1
	}

	for _, step := range []struct {
		name   string
		append func() error
	}{
		{TableGlobalScenarios, func() error { return cs.Scenarios.Append(in.Scenarios...) }},
		{TableBusInfo, func() error { return cs.BusInfo.Append(in.BusInfo...) }},
		{TableNetwork, func() error { return cs.Network.Append(in.Network...) }},
		{TableDemand, func() error { return cs.Demand.Append(in.Demand...) }},
		{TableThermalGen, func() error { return cs.ThermalGen.Append(in.ThermalGen...) }},
		{TableVRES, func() error { return cs.VRES.Append(in.VRES...) }},
		{TableVRESProfiles, func() error { return cs.VRESProfiles.Append(in.VRESProfiles...) }},
		{TableStorage, func() error { return cs.Storage.Append(in.Storage...) }},
		{TableInflows, func() error { return cs.Inflows.Append(in.Inflows...) }},
		{TableImpExpHubs, func() error { return cs.ImpExpHubs.Append(in.ImpExpHubs...) }},
		{TableImpExpProfiles, func() error { return cs.ImpExpProfiles.Append(in.ImpExpProfiles...) }},
		{TableWeightsRP, func() error { return cs.WeightsRP.Append(in.WeightsRP...) }},
		{TableWeightsK, func() error { return cs.WeightsK.Append(in.WeightsK...) }},
		{TableHindex, func() error { return cs.Hindex.Append(in.Hindex...) }},
	} {
		if err := step.append(); err != nil {
			return nil, fmt.Errorf("building %s: %w", step.name, err)
		}
	}

	if cs.Scenarios.Len() == 0 {
		slog.Info("no scenario registry supplied, using default",
			slog.String("scenario", DefaultScenario))
		if err := cs.Scenarios.Append(ScenarioRow{ScenarioID: DefaultScenario, RelativeWeight: 1}); err != nil {
			return nil, err
		}
	}

	if err := cs.RecomputeRPTransitionMatrices(TransitionOptions{}); err != nil {
		return nil, fmt.Errorf("deriving transition matrices: %w", err)
	}

	if opts.MergeSingleNodeBuses {
		if err := cs.MergeSingleNodeBuses(); err != nil {
			return nil, fmt.Errorf("merging single-node buses: %w", err)
		}
	}
	if opts.ScaleUnits {
		if err := cs.ScaleUnits(); err != nil {
			return nil, fmt.Errorf("scaling units: %w", err)
		}
	}

	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

// Copy returns a deep copy. Rows are value types, so cloning the tables and
// the matrices makes the copy fully independent.
func (cs *CaseStudy) Copy() *CaseStudy {
	c := *cs
	c.Scenarios = cs.Scenarios.Clone()
	c.BusInfo = cs.BusInfo.Clone()
	c.Network = cs.Network.Clone()
	c.Demand = cs.Demand.Clone()
	c.ThermalGen = cs.ThermalGen.Clone()
	c.VRES = cs.VRES.Clone()
	c.VRESProfiles = cs.VRESProfiles.Clone()
	c.Storage = cs.Storage.Clone()
	c.Inflows = cs.Inflows.Clone()
	c.ImpExpHubs = cs.ImpExpHubs.Clone()
	c.ImpExpProfiles = cs.ImpExpProfiles.Clone()
	c.WeightsRP = cs.WeightsRP.Clone()
	c.WeightsK = cs.WeightsK.Clone()
	c.Hindex = cs.Hindex.Clone()
	c.RPTransitionAbsolute = cs.RPTransitionAbsolute.Clone()
	c.RPTransitionRelativeTo = cs.RPTransitionRelativeTo.Clone()
	c.RPTransitionRelativeFrom = cs.RPTransitionRelativeFrom.Clone()
	return &c
}

// tableViews lists every row table for class-driven iteration.
func (cs *CaseStudy) tableViews() []table.View {
	return []table.View{
		cs.Scenarios, cs.BusInfo, cs.Network, cs.Demand, cs.ThermalGen,
		cs.VRES, cs.VRESProfiles, cs.Storage, cs.Inflows, cs.ImpExpHubs,
		cs.ImpExpProfiles, cs.WeightsRP, cs.WeightsK, cs.Hindex,
	}
}

// shiftableViews lists the rpk tables whose timesteps ShiftKs rotates. The
// weight and hour-index tables keep their axes fixed.
func (cs *CaseStudy) shiftableViews() []table.View {
	return []table.View{cs.Demand, cs.VRESProfiles, cs.Inflows, cs.ImpExpProfiles}
}

// ScenarioIDs returns the registered scenario names in registry order.
func (cs *CaseStudy) ScenarioIDs() []string {
	ids := make([]string, 0, cs.Scenarios.Len())
	for _, r := range cs.Scenarios.Rows() {
		ids = append(ids, r.ScenarioID)
	}
	return ids
}

// Validate checks the referential invariants: scenario tags resolve in the
// registry, bus references resolve in the bus info, and every (rp, k) pair
// used by an rpk table exists in the hour index of its scenario.
func (cs *CaseStudy) Validate() error {
	registry := make(map[string]struct{}, cs.Scenarios.Len())
	for _, r := range cs.Scenarios.Rows() {
		registry[r.ScenarioID] = struct{}{}
	}
	inRegistry := func(tableName, scenario string) error {
		if _, ok := registry[scenario]; !ok {
			return fmt.Errorf("%s: scenario %q: %w", tableName, scenario, ErrUnknownScenario)
		}
		return nil
	}

	buses := make(map[string]struct{}, cs.BusInfo.Len())
	for _, r := range cs.BusInfo.Rows() {
		if err := inRegistry(TableBusInfo, r.Scenario); err != nil {
			return err
		}
		buses[table.Key(r.Scenario, r.Bus)] = struct{}{}
	}
	busExists := func(tableName, scenario, bus string) error {
		if _, ok := buses[table.Key(scenario, bus)]; !ok {
			return fmt.Errorf("%s: bus %q (scenario %q): %w", tableName, bus, scenario, ErrMissingBus)
		}
		return nil
	}

	slots := make(map[string]struct{}, cs.Hindex.Len())
	for _, r := range cs.Hindex.Rows() {
		if err := inRegistry(TableHindex, r.Scenario); err != nil {
			return err
		}
		slots[table.Key(r.Scenario, r.RP, r.K)] = struct{}{}
	}
	slotExists := func(tableName, scenario, rp, k string) error {
		if _, ok := slots[table.Key(scenario, rp, k)]; !ok {
			return fmt.Errorf("%s: rp %q k %q (scenario %q): %w", tableName, rp, k, scenario, ErrMissingTimeslot)
		}
		return nil
	}

	for _, r := range cs.Network.Rows() {
		if err := inRegistry(TableNetwork, r.Scenario); err != nil {
			return err
		}
		if err := busExists(TableNetwork, r.Scenario, r.I); err != nil {
			return err
		}
		if err := busExists(TableNetwork, r.Scenario, r.J); err != nil {
			return err
		}
	}
	for _, r := range cs.Demand.Rows() {
		if err := inRegistry(TableDemand, r.Scenario); err != nil {
			return err
		}
		if err := busExists(TableDemand, r.Scenario, r.Bus); err != nil {
			return err
		}
		if err := slotExists(TableDemand, r.Scenario, r.RP, r.K); err != nil {
			return err
		}
	}
	for _, r := range cs.ThermalGen.Rows() {
		if err := inRegistry(TableThermalGen, r.Scenario); err != nil {
			return err
		}
		if err := busExists(TableThermalGen, r.Scenario, r.Bus); err != nil {
			return err
		}
	}
	for _, r := range cs.VRES.Rows() {
		if err := inRegistry(TableVRES, r.Scenario); err != nil {
			return err
		}
		if err := busExists(TableVRES, r.Scenario, r.Bus); err != nil {
			return err
		}
	}
	for _, r := range cs.VRESProfiles.Rows() {
		if err := inRegistry(TableVRESProfiles, r.Scenario); err != nil {
			return err
		}
		if err := busExists(TableVRESProfiles, r.Scenario, r.Bus); err != nil {
			return err
		}
		if err := slotExists(TableVRESProfiles, r.Scenario, r.RP, r.K); err != nil {
			return err
		}
	}
	for _, r := range cs.Storage.Rows() {
		if err := inRegistry(TableStorage, r.Scenario); err != nil {
			return err
		}
		if err := busExists(TableStorage, r.Scenario, r.Bus); err != nil {
			return err
		}
	}
	for _, r := range cs.Inflows.Rows() {
		if err := inRegistry(TableInflows, r.Scenario); err != nil {
			return err
		}
		if err := slotExists(TableInflows, r.Scenario, r.RP, r.K); err != nil {
			return err
		}
	}
	for _, r := range cs.ImpExpHubs.Rows() {
		if err := inRegistry(TableImpExpHubs, r.Scenario); err != nil {
			return err
		}
		if err := busExists(TableImpExpHubs, r.Scenario, r.Bus); err != nil {
			return err
		}
	}
	for _, r := range cs.ImpExpProfiles.Rows() {
		if err := inRegistry(TableImpExpProfiles, r.Scenario); err != nil {
			return err
		}
		if err := slotExists(TableImpExpProfiles, r.Scenario, r.RP, r.K); err != nil {
			return err
		}
	}
	for _, r := range cs.WeightsRP.Rows() {
		if err := inRegistry(TableWeightsRP, r.Scenario); err != nil {
			return err
		}
	}
	for _, r := range cs.WeightsK.Rows() {
		if err := inRegistry(TableWeightsK, r.Scenario); err != nil {
			return err
		}
	}
	return nil
}
