package casestudy

import "legoio/internal/table"

// Table constructors register each table under its dependency class with the
// column bindings the class requires. Binding completeness is checked once,
// here, by table.New.

func NewScenariosTable() *table.Table[ScenarioRow] {
	return table.MustNew[ScenarioRow](TableGlobalScenarios, table.ClassNonDependent)
}

func NewBusInfoTable() *table.Table[BusRow] {
	return table.MustNew[BusRow](TableBusInfo, table.ClassNonTime,
		table.WithScenario(func(r BusRow) string { return r.Scenario }))
}

func NewNetworkTable() *table.Table[LineRow] {
	return table.MustNew[LineRow](TableNetwork, table.ClassNonTime,
		table.WithScenario(func(r LineRow) string { return r.Scenario }))
}

func NewDemandTable() *table.Table[DemandRow] {
	return table.MustNew[DemandRow](TableDemand, table.ClassRPK,
		table.WithScenario(func(r DemandRow) string { return r.Scenario }),
		table.WithRP(func(r DemandRow) string { return r.RP }),
		table.WithK(func(r DemandRow) string { return r.K },
			func(r DemandRow, k string) DemandRow { r.K = k; return r }))
}

func NewThermalGenTable() *table.Table[ThermalGenRow] {
	return table.MustNew[ThermalGenRow](TableThermalGen, table.ClassNonTime,
		table.WithScenario(func(r ThermalGenRow) string { return r.Scenario }))
}

func NewVRESTable() *table.Table[VRESRow] {
	return table.MustNew[VRESRow](TableVRES, table.ClassNonTime,
		table.WithScenario(func(r VRESRow) string { return r.Scenario }))
}

func NewVRESProfilesTable() *table.Table[VRESProfileRow] {
	return table.MustNew[VRESProfileRow](TableVRESProfiles, table.ClassRPK,
		table.WithScenario(func(r VRESProfileRow) string { return r.Scenario }),
		table.WithRP(func(r VRESProfileRow) string { return r.RP }),
		table.WithK(func(r VRESProfileRow) string { return r.K },
			func(r VRESProfileRow, k string) VRESProfileRow { r.K = k; return r }))
}

func NewStorageTable() *table.Table[StorageRow] {
	return table.MustNew[StorageRow](TableStorage, table.ClassNonTime,
		table.WithScenario(func(r StorageRow) string { return r.Scenario }))
}

func NewInflowsTable() *table.Table[InflowRow] {
	return table.MustNew[InflowRow](TableInflows, table.ClassRPK,
		table.WithScenario(func(r InflowRow) string { return r.Scenario }),
		table.WithRP(func(r InflowRow) string { return r.RP }),
		table.WithK(func(r InflowRow) string { return r.K },
			func(r InflowRow, k string) InflowRow { r.K = k; return r }))
}

func NewImpExpHubsTable() *table.Table[ImpExpHubRow] {
	return table.MustNew[ImpExpHubRow](TableImpExpHubs, table.ClassNonTime,
		table.WithScenario(func(r ImpExpHubRow) string { return r.Scenario }))
}

func NewImpExpProfilesTable() *table.Table[ImpExpProfileRow] {
	return table.MustNew[ImpExpProfileRow](TableImpExpProfiles, table.ClassRPK,
		table.WithScenario(func(r ImpExpProfileRow) string { return r.Scenario }),
		table.WithRP(func(r ImpExpProfileRow) string { return r.RP }),
		table.WithK(func(r ImpExpProfileRow) string { return r.K },
			func(r ImpExpProfileRow, k string) ImpExpProfileRow { r.K = k; return r }))
}

func NewWeightsRPTable() *table.Table[WeightRPRow] {
	return table.MustNew[WeightRPRow](TableWeightsRP, table.ClassRPOnly,
		table.WithScenario(func(r WeightRPRow) string { return r.Scenario }),
		table.WithRP(func(r WeightRPRow) string { return r.RP }))
}

func NewWeightsKTable() *table.Table[WeightKRow] {
	return table.MustNew[WeightKRow](TableWeightsK, table.ClassKOnly,
		table.WithScenario(func(r WeightKRow) string { return r.Scenario }),
		table.WithK(func(r WeightKRow) string { return r.K },
			func(r WeightKRow, k string) WeightKRow { r.K = k; return r }))
}

func NewHindexTable() *table.Table[HindexRow] {
	return table.MustNew[HindexRow](TableHindex, table.ClassRPK,
		table.WithScenario(func(r HindexRow) string { return r.Scenario }),
		table.WithRP(func(r HindexRow) string { return r.RP }),
		table.WithK(func(r HindexRow) string { return r.K },
			func(r HindexRow, k string) HindexRow { r.K = k; return r }))
}
