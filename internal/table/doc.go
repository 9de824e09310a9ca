// Package table provides the keyed table container the case-study model is
// built from.
//
// A Table holds ordered rows of one concrete type, enforces composite-key
// uniqueness on append, and carries a dependency Class assigned at
// registration. The class names the dimensions a table is keyed by
// (scenario, representative period, timestep); column accessor bindings for
// those dimensions are supplied alongside the class and checked against it
// once, when the table is created.
//
// The View interface exposes the class-driven projections (scenario filter,
// rp filter, timestep range filter, cyclic timestep shift) without the row
// type, so callers can walk a heterogeneous set of tables and apply an
// operation to exactly the classes it belongs to.
//
// Example usage:
//
//	t := table.MustNew[DemandRow]("Power_Demand", table.ClassRPK,
//		table.WithScenario(func(r DemandRow) string { return r.Scenario }),
//		table.WithRP(func(r DemandRow) string { return r.RP }),
//		table.WithK(func(r DemandRow) string { return r.K },
//			func(r DemandRow, k string) DemandRow { r.K = k; return r }),
//	)
//	err := t.Append(rows...)
package table
