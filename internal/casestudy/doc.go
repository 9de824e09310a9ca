// Package casestudy holds the in-memory model of one energy-system case
// study and the preparation transforms that run on it.
//
// A CaseStudy bundles the parameter blocks, the input tables registered
// under their dependency classes, the unit scaling factors and the
// representative-period transition matrices. New builds it from raw tables,
// derives the matrices from the hour index and optionally runs the standard
// preparation sequence: single-node bus merging followed by unit scaling.
//
// The transforms mirror that sequence. MergeSingleNodeBuses collapses buses
// connected by zero-impedance lines, ScaleUnits and RemoveScaling convert
// between source and model units, the Filter methods cut the study down to
// one scenario, period or timestep window, and ToFullHourlyModel expands the
// representative structure back into a single chronological period.
//
// Filters and expansions operate on a deep copy by default; passing inplace
// swaps the result into the receiver instead. Missing numeric cells are NaN
// throughout, and the scaling formulas fill defaults where one is required.
package casestudy
