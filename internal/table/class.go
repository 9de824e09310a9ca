package table

import "fmt"

// Class identifies the dependency class of a table. Every table belongs to
// exactly one class, assigned at registration; the class decides which
// projection operations (scenario, representative-period and timestep
// filters, timestep shifts) apply to it.
type Class int

const (
	// ClassNonDependent tables carry global data independent of scenario
	// and time (solver parameters, the scenario registry).
	ClassNonDependent Class = iota
	// ClassRPK tables are keyed by representative period and intra-period
	// timestep (demand, profiles, inflows, the hour index).
	ClassRPK
	// ClassRPOnly tables are keyed by representative period alone
	// (per-period weights).
	ClassRPOnly
	// ClassKOnly tables are keyed by intra-period timestep alone
	// (per-timestep weights).
	ClassKOnly
	// ClassNonTime tables are scenario-dependent but carry no time axis
	// (buses, lines, generation and storage units, hubs).
	ClassNonTime
)

// String returns the class name used in logs and error messages.
func (c Class) String() string {
	switch c {
	case ClassNonDependent:
		return "non-dependent"
	case ClassRPK:
		return "rpk-dependent"
	case ClassRPOnly:
		return "rp-only"
	case ClassKOnly:
		return "k-only"
	case ClassNonTime:
		return "non-time"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// DependsOnScenario reports whether tables of this class carry a scenario tag.
func (c Class) DependsOnScenario() bool {
	return c != ClassNonDependent
}

// DependsOnRP reports whether tables of this class carry a representative
// period key.
func (c Class) DependsOnRP() bool {
	return c == ClassRPK || c == ClassRPOnly
}

// DependsOnK reports whether tables of this class carry a timestep key.
func (c Class) DependsOnK() bool {
	return c == ClassRPK || c == ClassKOnly
}
