package casestudy

import (
	"errors"
	"fmt"
)

// ErrEmptyFilterResult marks a scenario filter that would empty a table
// which had rows, which means the requested scenario does not exist in it.
var ErrEmptyFilterResult = errors.New("filter leaves no rows in a populated table")

// FilterScenario keeps only rows tagged with the named scenario in every
// scenario-dependent table. The scenario registry and the parameter blocks
// stay untouched. The filter runs on a deep copy; with inplace the copy is
// swapped into the receiver and nil is returned, otherwise the copy is
// returned. A populated table that would end up empty aborts the filter and
// leaves the receiver unchanged.
func (cs *CaseStudy) FilterScenario(scenario string, inplace bool) (*CaseStudy, error) {
	out := cs.Copy()
	for _, v := range out.tableViews() {
		if !v.Class().DependsOnScenario() {
			continue
		}
		before := v.Len()
		v.FilterScenario(scenario)
		if before > 0 && v.Len() == 0 {
			return nil, fmt.Errorf("%s: scenario %q: %w", v.Name(), scenario, ErrEmptyFilterResult)
		}
	}
	if inplace {
		*cs = *out
		return nil, nil
	}
	return out, nil
}

// FilterTimesteps keeps only rows whose timestep lies in the inclusive
// range [start, end] (lexicographic on the zero-padded labels) in every
// k-dependent table. Returns nil with inplace, a filtered deep copy
// otherwise.
func (cs *CaseStudy) FilterTimesteps(start, end string, inplace bool) *CaseStudy {
	out := cs.Copy()
	for _, v := range out.tableViews() {
		v.FilterKRange(start, end)
	}
	if inplace {
		*cs = *out
		return nil
	}
	return out
}

// FilterRepresentativePeriods keeps only rows of the named representative
// period in every rp-dependent table. Returns nil with inplace, a filtered
// deep copy otherwise.
func (cs *CaseStudy) FilterRepresentativePeriods(rp string, inplace bool) *CaseStudy {
	out := cs.Copy()
	for _, v := range out.tableViews() {
		v.FilterRP(rp)
	}
	if inplace {
		*cs = *out
		return nil
	}
	return out
}

// ShiftKs rotates the timestep assignment of every rpk data table by shift
// positions, wrapping modulo the table's distinct timestep count. The weight
// and hour-index tables keep their axes, and the set of (rp, k) pairs is
// preserved everywhere. Returns nil with inplace, a shifted deep copy
// otherwise.
func (cs *CaseStudy) ShiftKs(shift int, inplace bool) *CaseStudy {
	out := cs.Copy()
	for _, v := range out.shiftableViews() {
		v.ShiftKs(shift)
	}
	if inplace {
		*cs = *out
		return nil
	}
	return out
}
