package casestudy

import (
	"errors"
	"fmt"
	"math"

	"legoio/internal/table"
)

// Sentinel errors for inflow/capacity-factor conversions.
var (
	ErrMissingGenerator = errors.New("generator not in VRES units")
	ErrUnusableCapacity = errors.New("unit capacity missing or zero")
)

// InflowsToCapacityFactors converts the inflow of every inflow generator
// into a capacity factor by dividing through the unit's rated capacity, and
// appends the result to the VRES profiles tagged with the generator id. The
// inflow rows stay in place; converting twice fails on the duplicate
// profile keys. A generator without a VRES unit or without a usable rated
// capacity is a fatal input error.
func (cs *CaseStudy) InflowsToCapacityFactors() error {
	profiles := make([]VRESProfileRow, 0, cs.Inflows.Len())
	for _, in := range cs.Inflows.Rows() {
		unit, ok := cs.VRES.Get(table.Key(in.Scenario, in.G))
		if !ok {
			return fmt.Errorf("%s: generator %q (scenario %q): %w",
				TableInflows, in.G, in.Scenario, ErrMissingGenerator)
		}
		if math.IsNaN(unit.MaxProd) || unit.MaxProd == 0 {
			return fmt.Errorf("%s: unit %q: MaxProd %v: %w",
				TableVRES, unit.G, unit.MaxProd, ErrUnusableCapacity)
		}
		profiles = append(profiles, VRESProfileRow{
			Scenario: in.Scenario,
			RP:       in.RP,
			K:        in.K,
			Bus:      unit.Bus,
			Tec:      unit.Tec,
			G:        unit.G,
			Value:    in.Value / unit.MaxProd,
		})
	}
	if err := cs.VRESProfiles.Append(profiles...); err != nil {
		return err
	}
	cs.VRESProfiles.SortByKey()
	return nil
}

// CapacityFactorsToInflows converts every generator-tagged profile row back
// into an inflow by multiplying with the unit's rated capacity. With
// removeProfiles the converted rows are dropped from the profiles table.
func (cs *CaseStudy) CapacityFactorsToInflows(removeProfiles bool) error {
	inflows := make([]InflowRow, 0)
	for _, pr := range cs.VRESProfiles.Rows() {
		if pr.G == "" {
			continue
		}
		unit, ok := cs.VRES.Get(table.Key(pr.Scenario, pr.G))
		if !ok {
			return fmt.Errorf("%s: generator %q (scenario %q): %w",
				TableVRESProfiles, pr.G, pr.Scenario, ErrMissingGenerator)
		}
		if math.IsNaN(unit.MaxProd) || unit.MaxProd == 0 {
			return fmt.Errorf("%s: unit %q: MaxProd %v: %w",
				TableVRES, unit.G, unit.MaxProd, ErrUnusableCapacity)
		}
		inflows = append(inflows, InflowRow{
			Scenario: pr.Scenario,
			RP:       pr.RP,
			K:        pr.K,
			G:        pr.G,
			Value:    pr.Value * unit.MaxProd,
		})
	}
	if err := cs.Inflows.Append(inflows...); err != nil {
		return err
	}
	cs.Inflows.SortByKey()
	if removeProfiles {
		cs.VRESProfiles.Filter(func(r VRESProfileRow) bool { return r.G == "" })
	}
	return nil
}
