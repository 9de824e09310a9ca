package casestudy

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for data-quality failures found while scaling.
var (
	ErrNotInteger   = errors.New("value must be an integer")
	ErrMissingValue = errors.New("required value is missing")
)

// ScaleUnits converts every table to per-unit model units using the power
// and cost scaling factors, fills the defaults the formulas require, derives
// the EUR cost fields, and drops generation and storage units that are
// neither existing nor investable. Data-quality checks run before any table
// is touched, so a failure leaves the case study unmodified.
func (cs *CaseStudy) ScaleUnits() error {
	if err := cs.checkScalable(); err != nil {
		return err
	}

	p := cs.PowerScalingFactor
	c := cs.CostScalingFactor

	cs.Power.SBase *= p
	cs.Power.ENSCost *= c / p
	cs.Power.LOLCost *= c / p
	cs.Power.MaxAngleDCOPF *= cs.AngleScalingFactor

	cs.scaleNetwork(p)
	cs.scaleDemand(p)
	cs.scaleThermalGen(p, c)
	cs.scaleVRES(p, c)
	cs.scaleStorage(p, c)
	cs.scaleInflows(p)
	cs.scaleImportExport(p, c)
	return nil
}

// RemoveScaling reverses ScaleUnits by re-running the same per-table logic
// with the reciprocal power, cost and angle factors. The fixed reactive
// factor is not inverted and the derived EUR fields are recomputed rather
// than restored, so only directly multiplied fields round-trip exactly.
func (cs *CaseStudy) RemoveScaling() error {
	origPower := cs.PowerScalingFactor
	origCost := cs.CostScalingFactor
	origAngle := cs.AngleScalingFactor

	cs.PowerScalingFactor = 1 / origPower
	cs.CostScalingFactor = 1 / origCost
	cs.AngleScalingFactor = 1 / origAngle

	err := cs.ScaleUnits()

	cs.PowerScalingFactor = origPower
	cs.CostScalingFactor = origCost
	cs.AngleScalingFactor = origAngle
	return err
}

// checkScalable validates the fields whose defects make scaling impossible:
// commitment times must be whole numbers and storage efficiencies must be
// present. Only units that survive the existing-or-investable filter are
// checked.
func (cs *CaseStudy) checkScalable() error {
	for _, r := range cs.ThermalGen.Rows() {
		if !unitKept(r.ExisUnits, r.EnableInvest) {
			continue
		}
		up := orDefault(r.MinUpTime, 0)
		down := orDefault(r.MinDownTime, 0)
		if up != math.Trunc(up) {
			return fmt.Errorf("%s: unit %q: MinUpTime %v: %w", TableThermalGen, r.G, r.MinUpTime, ErrNotInteger)
		}
		if down != math.Trunc(down) {
			return fmt.Errorf("%s: unit %q: MinDownTime %v: %w", TableThermalGen, r.G, r.MinDownTime, ErrNotInteger)
		}
	}
	for _, r := range cs.Storage.Rows() {
		if !unitKept(r.ExisUnits, r.EnableInvest) {
			continue
		}
		if math.IsNaN(r.DisEffic) {
			return fmt.Errorf("%s: unit %q: DisEffic: %w", TableStorage, r.G, ErrMissingValue)
		}
		if math.IsNaN(r.ChEffic) {
			return fmt.Errorf("%s: unit %q: ChEffic: %w", TableStorage, r.G, ErrMissingValue)
		}
	}
	return nil
}

// unitKept reports whether a generation or storage unit is existing or
// investable.
func unitKept(exisUnits, enableInvest float64) bool {
	return exisUnits > 0 || enableInvest > 0
}

func (cs *CaseStudy) scaleNetwork(p float64) {
	// Update keys stay fixed, so these rewrites cannot fail.
	_ = cs.Network.Update(func(r LineRow) LineRow {
		r.InvestCost = orDefault(r.InvestCost, 0)
		r.Pmax *= p
		return r
	})
}

func (cs *CaseStudy) scaleDemand(p float64) {
	_ = cs.Demand.Update(func(r DemandRow) DemandRow {
		r.Value *= p
		return r
	})
}

func (cs *CaseStudy) scaleThermalGen(p, c float64) {
	cs.ThermalGen.Filter(func(r ThermalGenRow) bool { return unitKept(r.ExisUnits, r.EnableInvest) })
	_ = cs.ThermalGen.Update(func(r ThermalGenRow) ThermalGenRow {
		r.EFOR = orDefault(r.EFOR, 0)
		r.SlopeVarCostEUR = (r.OMVarCost + r.FuelCost/r.Efficiency) * (c / p)
		r.InterVarCostEUR = r.CommitConsumption * r.FuelCost * c
		r.StartupCostEUR = r.StartupConsumption * r.FuelCost * c
		if r.EnableInvest == 1 && r.ExisUnits == 0 {
			r.MaxInvest = 1
		} else {
			r.MaxInvest = 0
		}
		r.RampUp *= p
		r.RampDw *= p
		r.MaxProd *= p * (1 - r.EFOR)
		r.MinProd *= p * (1 - r.EFOR)
		r.InvestCostEUR = r.InvestCost * (c / p) * r.MaxProd
		r.MinUpTime = orDefault(r.MinUpTime, 0)
		r.MinDownTime = orDefault(r.MinDownTime, 0)
		r.Qmin = orDefault(r.Qmin, 0) * cs.ReactiveScalingFactor
		r.Qmax = orDefault(r.Qmax, 0) * cs.ReactiveScalingFactor
		return r
	})
}

func (cs *CaseStudy) scaleVRES(p, c float64) {
	cs.VRES.Filter(func(r VRESRow) bool { return unitKept(r.ExisUnits, r.EnableInvest) })
	_ = cs.VRES.Update(func(r VRESRow) VRESRow {
		r.MinProd = orDefault(r.MinProd, 0)
		r.InvestCostEUR = r.InvestCost * (c / p) * r.MaxProd * p
		r.MaxProd *= p
		r.OMVarCost *= c / p
		r.Qmin = orDefault(r.Qmin, 0) * cs.ReactiveScalingFactor
		r.Qmax = orDefault(r.Qmax, 0) * cs.ReactiveScalingFactor
		return r
	})
}

func (cs *CaseStudy) scaleStorage(p, c float64) {
	cs.Storage.Filter(func(r StorageRow) bool { return unitKept(r.ExisUnits, r.EnableInvest) })
	_ = cs.Storage.Update(func(r StorageRow) StorageRow {
		r.IniReserve = orDefault(r.IniReserve, 0)
		r.MinReserve = orDefault(r.MinReserve, 0)
		r.MinProd = orDefault(r.MinProd, 0)
		r.OMVarCostEUR = r.OMVarCost * (c / p)
		r.InvestCostEUR = r.MaxProd * p * (r.InvestCostPerMW + r.InvestCostPerMWh*r.Ene2PowRatio) * (c / p)
		r.MaxProd *= p
		r.MaxCons *= p
		r.Qmin = orDefault(r.Qmin, 0) * cs.ReactiveScalingFactor
		r.Qmax = orDefault(r.Qmax, 0) * cs.ReactiveScalingFactor
		return r
	})
}

func (cs *CaseStudy) scaleInflows(p float64) {
	_ = cs.Inflows.Update(func(r InflowRow) InflowRow {
		r.Value *= p
		return r
	})
}

func (cs *CaseStudy) scaleImportExport(p, c float64) {
	_ = cs.ImpExpHubs.Update(func(r ImpExpHubRow) ImpExpHubRow {
		r.ImpExpMin *= p
		r.ImpExpMax *= p
		return r
	})
	_ = cs.ImpExpProfiles.Update(func(r ImpExpProfileRow) ImpExpProfileRow {
		r.ImpExpPrice *= c / p
		return r
	})
}
