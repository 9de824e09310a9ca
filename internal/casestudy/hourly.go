package casestudy

import (
	"fmt"
	"sort"

	"legoio/internal/table"
)

// HourlyRP is the single representative period of a fully chronological
// model.
const HourlyRP = "rp01"

// ToFullHourlyModel expands the representative-period structure into a
// single chronological period: every hour of the hour index becomes one
// timestep of HourlyRP carrying the row data of its representative slot.
// Demand, VRES profiles, inflows and import/export profiles are expanded,
// the hour index becomes the identity mapping, every weight becomes 1, and
// the transition matrices are recomputed (trivially, onto HourlyRP).
// Returns nil with inplace, an expanded deep copy otherwise.
func (cs *CaseStudy) ToFullHourlyModel(inplace bool) (*CaseStudy, error) {
	out := cs.Copy()

	_, demandBySlot := table.GroupBy(out.Demand.Rows(), func(r DemandRow) string {
		return table.Key(r.Scenario, r.RP, r.K)
	})
	_, profilesBySlot := table.GroupBy(out.VRESProfiles.Rows(), func(r VRESProfileRow) string {
		return table.Key(r.Scenario, r.RP, r.K)
	})
	_, inflowsBySlot := table.GroupBy(out.Inflows.Rows(), func(r InflowRow) string {
		return table.Key(r.Scenario, r.RP, r.K)
	})
	_, impExpBySlot := table.GroupBy(out.ImpExpProfiles.Rows(), func(r ImpExpProfileRow) string {
		return table.Key(r.Scenario, r.RP, r.K)
	})

	var (
		demand    []DemandRow
		profiles  []VRESProfileRow
		inflows   []InflowRow
		impExp    []ImpExpProfileRow
		hindex    []HindexRow
		weightsK  []WeightKRow
		weightsRP []WeightRPRow
	)

	scenarios, hoursByScenario := table.GroupBy(out.Hindex.Rows(), func(r HindexRow) string {
		return r.Scenario
	})
	for _, sc := range scenarios {
		hours := append([]HindexRow(nil), hoursByScenario[sc]...)
		sort.Slice(hours, func(i, j int) bool { return hours[i].P < hours[j].P })

		for n, h := range hours {
			k := fmt.Sprintf("k%04d", n+1)
			slot := table.Key(sc, h.RP, h.K)

			for _, src := range demandBySlot[slot] {
				src.RP, src.K = HourlyRP, k
				demand = append(demand, src)
			}
			for _, src := range profilesBySlot[slot] {
				src.RP, src.K = HourlyRP, k
				profiles = append(profiles, src)
			}
			for _, src := range inflowsBySlot[slot] {
				src.RP, src.K = HourlyRP, k
				inflows = append(inflows, src)
			}
			for _, src := range impExpBySlot[slot] {
				src.RP, src.K = HourlyRP, k
				impExp = append(impExp, src)
			}

			h.RP, h.K = HourlyRP, k
			hindex = append(hindex, h)
			weightsK = append(weightsK, WeightKRow{Scenario: sc, K: k, Weight: 1})
		}
		weightsRP = append(weightsRP, WeightRPRow{Scenario: sc, RP: HourlyRP, Weight: 1})
	}

	for name, replace := range map[string]func() error{
		TableDemand:         func() error { return out.Demand.Replace(demand) },
		TableVRESProfiles:   func() error { return out.VRESProfiles.Replace(profiles) },
		TableInflows:        func() error { return out.Inflows.Replace(inflows) },
		TableImpExpProfiles: func() error { return out.ImpExpProfiles.Replace(impExp) },
		TableHindex:         func() error { return out.Hindex.Replace(hindex) },
		TableWeightsK:       func() error { return out.WeightsK.Replace(weightsK) },
		TableWeightsRP:      func() error { return out.WeightsRP.Replace(weightsRP) },
	} {
		if err := replace(); err != nil {
			return nil, fmt.Errorf("expanding %s: %w", name, err)
		}
	}

	if err := out.RecomputeRPTransitionMatrices(TransitionOptions{}); err != nil {
		return nil, err
	}

	if inplace {
		*cs = *out
		return nil, nil
	}
	return out, nil
}
