package casestudy

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"legoio/internal/table"
)

// MergedBusPrefix prefixes the name of every bus the reducer creates.
const MergedBusPrefix = "merged-"

// MergeSingleNodeBuses collapses groups of buses connected by single-node
// (SN) lines into one bus per connected component. Component members are
// collected per scenario with a depth-first walk over the SN adjacency,
// sorted, and replaced by a bus named "merged-" plus the joined member
// names. Bus info aggregates per component, internal lines are dropped,
// surviving lines re-key onto the merged bus and collapse per (i, j) pair,
// and every bus-referencing table follows the rename. One traversal covers
// all components, and a second call finds no SN lines left to merge.
func (cs *CaseStudy) MergeSingleNodeBuses() error {
	adjacency := make(map[string][]string)
	for _, line := range cs.Network.Rows() {
		if line.TecRepr != TecReprSingleNode {
			continue
		}
		for _, end := range []string{line.I, line.J} {
			if !cs.BusInfo.Has(table.Key(line.Scenario, end)) {
				return fmt.Errorf("%s: bus %q (scenario %q): %w",
					TableNetwork, end, line.Scenario, ErrMissingBus)
			}
		}
		adjacency[table.Key(line.Scenario, line.I)] = append(adjacency[table.Key(line.Scenario, line.I)], line.J)
		adjacency[table.Key(line.Scenario, line.J)] = append(adjacency[table.Key(line.Scenario, line.J)], line.I)
	}
	if len(adjacency) == 0 {
		return nil
	}

	// Walk buses in table order so component discovery is deterministic.
	renames := make(map[string]string)
	visited := make(map[string]struct{})
	mergedByScenario := make(map[string][]BusRow)
	for _, bus := range cs.BusInfo.Rows() {
		start := table.Key(bus.Scenario, bus.Bus)
		if _, seen := visited[start]; seen {
			continue
		}
		if len(adjacency[start]) == 0 {
			continue
		}

		visited[start] = struct{}{}
		stack := []string{bus.Bus}
		var members []string
		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, b)
			for _, nb := range adjacency[table.Key(bus.Scenario, b)] {
				key := table.Key(bus.Scenario, nb)
				if _, seen := visited[key]; seen {
					continue
				}
				visited[key] = struct{}{}
				stack = append(stack, nb)
			}
		}
		sort.Strings(members)
		merged := MergedBusPrefix + strings.Join(members, "-")
		for _, m := range members {
			renames[table.Key(bus.Scenario, m)] = merged
		}
		mergedByScenario[bus.Scenario] = append(mergedByScenario[bus.Scenario], cs.aggregateBusRows(bus.Scenario, merged, members))

		slog.Info("merging single-node buses",
			slog.String("scenario", bus.Scenario),
			slog.String("merged_bus", merged),
			slog.Int("members", len(members)))
	}

	renameOf := func(scenario, bus string) string {
		if merged, ok := renames[table.Key(scenario, bus)]; ok {
			return merged
		}
		return bus
	}

	cs.BusInfo.Filter(func(r BusRow) bool {
		_, dropped := renames[table.Key(r.Scenario, r.Bus)]
		return !dropped
	})
	for _, scenario := range sortedKeys(mergedByScenario) {
		if err := cs.BusInfo.Append(mergedByScenario[scenario]...); err != nil {
			return err
		}
	}

	if err := cs.rekeyNetwork(renameOf); err != nil {
		return err
	}

	if err := cs.ThermalGen.Update(func(r ThermalGenRow) ThermalGenRow {
		r.Bus = renameOf(r.Scenario, r.Bus)
		return r
	}); err != nil {
		return err
	}
	if err := cs.VRES.Update(func(r VRESRow) VRESRow {
		r.Bus = renameOf(r.Scenario, r.Bus)
		return r
	}); err != nil {
		return err
	}
	if err := cs.Storage.Update(func(r StorageRow) StorageRow {
		r.Bus = renameOf(r.Scenario, r.Bus)
		return r
	}); err != nil {
		return err
	}
	if err := cs.ImpExpHubs.Update(func(r ImpExpHubRow) ImpExpHubRow {
		r.Bus = renameOf(r.Scenario, r.Bus)
		return r
	}); err != nil {
		return err
	}

	if err := cs.rekeyDemand(renameOf); err != nil {
		return err
	}
	return cs.rekeyVRESProfiles(renameOf)
}

// aggregateBusRows folds the member bus rows into the merged row: mean for
// the year and coordinate fields, OR for the zone-of-interest flag, first
// member's value for everything else.
func (cs *CaseStudy) aggregateBusRows(scenario, merged string, members []string) BusRow {
	first, _ := cs.BusInfo.Get(table.Key(scenario, members[0]))
	out := first
	out.Bus = merged

	var lats, longs, coms, decoms []float64
	zoi := false
	for _, m := range members {
		r, _ := cs.BusInfo.Get(table.Key(scenario, m))
		lats = append(lats, r.Lat)
		longs = append(longs, r.Long)
		coms = append(coms, r.YearCom)
		decoms = append(decoms, r.YearDecom)
		zoi = zoi || r.ZOI
	}
	out.Lat = nanMean(lats)
	out.Long = nanMean(longs)
	out.YearCom = nanMean(coms)
	out.YearDecom = nanMean(decoms)
	out.ZOI = zoi
	return out
}

// rekeyNetwork renames line endpoints, drops lines internal to a merged
// component, keeps the merged bus in the j position, and collapses rows
// sharing an (i, j) pair: reactances combine in parallel, capacity is the
// pairwise minimum times the line count, DC-OPF wins over other technical
// representations, years average, and all other fields take the first row.
func (cs *CaseStudy) rekeyNetwork(renameOf func(scenario, bus string) string) error {
	var kept []LineRow
	for _, r := range cs.Network.Rows() {
		r.I = renameOf(r.Scenario, r.I)
		r.J = renameOf(r.Scenario, r.J)
		if r.I == r.J {
			continue
		}
		iMerged := strings.HasPrefix(r.I, MergedBusPrefix)
		jMerged := strings.HasPrefix(r.J, MergedBusPrefix)
		if (iMerged && !jMerged) || (iMerged && jMerged && r.I > r.J) {
			r.I, r.J = r.J, r.I
		}
		kept = append(kept, r)
	}

	order, groups := table.GroupBy(kept, func(r LineRow) string {
		return table.Key(r.Scenario, r.I, r.J)
	})
	sort.Strings(order)

	rows := make([]LineRow, 0, len(order))
	for _, key := range order {
		group := groups[key]
		out := group[0]
		if len(group) > 1 {
			admittance := 0.0
			minPmax := math.Inf(1)
			var coms, decoms []float64
			for _, g := range group {
				admittance += 1 / g.X
				minPmax = math.Min(minPmax, g.Pmax)
				coms = append(coms, g.YearCom)
				decoms = append(decoms, g.YearDecom)
				if g.TecRepr == TecReprDCOPF {
					out.TecRepr = TecReprDCOPF
				}
			}
			out.X = 1 / admittance
			out.Pmax = minPmax * float64(len(group))
			out.YearCom = nanMean(coms)
			out.YearDecom = nanMean(decoms)
		}
		rows = append(rows, out)
	}
	return cs.Network.Replace(rows)
}

// rekeyDemand renames demand buses and sums rows that now share a
// (scenario, rp, k, bus) key.
func (cs *CaseStudy) rekeyDemand(renameOf func(scenario, bus string) string) error {
	renamed := make([]DemandRow, 0, cs.Demand.Len())
	for _, r := range cs.Demand.Rows() {
		r.Bus = renameOf(r.Scenario, r.Bus)
		renamed = append(renamed, r)
	}

	order, groups := table.GroupBy(renamed, func(r DemandRow) string { return r.Key() })
	sort.Strings(order)

	rows := make([]DemandRow, 0, len(order))
	for _, key := range order {
		group := groups[key]
		out := group[0]
		if len(group) > 1 {
			values := make([]float64, len(group))
			for i, g := range group {
				values[i] = g.Value
			}
			out.Value = nanSum(values)
		}
		rows = append(rows, out)
	}
	return cs.Demand.Replace(rows)
}

// rekeyVRESProfiles renames profile buses and averages rows that now share a
// (scenario, rp, k, bus, tec, g) key.
func (cs *CaseStudy) rekeyVRESProfiles(renameOf func(scenario, bus string) string) error {
	renamed := make([]VRESProfileRow, 0, cs.VRESProfiles.Len())
	for _, r := range cs.VRESProfiles.Rows() {
		r.Bus = renameOf(r.Scenario, r.Bus)
		renamed = append(renamed, r)
	}

	order, groups := table.GroupBy(renamed, func(r VRESProfileRow) string { return r.Key() })
	sort.Strings(order)

	rows := make([]VRESProfileRow, 0, len(order))
	for _, key := range order {
		group := groups[key]
		out := group[0]
		if len(group) > 1 {
			values := make([]float64, len(group))
			for i, g := range group {
				values[i] = g.Value
			}
			out.Value = nanMean(values)
		}
		rows = append(rows, out)
	}
	return cs.VRESProfiles.Replace(rows)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
