package aggregation

import (
	"fmt"
	"log/slog"

	"legoio/internal/casestudy"
)

// Apply compresses the chronological structure of the case study into
// Options.Clusters representative periods of Options.PeriodLength hours,
// independently per scenario, and returns the result as a new case study.
//
// Per scenario the hours are cut into consecutive blocks and clustered with
// PAM k-medoids over the scenario's feature matrix. Each cluster's medoid
// block becomes one representative period and the cluster occupancy its
// weight; timestep weights are uniform. Demand, renewable profiles and
// inflows are rebuilt by copying the medoid block rows under the new
// (rp, k) labels, the hour index re-maps every original hour onto its
// block's cluster, and the transition matrices are recomputed from the new
// index.
func Apply(cs *casestudy.CaseStudy, opts Options) (*casestudy.CaseStudy, error) {
	opts = opts.withDefaults()
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("aggregation options: %w", err)
	}

	out := cs.Copy()

	var (
		demand    []casestudy.DemandRow
		profiles  []casestudy.VRESProfileRow
		inflows   []casestudy.InflowRow
		weightsRP []casestudy.WeightRPRow
		weightsK  []casestudy.WeightKRow
		hindex    []casestudy.HindexRow
	)
	for _, scenario := range cs.ScenarioIDs() {
		res, err := aggregateScenario(cs, scenario, opts)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario, err)
		}
		demand = append(demand, res.demand...)
		profiles = append(profiles, res.profiles...)
		inflows = append(inflows, res.inflows...)
		weightsRP = append(weightsRP, res.weightsRP...)
		weightsK = append(weightsK, res.weightsK...)
		hindex = append(hindex, res.hindex...)
	}

	for name, replace := range map[string]func() error{
		casestudy.TableDemand:       func() error { return out.Demand.Replace(demand) },
		casestudy.TableVRESProfiles: func() error { return out.VRESProfiles.Replace(profiles) },
		casestudy.TableInflows:      func() error { return out.Inflows.Replace(inflows) },
		casestudy.TableWeightsRP:    func() error { return out.WeightsRP.Replace(weightsRP) },
		casestudy.TableWeightsK:     func() error { return out.WeightsK.Replace(weightsK) },
		casestudy.TableHindex:       func() error { return out.Hindex.Replace(hindex) },
	} {
		if err := replace(); err != nil {
			return nil, fmt.Errorf("rebuilding %s: %w", name, err)
		}
	}

	if err := out.RecomputeRPTransitionMatrices(casestudy.TransitionOptions{}); err != nil {
		return nil, err
	}
	return out, nil
}

type scenarioResult struct {
	demand    []casestudy.DemandRow
	profiles  []casestudy.VRESProfileRow
	inflows   []casestudy.InflowRow
	weightsRP []casestudy.WeightRPRow
	weightsK  []casestudy.WeightKRow
	hindex    []casestudy.HindexRow
}

func aggregateScenario(cs *casestudy.CaseStudy, scenario string, opts Options) (*scenarioResult, error) {
	fm, err := buildFeatures(cs, scenario, opts)
	if err != nil {
		return nil, err
	}

	blocks := fm.hours / opts.PeriodLength
	if opts.Clusters > blocks {
		return nil, fmt.Errorf("%d clusters over %d blocks: %w",
			opts.Clusters, blocks, ErrTooManyClusters)
	}

	vectors := fm.blockVectors(opts.PeriodLength)
	cl := kMedoids(distanceMatrix(vectors), blocks, opts.Clusters)

	slog.Info("clustered scenario blocks",
		slog.String("scenario", scenario),
		slog.Int("blocks", blocks),
		slog.Int("clusters", opts.Clusters),
		slog.Any("medoids", cl.medoids))

	res := &scenarioResult{}
	res.demand, err = rebuildRows(cs.Demand.Rows(), scenario, cl, opts,
		func(r casestudy.DemandRow) string { return r.Scenario },
		func(r casestudy.DemandRow) (string, string) { return r.RP, r.K },
		func(r casestudy.DemandRow, rp, k string) casestudy.DemandRow { r.RP, r.K = rp, k; return r })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", casestudy.TableDemand, err)
	}
	res.profiles, err = rebuildRows(cs.VRESProfiles.Rows(), scenario, cl, opts,
		func(r casestudy.VRESProfileRow) string { return r.Scenario },
		func(r casestudy.VRESProfileRow) (string, string) { return r.RP, r.K },
		func(r casestudy.VRESProfileRow, rp, k string) casestudy.VRESProfileRow { r.RP, r.K = rp, k; return r })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", casestudy.TableVRESProfiles, err)
	}
	res.inflows, err = rebuildRows(cs.Inflows.Rows(), scenario, cl, opts,
		func(r casestudy.InflowRow) string { return r.Scenario },
		func(r casestudy.InflowRow) (string, string) { return r.RP, r.K },
		func(r casestudy.InflowRow, rp, k string) casestudy.InflowRow { r.RP, r.K = rp, k; return r })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", casestudy.TableInflows, err)
	}

	for c, count := range cl.counts {
		res.weightsRP = append(res.weightsRP, casestudy.WeightRPRow{
			Scenario: scenario, RP: formatRP(c + 1), Weight: float64(count),
		})
	}
	for k := 1; k <= opts.PeriodLength; k++ {
		res.weightsK = append(res.weightsK, casestudy.WeightKRow{
			Scenario: scenario, K: formatK(k), Weight: 1,
		})
	}
	for b, cluster := range cl.order {
		for k := 1; k <= opts.PeriodLength; k++ {
			res.hindex = append(res.hindex, casestudy.HindexRow{
				Scenario: scenario,
				P:        formatP(b*opts.PeriodLength + k),
				RP:       formatRP(cluster + 1),
				K:        formatK(k),
			})
		}
	}
	return res, nil
}

// rebuildRows copies the rows of each medoid block under the new (rp, k)
// labels, in cluster order then timestep order.
func rebuildRows[R any](rows []R, scenario string, cl clustering, opts Options,
	scenarioOf func(R) string, slotOf func(R) (string, string), relabel func(R, string, string) R) ([]R, error) {

	byHour := make(map[int][]R)
	for _, r := range rows {
		if scenarioOf(r) != scenario {
			continue
		}
		rp, k := slotOf(r)
		p, err := hourOf(rp, k, opts.PeriodLength)
		if err != nil {
			return nil, err
		}
		byHour[p] = append(byHour[p], r)
	}

	var out []R
	for c, m := range cl.medoids {
		rpNew := formatRP(c + 1)
		for offset := 1; offset <= opts.PeriodLength; offset++ {
			kNew := formatK(offset)
			for _, r := range byHour[m*opts.PeriodLength+offset] {
				out = append(out, relabel(r, rpNew, kNew))
			}
		}
	}
	return out, nil
}
