package aggregation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"legoio/internal/casestudy"
	"legoio/internal/table"
)

// Sentinel errors for aggregation input defects.
var (
	ErrNoDemand           = errors.New("no demand rows for scenario")
	ErrBadLabel           = errors.New("malformed rp or k label")
	ErrHorizonIndivisible = errors.New("horizon not divisible by period length")
	ErrTooManyClusters    = errors.New("cluster count exceeds block count")
)

// hourOf converts (rp, k) labels into the absolute hour they occupy in a
// chronology blocked into periodLength-hour periods.
func hourOf(rp, k string, periodLength int) (int, error) {
	rpNum, err := labelNumber(rp, "rp")
	if err != nil {
		return 0, err
	}
	kNum, err := labelNumber(k, "k")
	if err != nil {
		return 0, err
	}
	return (rpNum-1)*periodLength + kNum, nil
}

func labelNumber(label, prefix string) (int, error) {
	digits, ok := strings.CutPrefix(label, prefix)
	if !ok {
		return 0, fmt.Errorf("label %q lacks prefix %q: %w", label, prefix, ErrBadLabel)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("label %q: %w", label, ErrBadLabel)
	}
	return n, nil
}

func formatRP(n int) string { return fmt.Sprintf("rp%02d", n) }
func formatK(n int) string  { return fmt.Sprintf("k%04d", n) }
func formatP(n int) string  { return fmt.Sprintf("h%04d", n) }

// featureMatrix holds one clustering observation per hour: demand per bus
// plus capacity-weighted renewable production per technology. Missing cells
// are zero.
type featureMatrix struct {
	hours int
	cols  []string
	data  *mat.Dense
}

// buildFeatures assembles the feature matrix of one scenario. The horizon is
// the highest hour any demand row occupies and must divide into whole
// blocks. Renewable features are value * MaxProd * capacity weight, summed
// per bus and technology over the contributing units; without renewable
// data the demand columns stand alone.
func buildFeatures(cs *casestudy.CaseStudy, scenario string, opts Options) (*featureMatrix, error) {
	values := make(map[string]map[int]float64)
	add := func(col string, hour int, v float64) {
		m := values[col]
		if m == nil {
			m = make(map[int]float64)
			values[col] = m
		}
		m[hour] += v
	}

	horizon := 0
	found := false
	for _, r := range cs.Demand.Rows() {
		if r.Scenario != scenario {
			continue
		}
		found = true
		p, err := hourOf(r.RP, r.K, opts.PeriodLength)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", casestudy.TableDemand, err)
		}
		if p > horizon {
			horizon = p
		}
		add(demandColumn(r.Bus, opts), p, orZero(r.Value))
	}
	if !found {
		return nil, ErrNoDemand
	}
	if horizon%opts.PeriodLength != 0 {
		return nil, fmt.Errorf("%d hours with period length %d: %w",
			horizon, opts.PeriodLength, ErrHorizonIndivisible)
	}

	weights := vresUnitWeights(cs, scenario, opts.Normalization)
	missing := make(map[string]struct{})
	for _, r := range cs.VRESProfiles.Rows() {
		if r.Scenario != scenario {
			continue
		}
		p, err := hourOf(r.RP, r.K, opts.PeriodLength)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", casestudy.TableVRESProfiles, err)
		}
		if p > horizon {
			continue
		}
		var w float64
		if r.G != "" {
			var ok bool
			if w, ok = weights.byGenerator[table.Key(scenario, r.G)]; !ok {
				missing[r.G] = struct{}{}
				continue
			}
		} else {
			w = weights.byBusTec[table.Key(scenario, r.Bus, r.Tec)]
		}
		add(techColumn(r.Bus, r.Tec, opts), p, orZero(r.Value)*w)
	}
	if len(missing) > 0 {
		slog.Warn("profiles reference generators absent from the renewable units, contributing nothing",
			slog.String("scenario", scenario),
			slog.Int("generators", len(missing)))
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	fm := &featureMatrix{hours: horizon, cols: cols, data: mat.NewDense(horizon, len(cols), nil)}
	for j, col := range cols {
		for hour, v := range values[col] {
			fm.data.Set(hour-1, j, v)
		}
	}
	return fm, nil
}

// blockVectors flattens the matrix into one vector per periodLength-hour
// block.
func (fm *featureMatrix) blockVectors(periodLength int) [][]float64 {
	n := fm.hours / periodLength
	out := make([][]float64, n)
	for b := 0; b < n; b++ {
		vec := make([]float64, 0, periodLength*len(fm.cols))
		for h := b * periodLength; h < (b+1)*periodLength; h++ {
			vec = append(vec, fm.data.RawRowView(h)...)
		}
		out[b] = vec
	}
	return out
}

// unitWeights caches MaxProd times the capacity weight per generator and
// summed per (bus, technology) for bus-level profile rows.
type unitWeights struct {
	byGenerator map[string]float64
	byBusTec    map[string]float64
}

func vresUnitWeights(cs *casestudy.CaseStudy, scenario string, norm CapacityNormalization) unitWeights {
	w := unitWeights{
		byGenerator: make(map[string]float64),
		byBusTec:    make(map[string]float64),
	}
	for _, u := range cs.VRES.Rows() {
		if u.Scenario != scenario {
			continue
		}
		factor := orZero(u.ExisUnits)
		if norm == NormalizationMaxInvestment {
			factor = math.Max(factor, orZero(u.EnableInvest)*orZero(u.MaxInvest))
		}
		weight := orZero(u.MaxProd) * factor
		w.byGenerator[table.Key(scenario, u.G)] = weight
		w.byBusTec[table.Key(scenario, u.Bus, u.Tec)] += weight
	}
	return w
}

func demandColumn(bus string, opts Options) string {
	if opts.Strategy == StrategyDisaggregated {
		return "demand@" + bus
	}
	return "demand"
}

func techColumn(bus, tec string, opts Options) string {
	name := tec
	if opts.SumProduction {
		name = "production"
	}
	if opts.Strategy == StrategyDisaggregated {
		return name + "@" + bus
	}
	return name
}

// orZero substitutes zero for a missing (NaN) value.
func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
