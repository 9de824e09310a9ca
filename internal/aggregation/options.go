package aggregation

import "github.com/go-playground/validator/v10"

// Strategy selects how bus columns enter the clustering features.
type Strategy string

const (
	// StrategyAggregated sums features across buses, one column per feature.
	StrategyAggregated Strategy = "aggregated"
	// StrategyDisaggregated keeps one column per bus and feature pair.
	StrategyDisaggregated Strategy = "disaggregated"
)

// CapacityNormalization selects the capacity weighting applied to renewable
// profile features.
type CapacityNormalization string

const (
	// NormalizationInstalled weights by existing units only.
	NormalizationInstalled CapacityNormalization = "installed"
	// NormalizationMaxInvestment weights by the larger of the existing units
	// and the investable unit budget.
	NormalizationMaxInvestment CapacityNormalization = "maxInvestment"
)

// DefaultPeriodLength is the block length used when none is given.
const DefaultPeriodLength = 24

// Options configures one aggregation run. Zero values for PeriodLength,
// Strategy and Normalization fall back to the defaults.
type Options struct {
	// Clusters is the number of representative periods to keep.
	Clusters int `validate:"gt=0"`
	// PeriodLength is the number of consecutive hours per block.
	PeriodLength int `validate:"gt=0"`

	Strategy      Strategy              `validate:"oneof=aggregated disaggregated"`
	Normalization CapacityNormalization `validate:"oneof=installed maxInvestment"`

	// SumProduction collapses all technology columns into one production
	// column.
	SumProduction bool
}

// DefaultOptions returns the standard configuration for the given cluster
// count: daily blocks, bus-aggregated features weighted by investable
// capacity.
func DefaultOptions(clusters int) Options {
	return Options{
		Clusters:      clusters,
		PeriodLength:  DefaultPeriodLength,
		Strategy:      StrategyAggregated,
		Normalization: NormalizationMaxInvestment,
	}
}

func (o Options) withDefaults() Options {
	if o.PeriodLength == 0 {
		o.PeriodLength = DefaultPeriodLength
	}
	if o.Strategy == "" {
		o.Strategy = StrategyAggregated
	}
	if o.Normalization == "" {
		o.Normalization = NormalizationMaxInvestment
	}
	return o
}

var validate = validator.New()
