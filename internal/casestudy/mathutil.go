package casestudy

import "math"

// orDefault substitutes def for a missing (NaN) value.
func orDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

// nanMean averages the non-missing values; all-missing input stays missing.
func nanMean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// nanSum sums the non-missing values; all-missing input sums to zero.
func nanSum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
	}
	return sum
}
