package aggregation

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// clustering is the result of one PAM run: the medoid block of each cluster
// in ascending block order, the cluster assigned to every block, and the
// cluster occupancy counts.
type clustering struct {
	medoids []int
	order   []int
	counts  []int
}

// distanceMatrix computes the pairwise Euclidean distances between block
// vectors.
func distanceMatrix(vectors [][]float64) *mat.SymDense {
	n := len(vectors)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, floats.Distance(vectors[i], vectors[j], 2))
		}
	}
	return d
}

// kMedoids partitions n blocks into k clusters with the PAM build and swap
// phases. Every comparison breaks ties toward the lower block index, so the
// result is deterministic. Cluster ids follow the ascending order of the
// final medoid indices.
func kMedoids(dist *mat.SymDense, n, k int) clustering {
	medoids := buildPhase(dist, n, k)
	swapPhase(dist, n, medoids)
	sort.Ints(medoids)

	order := make([]int, n)
	counts := make([]int, k)
	for b := 0; b < n; b++ {
		best := 0
		for c := 1; c < k; c++ {
			if dist.At(b, medoids[c]) < dist.At(b, medoids[best]) {
				best = c
			}
		}
		order[b] = best
		counts[best]++
	}
	return clustering{medoids: medoids, order: order, counts: counts}
}

// buildPhase seeds the medoid set greedily: the block minimizing total
// distance first, then whichever candidate lowers the assignment cost most.
func buildPhase(dist *mat.SymDense, n, k int) []int {
	first, bestSum := 0, math.Inf(1)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += dist.At(i, j)
		}
		if sum < bestSum {
			first, bestSum = i, sum
		}
	}
	medoids := []int{first}

	nearest := make([]float64, n)
	for j := 0; j < n; j++ {
		nearest[j] = dist.At(j, first)
	}

	for len(medoids) < k {
		bestGain, bestCand := math.Inf(-1), -1
		for c := 0; c < n; c++ {
			if slices.Contains(medoids, c) {
				continue
			}
			gain := 0.0
			for j := 0; j < n; j++ {
				if d := nearest[j] - dist.At(j, c); d > 0 {
					gain += d
				}
			}
			if gain > bestGain {
				bestGain, bestCand = gain, c
			}
		}
		medoids = append(medoids, bestCand)
		for j := 0; j < n; j++ {
			if d := dist.At(j, bestCand); d < nearest[j] {
				nearest[j] = d
			}
		}
	}
	return medoids
}

// swapPhase applies the best strictly-improving medoid/non-medoid swap until
// none remains.
func swapPhase(dist *mat.SymDense, n int, medoids []int) {
	current := totalCost(dist, n, medoids)
	for {
		bestCost, bestM, bestH := current, -1, -1
		for mi, m := range medoids {
			for h := 0; h < n; h++ {
				if slices.Contains(medoids, h) {
					continue
				}
				medoids[mi] = h
				if cost := totalCost(dist, n, medoids); cost < bestCost {
					bestCost, bestM, bestH = cost, mi, h
				}
				medoids[mi] = m
			}
		}
		if bestM < 0 {
			return
		}
		medoids[bestM] = bestH
		current = bestCost
	}
}

func totalCost(dist *mat.SymDense, n int, medoids []int) float64 {
	cost := 0.0
	for j := 0; j < n; j++ {
		nearest := math.Inf(1)
		for _, m := range medoids {
			if d := dist.At(j, m); d < nearest {
				nearest = d
			}
		}
		cost += nearest
	}
	return cost
}
