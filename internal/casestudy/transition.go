package casestudy

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"legoio/internal/table"
)

// ClipMethod selects how absolute transition counts are sparsified before
// normalization.
type ClipMethod string

const (
	// ClipNone keeps every transition.
	ClipNone ClipMethod = "none"
	// ClipAbsoluteCount keeps the N largest transitions per row; ties at
	// the threshold are all kept.
	ClipAbsoluteCount ClipMethod = "absolute_count"
	// ClipRelativeToHighest keeps transitions within a fraction of the row
	// maximum.
	ClipRelativeToHighest ClipMethod = "relative_to_highest"
)

// ErrInvalidClip marks an unknown clip method or an out-of-range clip value.
var ErrInvalidClip = errors.New("invalid clip configuration")

// TransitionOptions configures the sparsification of the transition
// matrices. The zero value keeps every transition.
type TransitionOptions struct {
	Method ClipMethod
	Value  float64
}

// TransitionMatrix is a square matrix over the sorted representative-period
// labels of the hour index.
type TransitionMatrix struct {
	rps   []string
	index map[string]int
	data  *mat.Dense
}

func newTransitionMatrix(rps []string) *TransitionMatrix {
	m := &TransitionMatrix{
		rps:   append([]string(nil), rps...),
		index: make(map[string]int, len(rps)),
		data:  mat.NewDense(len(rps), len(rps), nil),
	}
	for i, rp := range m.rps {
		m.index[rp] = i
	}
	return m
}

// RPs returns the row/column labels in sorted order.
func (t *TransitionMatrix) RPs() []string { return t.rps }

// Len returns the matrix dimension.
func (t *TransitionMatrix) Len() int { return len(t.rps) }

// At returns the entry at row i, column j.
func (t *TransitionMatrix) At(i, j int) float64 { return t.data.At(i, j) }

// Lookup returns the entry for the labeled transition from -> to.
func (t *TransitionMatrix) Lookup(from, to string) (float64, bool) {
	i, ok := t.index[from]
	if !ok {
		return 0, false
	}
	j, ok := t.index[to]
	if !ok {
		return 0, false
	}
	return t.data.At(i, j), true
}

// Dense returns the underlying matrix.
func (t *TransitionMatrix) Dense() *mat.Dense { return t.data }

// Clone returns a deep copy; nil clones to nil.
func (t *TransitionMatrix) Clone() *TransitionMatrix {
	if t == nil {
		return nil
	}
	c := newTransitionMatrix(t.rps)
	c.data.Copy(t.data)
	return c
}

// RecomputeRPTransitionMatrices derives the absolute, row-stochastic and
// column-stochastic transition matrices from the hour index. The per-hour rp
// sequence of each scenario is reduced to one entry per period block (stride
// = number of distinct timesteps) and walked circularly, so the transition
// into the first block comes from the last. Counts from all scenarios
// accumulate into one matrix over the union label set.
func (cs *CaseStudy) RecomputeRPTransitionMatrices(opts TransitionOptions) error {
	rows := cs.Hindex.Rows()
	if len(rows) == 0 {
		cs.RPTransitionAbsolute = nil
		cs.RPTransitionRelativeTo = nil
		cs.RPTransitionRelativeFrom = nil
		return nil
	}

	rps := table.Distinct(rows, func(r HindexRow) string { return r.RP })
	stride := len(table.Distinct(rows, func(r HindexRow) string { return r.K }))

	abs := newTransitionMatrix(rps)
	scenarios, groups := table.GroupBy(rows, func(r HindexRow) string { return r.Scenario })
	for _, sc := range scenarios {
		seq := append([]HindexRow(nil), groups[sc]...)
		sort.Slice(seq, func(i, j int) bool { return seq[i].P < seq[j].P })

		var blocks []string
		for i := 0; i < len(seq); i += stride {
			blocks = append(blocks, seq[i].RP)
		}
		prev := blocks[len(blocks)-1]
		for _, rp := range blocks {
			i, j := abs.index[prev], abs.index[rp]
			abs.data.Set(i, j, abs.data.At(i, j)+1)
			prev = rp
		}
	}

	if err := clipTransitionCounts(abs, opts); err != nil {
		return err
	}

	relTo := newTransitionMatrix(rps)
	relFrom := newTransitionMatrix(rps)
	n := len(rps)
	for i := 0; i < n; i++ {
		rowSum := floats.Sum(abs.data.RawRowView(i))
		for j := 0; j < n; j++ {
			relTo.data.Set(i, j, abs.data.At(i, j)/rowSum)
		}
	}
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		mat.Col(col, j, abs.data)
		colSum := floats.Sum(col)
		for i := 0; i < n; i++ {
			relFrom.data.Set(i, j, abs.data.At(i, j)/colSum)
		}
	}

	cs.RPTransitionAbsolute = abs
	cs.RPTransitionRelativeTo = relTo
	cs.RPTransitionRelativeFrom = relFrom
	return nil
}

// clipTransitionCounts sparsifies the absolute counts in place.
func clipTransitionCounts(abs *TransitionMatrix, opts TransitionOptions) error {
	n := abs.Len()
	switch opts.Method {
	case "", ClipNone:
		return nil

	case ClipAbsoluteCount:
		if opts.Value < 0 || opts.Value != math.Trunc(opts.Value) {
			return fmt.Errorf("clip_value %v must be a non-negative integer for %s: %w",
				opts.Value, ClipAbsoluteCount, ErrInvalidClip)
		}
		keep := int(opts.Value)
		if keep >= n {
			return nil
		}
		for i := 0; i < n; i++ {
			row := abs.data.RawRowView(i)
			sorted := append([]float64(nil), row...)
			sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
			threshold := math.Inf(1)
			if keep > 0 {
				threshold = sorted[keep-1]
			}
			kept := 0
			for j, v := range row {
				if v < threshold {
					abs.data.Set(i, j, 0)
				} else if v > 0 {
					kept++
				}
			}
			if kept > keep {
				slog.Warn("transition clip threshold tie, keeping extra transitions",
					slog.String("rp", abs.rps[i]),
					slog.Int("requested", keep),
					slog.Int("kept", kept))
			}
		}
		return nil

	case ClipRelativeToHighest:
		if opts.Value < 0 || opts.Value > 1 {
			return fmt.Errorf("clip_value %v must lie in [0, 1] for %s: %w",
				opts.Value, ClipRelativeToHighest, ErrInvalidClip)
		}
		for i := 0; i < n; i++ {
			row := abs.data.RawRowView(i)
			threshold := opts.Value * floats.Max(row)
			for j, v := range row {
				if v < threshold {
					abs.data.Set(i, j, 0)
				}
			}
		}
		return nil

	default:
		return fmt.Errorf("clip_method %q: %w", opts.Method, ErrInvalidClip)
	}
}
