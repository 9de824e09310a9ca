package casestudy

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionCircularCounts(t *testing.T) {
	cs := newFixture(t, Options{})

	abs := cs.RPTransitionAbsolute
	require.NotNil(t, abs)
	assert.Equal(t, []string{"rp01", "rp02"}, abs.RPs())

	// Blocks alternate rp01, rp02, rp01, rp02; the circular walk closes the
	// year, so each direction is crossed twice and no period follows itself.
	count, ok := abs.Lookup("rp01", "rp02")
	require.True(t, ok)
	assert.Equal(t, 2.0, count)
	count, _ = abs.Lookup("rp02", "rp01")
	assert.Equal(t, 2.0, count)
	count, _ = abs.Lookup("rp01", "rp01")
	assert.Equal(t, 0.0, count)

	relTo, _ := cs.RPTransitionRelativeTo.Lookup("rp01", "rp02")
	assert.Equal(t, 1.0, relTo, "row-stochastic: all transitions out of rp01 lead to rp02")
	relFrom, _ := cs.RPTransitionRelativeFrom.Lookup("rp01", "rp02")
	assert.Equal(t, 1.0, relFrom, "column-stochastic: all transitions into rp02 come from rp01")
}

func TestTransitionAccumulatesScenarios(t *testing.T) {
	cs := newFixture(t, Options{}, "ScenarioA", "ScenarioB")

	count, ok := cs.RPTransitionAbsolute.Lookup("rp01", "rp02")
	require.True(t, ok)
	assert.Equal(t, 4.0, count, "both scenarios contribute their counts")
}

func TestTransitionEmptyHourIndex(t *testing.T) {
	cs := newFixture(t, Options{})
	require.NoError(t, cs.Hindex.Replace(nil))

	require.NoError(t, cs.RecomputeRPTransitionMatrices(TransitionOptions{}))
	assert.Nil(t, cs.RPTransitionAbsolute)
	assert.Nil(t, cs.RPTransitionRelativeTo)
	assert.Nil(t, cs.RPTransitionRelativeFrom)
}

func TestTransitionLookupUnknownLabel(t *testing.T) {
	cs := newFixture(t, Options{})
	_, ok := cs.RPTransitionAbsolute.Lookup("rp99", "rp01")
	assert.False(t, ok)
	_, ok = cs.RPTransitionAbsolute.Lookup("rp01", "rp99")
	assert.False(t, ok)
}

func TestClipAbsoluteCountKeepsTies(t *testing.T) {
	abs := newTransitionMatrix([]string{"rp01", "rp02", "rp03"})
	abs.data.SetRow(0, []float64{5, 5, 2})
	abs.data.SetRow(1, []float64{1, 6, 3})
	abs.data.SetRow(2, []float64{0, 0, 4})

	require.NoError(t, clipTransitionCounts(abs, TransitionOptions{Method: ClipAbsoluteCount, Value: 1}))

	// Both fives sit at the threshold, so both survive.
	assert.Equal(t, []float64{5, 5, 0}, abs.data.RawRowView(0))
	assert.Equal(t, []float64{0, 6, 0}, abs.data.RawRowView(1))
	assert.Equal(t, []float64{0, 0, 4}, abs.data.RawRowView(2))
}

func TestClipAbsoluteCountAboveDimension(t *testing.T) {
	abs := newTransitionMatrix([]string{"rp01", "rp02"})
	abs.data.SetRow(0, []float64{1, 2})
	abs.data.SetRow(1, []float64{3, 4})

	require.NoError(t, clipTransitionCounts(abs, TransitionOptions{Method: ClipAbsoluteCount, Value: 5}))
	assert.Equal(t, []float64{1, 2}, abs.data.RawRowView(0))
}

func TestClipRelativeToHighest(t *testing.T) {
	abs := newTransitionMatrix([]string{"rp01", "rp02", "rp03"})
	abs.data.SetRow(0, []float64{10, 4, 6})
	abs.data.SetRow(1, []float64{2, 2, 2})
	abs.data.SetRow(2, []float64{0, 1, 9})

	require.NoError(t, clipTransitionCounts(abs, TransitionOptions{Method: ClipRelativeToHighest, Value: 0.5}))

	assert.Equal(t, []float64{10, 0, 6}, abs.data.RawRowView(0))
	assert.Equal(t, []float64{2, 2, 2}, abs.data.RawRowView(1))
	assert.Equal(t, []float64{0, 0, 9}, abs.data.RawRowView(2))
}

func TestClipInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name string
		opts TransitionOptions
	}{
		{"absolute count fractional", TransitionOptions{Method: ClipAbsoluteCount, Value: 1.5}},
		{"absolute count negative", TransitionOptions{Method: ClipAbsoluteCount, Value: -1}},
		{"relative above one", TransitionOptions{Method: ClipRelativeToHighest, Value: 1.5}},
		{"relative negative", TransitionOptions{Method: ClipRelativeToHighest, Value: -0.1}},
		{"unknown method", TransitionOptions{Method: "percentile", Value: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs := newTransitionMatrix([]string{"rp01", "rp02"})
			err := clipTransitionCounts(abs, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidClip)
		})
	}
}

func TestTransitionUnreachablePeriodNaN(t *testing.T) {
	cs := newFixture(t, Options{})

	// Blocks run rp01, rp01, rp02, rp01; clipping each row to its single
	// largest count removes the only transition into rp02.
	slots := []struct{ RP, K string }{
		{"rp01", "k0001"}, {"rp01", "k0002"},
		{"rp01", "k0001"}, {"rp01", "k0002"},
		{"rp02", "k0001"}, {"rp02", "k0002"},
		{"rp01", "k0001"}, {"rp01", "k0002"},
	}
	var rows []HindexRow
	for i, slot := range slots {
		rows = append(rows, HindexRow{
			Scenario: DefaultScenario, P: fmt.Sprintf("h%04d", i+1),
			RP: slot.RP, K: slot.K,
		})
	}
	require.NoError(t, cs.Hindex.Replace(rows))

	require.NoError(t, cs.RecomputeRPTransitionMatrices(TransitionOptions{Method: ClipAbsoluteCount, Value: 1}))

	from, _ := cs.RPTransitionRelativeFrom.Lookup("rp01", "rp02")
	assert.True(t, math.IsNaN(from), "no transitions into rp02 survive the clip")
	from, _ = cs.RPTransitionRelativeFrom.Lookup("rp02", "rp02")
	assert.True(t, math.IsNaN(from))
	from, _ = cs.RPTransitionRelativeFrom.Lookup("rp01", "rp01")
	assert.InDelta(t, 2.0/3.0, from, 1e-12)

	to, _ := cs.RPTransitionRelativeTo.Lookup("rp02", "rp01")
	assert.Equal(t, 1.0, to, "rows with surviving transitions stay stochastic")
}

func TestTransitionMatrixClone(t *testing.T) {
	cs := newFixture(t, Options{})
	clone := cs.RPTransitionAbsolute.Clone()
	clone.Dense().Set(0, 1, 77)

	orig, _ := cs.RPTransitionAbsolute.Lookup("rp01", "rp02")
	assert.Equal(t, 2.0, orig)

	var nilMatrix *TransitionMatrix
	assert.Nil(t, nilMatrix.Clone())
}
