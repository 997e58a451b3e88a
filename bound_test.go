package boundprune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorLimit(t *testing.T) {
	limit, err := AccumulatorLimit(7)
	require.NoError(t, err)
	assert.Equal(t, 127.0, limit)

	limit, err = AccumulatorLimit(6)
	require.NoError(t, err)
	assert.Equal(t, 63.0, limit)

	_, err = AccumulatorLimit(0)
	assert.ErrorIs(t, err, ErrInvalidBound)

	_, err = AccumulatorLimit(-3)
	assert.ErrorIs(t, err, ErrInvalidBound)

	_, err = AccumulatorLimit(maxBoundBits + 1)
	assert.ErrorIs(t, err, ErrInvalidBound)
}

func TestCheckVectorWorstCase(t *testing.T) {
	weights := []float64{50, -40, 30, 2}
	mask := NewMask(4)
	rng := InputRange{Min: 0, Max: 2}

	res, err := CheckVector(weights, mask, rng, 7)
	require.NoError(t, err)

	// contributions: 100, 0 (negative weight at x=0), 60, 4
	assert.Equal(t, 164.0, res.VMax)
	assert.Equal(t, 127.0, res.Limit)
	assert.False(t, res.Satisfied)
}

func TestCheckVectorNegativeRange(t *testing.T) {
	// for a range crossing zero, a negative weight is worst at the minimum
	res, err := CheckVector([]float64{-3}, NewMask(1), InputRange{Min: -1, Max: 2}, 7)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.VMax)
	assert.True(t, res.Satisfied)
}

func TestCheckVectorSatisfied(t *testing.T) {
	res, err := CheckVector([]float64{10, 20}, NewMask(2), InputRange{Min: 0, Max: 2}, 7)
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.VMax)
	assert.True(t, res.Satisfied)
}

func TestCheckVectorShapeMismatch(t *testing.T) {
	_, err := CheckVector(make([]float64, 5), NewMask(4), InputRange{Min: 0, Max: 1}, 7)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCheckVectorInvalidRange(t *testing.T) {
	_, err := CheckVector([]float64{1}, NewMask(1), InputRange{Min: 5, Max: 2}, 7)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCheckVectorMaskingNeverIncreasesVMax(t *testing.T) {
	weights := []float64{50, -40, 30, 2}
	rng := InputRange{Min: 0, Max: 2}
	mask := NewMask(4)

	prev, err := CheckVector(weights, mask, rng, 7)
	require.NoError(t, err)
	for i := range mask {
		mask[i] = false
		res, err := CheckVector(weights, mask, rng, 7)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.VMax, prev.VMax)
		prev = res
	}
}

func TestPruneToSatisfyGreedyOrder(t *testing.T) {
	// Smallest magnitude goes first: 2 (sum 164 -> 160), then 30
	// (160 -> 100 <= 127). The 50 and -40 weights stay active.
	weights := []float64{50, -40, 30, 2}
	mask, status, err := PruneToSatisfy(weights, NewMask(4), InputRange{Min: 0, Max: 2}, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, PruneSatisfied, status)
	assert.Equal(t, Mask{true, true, false, false}, mask)

	res, err := CheckVector(weights, mask, InputRange{Min: 0, Max: 2}, 7)
	require.NoError(t, err)
	assert.True(t, res.Satisfied)
	assert.Equal(t, 100.0, res.VMax)
}

func TestPruneToSatisfyAlreadySatisfied(t *testing.T) {
	weights := []float64{1, 2, 3}
	in := NewMask(3)
	mask, status, err := PruneToSatisfy(weights, in, InputRange{Min: 0, Max: 1}, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, PruneSatisfied, status)
	assert.Equal(t, in, mask)
	assert.Equal(t, 3, mask.ActiveCount())
}

func TestPruneToSatisfyFloor(t *testing.T) {
	weights := []float64{100, 90}
	mask, status, err := PruneToSatisfy(weights, NewMask(2), InputRange{Min: 0, Max: 1}, 6, 2)
	require.NoError(t, err)
	assert.Equal(t, PruneInsufficient, status)
	// nothing may be pruned at the floor
	assert.Equal(t, 2, mask.ActiveCount())
}

func TestPruneToSatisfyInvalidTarget(t *testing.T) {
	weights := []float64{1, 2}
	for _, target := range []int{0, -1, 3} {
		_, _, err := PruneToSatisfy(weights, NewMask(2), InputRange{Min: 0, Max: 1}, 7, target)
		assert.ErrorIs(t, err, ErrInvalidTarget, "target %d", target)
	}
}

func TestPruneToSatisfyErrorLeavesMaskUntouched(t *testing.T) {
	in := NewMask(2)
	_, _, err := PruneToSatisfy([]float64{1, 2}, in, InputRange{Min: 3, Max: 1}, 7, 1)
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, Mask{true, true}, in)
}

func TestPruneToSatisfyIdempotent(t *testing.T) {
	weights := []float64{7, -7, 7, 100, 3, 90}
	rng := InputRange{Min: 0, Max: 1.5}

	first, st1, err := PruneToSatisfy(weights, NewMask(6), rng, 7, 2)
	require.NoError(t, err)
	second, st2, err := PruneToSatisfy(weights, NewMask(6), rng, 7, 2)
	require.NoError(t, err)

	assert.Equal(t, st1, st2)
	assert.Equal(t, first, second)

	// re-running from the pruned state changes nothing further
	third, _, err := PruneToSatisfy(weights, first, rng, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestPruneToSatisfyTieBreaksOnLowestIndex(t *testing.T) {
	// equal magnitudes: index 0 must go first
	weights := []float64{5, -5, 5}
	mask, status, err := PruneToSatisfy(weights, NewMask(3), InputRange{Min: 0, Max: 1}, 3, 1)
	require.NoError(t, err)
	// limit 7: contributions 5, 0, 5 -> sum 10; prune idx 0 -> 5 <= 7
	assert.Equal(t, PruneSatisfied, status)
	assert.Equal(t, Mask{false, true, true}, mask)
}

func TestPruneToSatisfySubsetOfInput(t *testing.T) {
	weights := []float64{40, 35, 20, 10, 5}
	in := NewMask(5)
	in[1] = false // already pruned earlier in the run

	out, _, err := PruneToSatisfy(weights, in, InputRange{Min: 0, Max: 2}, 6, 1)
	require.NoError(t, err)
	assert.True(t, out.SubsetOf(in))
	assert.False(t, out[1], "pruned positions must never be revived")
	// input mask is never mutated
	assert.Equal(t, Mask{true, false, true, true, true}, in)
}

func TestPruneStatusString(t *testing.T) {
	assert.Equal(t, "satisfied", PruneSatisfied.String())
	assert.Equal(t, "insufficient_pruning", PruneInsufficient.String())
}
