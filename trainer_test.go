package boundprune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainEnforcesBound(t *testing.T) {
	n := NewNetwork([]int{4, 1}, []string{"linear", "linear"})
	copy(n.Layers[1].Neurons[0].Weights, []float64{50, -40, 30, 2})
	n.Layers[1].Neurons[0].Bias = 0

	// zero learning rate keeps the weights pinned so the enforcement
	// outcome is exact
	tr := NewTrainer(n, TrainConfig{
		Epochs:          2,
		LearningRate:    0,
		BoundBits:       7,
		ActiveFloorFrac: 0.25,
	}, nil)

	inputs := [][]float64{{0, 0, 0, 0}, {2, 2, 2, 2}}
	targets := [][]float64{{0}, {1}}

	rep, err := tr.Train(inputs, targets)
	require.NoError(t, err)
	assert.True(t, rep.Satisfied)
	assert.False(t, rep.Insufficient)
	assert.Equal(t, Mask{true, true, false, false}, n.Layers[1].Neurons[0].Mask)
	assert.Equal(t, 0.0, n.Layers[1].Neurons[0].Weights[3])
}

func TestTrainMasksOnlyShrink(t *testing.T) {
	n := NewNetwork([]int{4, 2}, []string{"linear", "relu"})
	cfg := TrainConfig{Epochs: 2, LearningRate: 0.01, BoundBits: 5, ActiveFloorFrac: 0.25}
	tr := NewTrainer(n, cfg, nil)

	inputs := [][]float64{{0, 1, 0.5, 2}, {2, 0, 1, 1}, {1, 1, 1, 1}}
	targets := [][]float64{{0, 1}, {1, 0}, {1, 1}}

	_, err := tr.Train(inputs, targets)
	require.NoError(t, err)

	before := make([]Mask, 0)
	for _, nr := range n.Layers[1].Neurons {
		before = append(before, nr.Mask.Clone())
	}

	_, err = tr.Train(inputs, targets)
	require.NoError(t, err)
	for j, nr := range n.Layers[1].Neurons {
		assert.True(t, nr.Mask.SubsetOf(before[j]),
			"neuron %d mask must never revive a pruned weight", j)
	}
}

func TestTrainReportsInsufficientAtFloor(t *testing.T) {
	n := NewNetwork([]int{2, 1}, []string{"linear", "linear"})
	copy(n.Layers[1].Neurons[0].Weights, []float64{100, 90})

	tr := NewTrainer(n, TrainConfig{
		Epochs:          1,
		LearningRate:    0,
		BoundBits:       6,
		ActiveFloorFrac: 1.0, // nothing may be pruned
		AbortOnFloor:    true,
	}, nil)

	rep, err := tr.Train([][]float64{{0, 0}, {1, 1}}, [][]float64{{0}, {1}})
	require.NoError(t, err)
	assert.True(t, rep.Insufficient)
	assert.Equal(t, 2, n.Layers[1].Neurons[0].ActiveCount())
}

func TestTrainInputValidation(t *testing.T) {
	n := twoByOne(1, 1, 0)
	tr := NewTrainer(n, TrainConfig{Epochs: 1, BoundBits: 7, ActiveFloorFrac: 0.5}, nil)

	_, err := tr.Train([][]float64{{1, 1}}, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = tr.Train(nil, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	n.Freeze()
	_, err = tr.Train([][]float64{{1, 1}}, [][]float64{{1}})
	assert.ErrorIs(t, err, ErrMaskFrozen)
}
