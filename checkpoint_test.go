package boundprune

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskCheckpointRoundTrip(t *testing.T) {
	n := violatingNet()
	n.Layers[1].Neurons[0].Mask[2] = false
	n.ApplyMasks()

	path := filepath.Join(t.TempDir(), "masks.json")
	require.NoError(t, n.SaveMasks(path))

	fresh := violatingNet()
	require.NoError(t, fresh.LoadMasks(path))
	assert.Equal(t, Mask{true, true, false, true}, fresh.Layers[1].Neurons[0].Mask)
	assert.Equal(t, 0.0, fresh.Layers[1].Neurons[0].Weights[2])
}

func TestSetMasksNeverRevives(t *testing.T) {
	n := violatingNet()
	saved := n.GetMasks() // all active

	// prune something after the checkpoint was taken
	n.Layers[1].Neurons[0].Mask[1] = false

	require.NoError(t, n.SetMasks(saved))
	assert.False(t, n.Layers[1].Neurons[0].Mask[1],
		"restoring an older checkpoint must not revive pruned weights")
}

func TestSetMasksShapeChecks(t *testing.T) {
	n := violatingNet()

	err := n.SetMasks([][]Mask{})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	bad := n.GetMasks()
	bad[0][0] = NewMask(3)
	err = n.SetMasks(bad)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// no partial mutation on failure
	assert.Equal(t, 4, n.Layers[1].Neurons[0].ActiveCount())
}

func TestGetMasksReturnsCopies(t *testing.T) {
	n := violatingNet()
	masks := n.GetMasks()
	masks[0][0][0] = false
	assert.True(t, n.Layers[1].Neurons[0].Mask[0])
}
