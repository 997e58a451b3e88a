package boundprune

import (
	"encoding/json"
	"fmt"
	"os"
)

// Mask checkpoints let a run persist just the pruning state between
// training phases, without dragging the full weight snapshot along.

// GetMasks returns a copy of every mask in the network, indexed
// [layer-1][neuron] (the input layer has no weights).
func (n *Network) GetMasks() [][]Mask {
	out := make([][]Mask, len(n.Layers)-1)
	for l := 1; l < len(n.Layers); l++ {
		row := make([]Mask, n.Layers[l].Size)
		for j, nr := range n.Layers[l].Neurons {
			row[j] = nr.Mask.Clone()
		}
		out[l-1] = row
	}
	return out
}

// SetMasks folds a saved mask state into the network. Folding, not
// replacing: each stored mask is intersected with the live one so a
// checkpoint can never revive a weight pruned since it was taken.
func (n *Network) SetMasks(masks [][]Mask) error {
	if len(masks) != len(n.Layers)-1 {
		return fmt.Errorf("mask state has %d layers, network %d: %w",
			len(masks), len(n.Layers)-1, ErrShapeMismatch)
	}
	for l := 1; l < len(n.Layers); l++ {
		layer := n.Layers[l]
		if len(masks[l-1]) != layer.Size {
			return fmt.Errorf("layer %d: %d masks for %d neurons: %w",
				l, len(masks[l-1]), layer.Size, ErrShapeMismatch)
		}
		for j, nr := range layer.Neurons {
			if len(masks[l-1][j]) != len(nr.Mask) {
				return fmt.Errorf("layer %d neuron %d: mask len %d, want %d: %w",
					l, j, len(masks[l-1][j]), len(nr.Mask), ErrShapeMismatch)
			}
		}
	}
	for l := 1; l < len(n.Layers); l++ {
		for j, nr := range n.Layers[l].Neurons {
			nr.Mask.Intersect(masks[l-1][j])
			nr.applyMask()
		}
	}
	return nil
}

// SaveMasks writes the network's mask state to a JSON file.
func (n *Network) SaveMasks(filename string) error {
	data, err := json.Marshal(n.GetMasks())
	if err != nil {
		return fmt.Errorf("failed to marshal mask state: %v", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mask state to file: %v", err)
	}
	return nil
}

// LoadMasks reads a mask state saved with SaveMasks and folds it into the
// network.
func (n *Network) LoadMasks(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read mask state from file: %v", err)
	}
	var masks [][]Mask
	if err := json.Unmarshal(data, &masks); err != nil {
		return fmt.Errorf("failed to unmarshal mask state: %v", err)
	}
	return n.SetMasks(masks)
}
