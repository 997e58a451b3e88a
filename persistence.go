package boundprune

import (
	"encoding/json"
	"fmt"
	"os"
)

// Serialisable shadow shapes. The on-disk format is a compact mirror of
// the runtime structs: weights and masks per neuron, plus the calibration
// ranges and bound configuration needed to re-check a loaded model.

type sNeuron struct {
	Bias float64   `json:"b"`
	Act  string    `json:"a"`
	W    []float64 `json:"w,omitempty"`
	M    []bool    `json:"m,omitempty"`
}

type sLayer struct {
	Size    int       `json:"size"`
	Neurons []sNeuron `json:"n"`
}

type sNet struct {
	Layers    []sLayer     `json:"layers"`
	Ranges    []InputRange `json:"ranges,omitempty"`
	BoundBits int          `json:"bound_bits,omitempty"`
	Frozen    bool         `json:"frozen,omitempty"`
}

// Snapshot couples a network with the calibration ranges and bound it was
// checked against, so a saved model can be re-verified without retraining.
type Snapshot struct {
	Network   *Network
	Ranges    []InputRange
	BoundBits int
}

// toS flattens a runtime network into raw data ready for JSON.
func (s *Snapshot) toS() sNet {
	out := sNet{
		Layers:    make([]sLayer, len(s.Network.Layers)),
		Ranges:    s.Ranges,
		BoundBits: s.BoundBits,
		Frozen:    s.Network.Frozen,
	}
	for li, layer := range s.Network.Layers {
		sl := sLayer{Size: layer.Size, Neurons: make([]sNeuron, layer.Size)}
		for j, nr := range layer.Neurons {
			sl.Neurons[j] = sNeuron{Bias: nr.Bias, Act: nr.Activation, W: nr.Weights, M: nr.Mask}
		}
		out.Layers[li] = sl
	}
	return out
}

// fromS rebuilds the snapshot from the flattened form.
func (s *Snapshot) fromS(raw sNet) error {
	n := &Network{
		Layers:      make([]Layer, len(raw.Layers)),
		InputLayer:  0,
		OutputLayer: len(raw.Layers) - 1,
		Frozen:      raw.Frozen,
	}
	id := 0
	for li, sl := range raw.Layers {
		if sl.Size == 0 || len(sl.Neurons) != sl.Size {
			return fmt.Errorf("layer %d: size %d with %d neurons", li, sl.Size, len(sl.Neurons))
		}
		layer := Layer{Size: sl.Size, Neurons: make([]*Neuron, sl.Size)}
		for j, sn := range sl.Neurons {
			if len(sn.W) != len(sn.M) {
				return fmt.Errorf("layer %d neuron %d: %d weights vs %d mask entries: %w",
					li, j, len(sn.W), len(sn.M), ErrShapeMismatch)
			}
			layer.Neurons[j] = &Neuron{
				ID:         id,
				Bias:       sn.Bias,
				Activation: sn.Act,
				Weights:    sn.W,
				Mask:       sn.M,
			}
			id++
		}
		n.Layers[li] = layer
	}
	if raw.Ranges != nil && len(raw.Ranges) != len(raw.Layers) {
		return fmt.Errorf("%d ranges for %d layers: %w", len(raw.Ranges), len(raw.Layers), ErrShapeMismatch)
	}
	s.Network = n
	s.Ranges = raw.Ranges
	s.BoundBits = raw.BoundBits
	return nil
}

// SaveJSON writes the full topology, weights, masks and calibration data.
func (s *Snapshot) SaveJSON(path string) error {
	b, err := json.MarshalIndent(s.toS(), "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// LoadJSON restores a snapshot that was saved with SaveJSON.
func LoadJSON(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw sNet
	if err = json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	s := &Snapshot{}
	if err = s.fromS(raw); err != nil {
		return nil, err
	}
	return s, nil
}

// MarshalJSONModel returns the snapshot as a JSON byte slice in the same
// loss-less format SaveJSON uses (handy for in-memory cloning).
func (s *Snapshot) MarshalJSONModel() ([]byte, error) {
	return json.Marshal(s.toS())
}

// UnmarshalJSONModel overwrites *s with data produced by MarshalJSONModel.
func (s *Snapshot) UnmarshalJSONModel(b []byte) error {
	var raw sNet
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	return s.fromS(raw)
}
