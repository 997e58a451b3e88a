package boundprune

import (
	"fmt"
	"math"
)

// Calibrator accumulates per-layer activation statistics over calibration
// batches and turns them into the input ranges the enforcer consumes.
// Layer l's input range is the observed range of layer l-1's activations.
type Calibrator struct {
	mins     []float64
	maxs     []float64
	observed int
	Margin   float64 // relative widening applied to each derived range
}

// NewCalibrator returns a calibrator for a network with numLayers layers.
func NewCalibrator(numLayers int, margin float64) *Calibrator {
	c := &Calibrator{
		mins:   make([]float64, numLayers),
		maxs:   make([]float64, numLayers),
		Margin: margin,
	}
	for l := range c.mins {
		c.mins[l] = math.Inf(1)
		c.maxs[l] = math.Inf(-1)
	}
	return c
}

// Observe records the activations currently held in the network, usually
// right after a Forward pass over one calibration sample.
func (c *Calibrator) Observe(n *Network) error {
	if len(n.Layers) != len(c.mins) {
		return fmt.Errorf("network has %d layers, calibrator built for %d: %w",
			len(n.Layers), len(c.mins), ErrShapeMismatch)
	}
	for l, layer := range n.Layers {
		for _, nr := range layer.Neurons {
			if nr.Value < c.mins[l] {
				c.mins[l] = nr.Value
			}
			if nr.Value > c.maxs[l] {
				c.maxs[l] = nr.Value
			}
		}
	}
	c.observed++
	return nil
}

// Observed returns how many samples have been folded in so far.
func (c *Calibrator) Observed() int { return c.observed }

// Ranges derives one InputRange per layer from the collected statistics,
// widened by the configured margin. Every observed activation is covered
// by the returned range of its layer.
func (c *Calibrator) Ranges() ([]InputRange, error) {
	if c.observed == 0 {
		return nil, fmt.Errorf("no samples observed: %w", ErrInvalidRange)
	}
	out := make([]InputRange, len(c.mins))
	for l := range c.mins {
		out[l] = InputRange{Min: c.mins[l], Max: c.maxs[l]}.Widen(c.Margin)
	}
	return out, nil
}

// RangeFromSamples computes the range of a raw sample set, for layers fed
// directly by input data rather than by a previous layer.
func RangeFromSamples(samples [][]float64) (InputRange, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		for _, v := range s {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if lo > hi {
		return InputRange{}, fmt.Errorf("empty sample set: %w", ErrInvalidRange)
	}
	return InputRange{Min: lo, Max: hi}, nil
}
