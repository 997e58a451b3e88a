package boundprune

import "fmt"

// InputRange is the known numeric range of every input feeding a layer,
// typically derived from the previous layer's calibration statistics.
// A single pair is shared across all inputs of the layer.
type InputRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Validate checks that the range is well formed.
func (r InputRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("min %.6g > max %.6g: %w", r.Min, r.Max, ErrInvalidRange)
	}
	return nil
}

// MaxContribution returns the largest value w*x can take for any x inside
// the range. The sign of the weight decides which extreme is worst.
func (r InputRange) MaxContribution(w float64) float64 {
	lo, hi := w*r.Min, w*r.Max
	if lo > hi {
		return lo
	}
	return hi
}

// Widen grows the range symmetrically by the given fraction of its span.
// A zero-span range is widened by the fraction of its magnitude so that
// constant activations still get headroom.
func (r InputRange) Widen(frac float64) InputRange {
	if frac <= 0 {
		return r
	}
	span := r.Max - r.Min
	if span == 0 {
		span = abs(r.Max)
	}
	pad := span * frac
	return InputRange{Min: r.Min - pad, Max: r.Max + pad}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
