package boundprune

import (
	"fmt"
	"math"
)

// QuantParams maps a real-valued accumulator budget onto the integer range
// an encrypted table lookup can address.
type QuantParams struct {
	Bits  int     `json:"bits"`
	Scale float64 `json:"scale"` // multiply a real value by Scale to land on the integer grid
}

// QuantizeForBound picks the largest scale that keeps the given worst-case
// accumulator value inside 2^bits - 1 after scaling. A non-positive vmax
// yields the identity scale, since any input already fits.
func QuantizeForBound(vmax float64, bits int) (QuantParams, error) {
	limit, err := AccumulatorLimit(bits)
	if err != nil {
		return QuantParams{}, err
	}
	if vmax <= 0 {
		return QuantParams{Bits: bits, Scale: 1}, nil
	}
	return QuantParams{Bits: bits, Scale: limit / vmax}, nil
}

// Accumulate computes the integer accumulator a masked weight vector
// produces for a concrete input, on the grid defined by the params. Used
// to confirm that no realized input exceeds the worst-case bound.
func (q QuantParams) Accumulate(weights []float64, mask Mask, inputs []float64) (int64, error) {
	if len(weights) != len(mask) || len(weights) != len(inputs) {
		return 0, fmt.Errorf("weights %d, mask %d, inputs %d: %w",
			len(weights), len(mask), len(inputs), ErrShapeMismatch)
	}
	sum := 0.0
	for i, w := range weights {
		if mask[i] {
			sum += w * inputs[i]
		}
	}
	return int64(math.Round(sum * q.Scale)), nil
}

// Limit returns the inclusive integer ceiling of the params' bit width.
func (q QuantParams) Limit() int64 {
	return int64(uint64(1)<<uint(q.Bits) - 1)
}
