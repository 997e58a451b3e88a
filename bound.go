package boundprune

import (
	"fmt"
	"math"
)

// maxBoundBits keeps 2^bits - 1 exactly representable in a float64 sum.
const maxBoundBits = 52

// CheckResult is the outcome of a worst-case accumulator check for one
// weight vector. VMax is the largest pre-activation value any input inside
// the range can produce over the active positions; Limit is 2^bits - 1.
type CheckResult struct {
	Satisfied bool
	VMax      float64
	Limit     float64
}

func (r CheckResult) String() string {
	if r.Satisfied {
		return fmt.Sprintf("satisfied (vmax %.4f <= limit %.0f)", r.VMax, r.Limit)
	}
	return fmt.Sprintf("violated (vmax %.4f > limit %.0f)", r.VMax, r.Limit)
}

// PruneStatus reports how a pruning pass ended.
type PruneStatus int

const (
	// PruneSatisfied means the bound was met without dropping below the
	// active-count floor.
	PruneSatisfied PruneStatus = iota
	// PruneInsufficient means the floor was reached while the bound was
	// still violated. Not an error: the caller decides whether to widen
	// the bound, lower the floor, or abort the run.
	PruneInsufficient
)

func (s PruneStatus) String() string {
	switch s {
	case PruneSatisfied:
		return "satisfied"
	case PruneInsufficient:
		return "insufficient_pruning"
	default:
		return fmt.Sprintf("prune_status(%d)", int(s))
	}
}

// AccumulatorLimit returns the inclusive upper limit 2^bits - 1 that an
// accumulator of the given bit width can represent.
func AccumulatorLimit(bits int) (float64, error) {
	if bits < 1 || bits > maxBoundBits {
		return 0, fmt.Errorf("bound bits %d outside [1, %d]: %w", bits, maxBoundBits, ErrInvalidBound)
	}
	return float64(uint64(1)<<uint(bits) - 1), nil
}

// worstCaseSum computes the worst-case accumulator over active positions.
// Each input varies independently inside the range, so the worst case is
// reached at the per-weight extreme picked by the weight's sign.
func worstCaseSum(weights []float64, mask Mask, rng InputRange) float64 {
	sum := 0.0
	for i, w := range weights {
		if mask[i] {
			sum += rng.MaxContribution(w)
		}
	}
	return sum
}

// CheckVector verifies that the worst-case accumulator of a single weight
// vector stays within bounds. Pure: neither the weights nor the mask are
// touched.
func CheckVector(weights []float64, mask Mask, rng InputRange, boundBits int) (CheckResult, error) {
	if len(weights) != len(mask) {
		return CheckResult{}, fmt.Errorf("weights len %d vs mask len %d: %w", len(weights), len(mask), ErrShapeMismatch)
	}
	if err := rng.Validate(); err != nil {
		return CheckResult{}, err
	}
	limit, err := AccumulatorLimit(boundBits)
	if err != nil {
		return CheckResult{}, err
	}
	vmax := worstCaseSum(weights, mask, rng)
	return CheckResult{Satisfied: vmax <= limit, VMax: vmax, Limit: limit}, nil
}

// PruneToSatisfy masks off weights, smallest magnitude first, until the
// worst-case accumulator fits the bound or the active count would drop
// below targetActive. Ties on magnitude break toward the lowest index, so
// the selection is a strict total order and the whole operation is
// deterministic: identical inputs always produce the identical mask.
//
// The input mask is not modified; the returned mask's active set is always
// a subset of the input's.
func PruneToSatisfy(weights []float64, mask Mask, rng InputRange, boundBits, targetActive int) (Mask, PruneStatus, error) {
	if len(weights) != len(mask) {
		return nil, 0, fmt.Errorf("weights len %d vs mask len %d: %w", len(weights), len(mask), ErrShapeMismatch)
	}
	if err := rng.Validate(); err != nil {
		return nil, 0, err
	}
	limit, err := AccumulatorLimit(boundBits)
	if err != nil {
		return nil, 0, err
	}
	if targetActive < 1 || targetActive > len(weights) {
		return nil, 0, fmt.Errorf("target %d outside [1, %d]: %w", targetActive, len(weights), ErrInvalidTarget)
	}

	out := mask.Clone()
	active := out.ActiveCount()
	vmax := worstCaseSum(weights, out, rng)

	for vmax > limit {
		if active <= targetActive {
			return out, PruneInsufficient, nil
		}
		victim := -1
		best := math.Inf(1)
		for i, w := range weights {
			if !out[i] {
				continue
			}
			if m := math.Abs(w); m < best {
				best = m
				victim = i
			}
		}
		if victim < 0 {
			return out, PruneInsufficient, nil
		}
		out[victim] = false
		active--
		vmax = worstCaseSum(weights, out, rng)
	}
	return out, PruneSatisfied, nil
}
