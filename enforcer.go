package boundprune

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Enforcer drives accumulator-bound checking and pruning across a whole
// network. It holds no per-call state; every operation works on the
// weights and masks passed in through the network.
type Enforcer struct {
	BoundBits       int
	ActiveFloorFrac float64 // minimum fraction of fan-in kept per neuron
	Log             *zap.Logger
}

// NewEnforcer returns an enforcer with the given bound and floor fraction.
// A nil logger is replaced by a no-op one.
func NewEnforcer(boundBits int, floorFrac float64, log *zap.Logger) *Enforcer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enforcer{BoundBits: boundBits, ActiveFloorFrac: floorFrac, Log: log}
}

// LayerReport summarizes one layer's bound status.
type LayerReport struct {
	Layer        int     `json:"layer"`
	Limit        float64 `json:"limit"`
	WorstVMax    float64 `json:"worst_vmax"`
	Neurons      int     `json:"neurons"`
	Violations   int     `json:"violations"`
	Pruned       int     `json:"pruned"`       // weights newly masked this pass
	Insufficient int     `json:"insufficient"` // neurons still violated at their floor
}

// Report aggregates the per-layer results of one check or enforcement pass.
type Report struct {
	RunID        string        `json:"run_id"`
	Layers       []LayerReport `json:"layers"`
	Satisfied    bool          `json:"satisfied"`
	Insufficient bool          `json:"insufficient"`
}

// floorFor converts the configured floor fraction into a concrete minimum
// active count for a neuron of the given fan-in.
func (e *Enforcer) floorFor(fanIn int) int {
	floor := int(math.Ceil(e.ActiveFloorFrac * float64(fanIn)))
	if floor < 1 {
		floor = 1
	}
	if floor > fanIn {
		floor = fanIn
	}
	return floor
}

// checkLayer checks every neuron of one layer against the bound.
func (e *Enforcer) checkLayer(idx int, layer Layer, rng InputRange) (LayerReport, error) {
	rep := LayerReport{Layer: idx, Neurons: layer.Size, WorstVMax: math.Inf(-1)}
	for _, nr := range layer.Neurons {
		res, err := CheckVector(nr.Weights, nr.Mask, rng, e.BoundBits)
		if err != nil {
			return LayerReport{}, fmt.Errorf("layer %d neuron %d: %w", idx, nr.ID, err)
		}
		rep.Limit = res.Limit
		if res.VMax > rep.WorstVMax {
			rep.WorstVMax = res.VMax
		}
		if !res.Satisfied {
			rep.Violations++
		}
	}
	return rep, nil
}

// CheckNetwork runs the bound check on every layer. ranges[l] must hold
// the calibrated range of layer l's activations; layer l therefore reads
// its input range from ranges[l-1]. Layers are independent, so the checks
// run in parallel.
func (e *Enforcer) CheckNetwork(n *Network, ranges []InputRange) (Report, error) {
	if len(ranges) != len(n.Layers) {
		return Report{}, fmt.Errorf("ranges len %d, want %d: %w", len(ranges), len(n.Layers), ErrShapeMismatch)
	}

	rep := Report{RunID: uuid.NewString(), Layers: make([]LayerReport, len(n.Layers)-1)}
	var g errgroup.Group
	for l := 1; l < len(n.Layers); l++ {
		l := l
		g.Go(func() error {
			lr, err := e.checkLayer(l, n.Layers[l], ranges[l-1])
			if err != nil {
				return err
			}
			rep.Layers[l-1] = lr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep.Satisfied = true
	for _, lr := range rep.Layers {
		if lr.Violations > 0 {
			rep.Satisfied = false
		}
	}
	e.Log.Info("bound check complete",
		zap.String("run_id", rep.RunID),
		zap.Int("bound_bits", e.BoundBits),
		zap.Bool("satisfied", rep.Satisfied))
	return rep, nil
}

// EnforceNetwork prunes every neuron until its worst-case accumulator fits
// the bound or its active floor is reached, then folds the new masks into
// the network and re-zeroes pruned weights. Neurons left violated at the
// floor are counted, not treated as errors; the caller decides whether the
// run may continue.
func (e *Enforcer) EnforceNetwork(n *Network, ranges []InputRange) (Report, error) {
	if n.Frozen {
		return Report{}, ErrMaskFrozen
	}
	if len(ranges) != len(n.Layers) {
		return Report{}, fmt.Errorf("ranges len %d, want %d: %w", len(ranges), len(n.Layers), ErrShapeMismatch)
	}

	rep := Report{RunID: uuid.NewString(), Layers: make([]LayerReport, 0, len(n.Layers)-1)}
	for l := 1; l < len(n.Layers); l++ {
		layer := n.Layers[l]
		rng := ranges[l-1]
		lr := LayerReport{Layer: l, Neurons: layer.Size, WorstVMax: math.Inf(-1)}

		for _, nr := range layer.Neurons {
			floor := e.floorFor(len(nr.Weights))
			before := nr.ActiveCount()
			mask, status, err := PruneToSatisfy(nr.Weights, nr.Mask, rng, e.BoundBits, floor)
			if err != nil {
				return Report{}, fmt.Errorf("layer %d neuron %d: %w", l, nr.ID, err)
			}
			nr.Mask.Intersect(mask)
			nr.applyMask()
			lr.Pruned += before - nr.ActiveCount()
			if status == PruneInsufficient {
				lr.Insufficient++
			}

			res, err := CheckVector(nr.Weights, nr.Mask, rng, e.BoundBits)
			if err != nil {
				return Report{}, fmt.Errorf("layer %d neuron %d: %w", l, nr.ID, err)
			}
			lr.Limit = res.Limit
			if res.VMax > lr.WorstVMax {
				lr.WorstVMax = res.VMax
			}
			if !res.Satisfied {
				lr.Violations++
			}
		}

		e.Log.Info("layer enforced",
			zap.String("run_id", rep.RunID),
			zap.Int("layer", l),
			zap.Int("pruned", lr.Pruned),
			zap.Int("insufficient", lr.Insufficient),
			zap.Float64("worst_vmax", lr.WorstVMax),
			zap.Float64("limit", lr.Limit))
		rep.Layers = append(rep.Layers, lr)
	}

	rep.Satisfied = true
	for _, lr := range rep.Layers {
		if lr.Violations > 0 {
			rep.Satisfied = false
		}
		if lr.Insufficient > 0 {
			rep.Insufficient = true
		}
	}
	return rep, nil
}
