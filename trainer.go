package boundprune

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// TrainConfig defines parameters for a training loop that keeps every
// layer's worst-case accumulator inside the configured bound.
type TrainConfig struct {
	Epochs          int
	LearningRate    float64
	BoundBits       int
	ActiveFloorFrac float64 // per-neuron minimum fraction of weights kept
	EnforceEvery    int     // enforce after every N epochs; 0 means every epoch
	AbortOnFloor    bool    // stop the run if a neuron is still violated at its floor
}

// Trainer orchestrates training with bound enforcement. After each
// optimizer pass it recalibrates activation ranges, prunes what the bound
// requires, and re-zeroes masked weights so the next epoch cannot revive
// them.
type Trainer struct {
	Network  *Network
	Enforcer *Enforcer
	Config   TrainConfig
	Log      *zap.Logger
}

// NewTrainer wires a trainer around the network. A nil logger is replaced
// by a no-op one.
func NewTrainer(n *Network, cfg TrainConfig, log *zap.Logger) *Trainer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trainer{
		Network:  n,
		Enforcer: NewEnforcer(cfg.BoundBits, cfg.ActiveFloorFrac, log),
		Config:   cfg,
		Log:      log,
	}
}

// Train runs the loop over the dataset and returns the final enforcement
// report. The masks only ever shrink across epochs; if AbortOnFloor is set
// and a neuron cannot satisfy the bound at its active floor, the run stops
// with the report that recorded it.
func (t *Trainer) Train(inputs [][]float64, targets [][]float64) (Report, error) {
	if len(inputs) != len(targets) {
		return Report{}, fmt.Errorf("inputs %d vs targets %d: %w", len(inputs), len(targets), ErrShapeMismatch)
	}
	if len(inputs) == 0 {
		return Report{}, fmt.Errorf("empty dataset: %w", ErrShapeMismatch)
	}
	if t.Network.Frozen {
		return Report{}, ErrMaskFrozen
	}

	enforceEvery := t.Config.EnforceEvery
	if enforceEvery <= 0 {
		enforceEvery = 1
	}

	var last Report
	for epoch := 0; epoch < t.Config.Epochs; epoch++ {
		start := time.Now()
		totalLoss := 0.0
		perm := rand.Perm(len(inputs))
		for _, p := range perm {
			if err := t.Network.Forward(inputs[p]); err != nil {
				return Report{}, err
			}
			loss := t.Network.ComputeLoss(targets[p])
			if math.IsNaN(loss) {
				t.Log.Warn("nan loss, skipping sample", zap.Int("sample", p), zap.Int("epoch", epoch))
				continue
			}
			totalLoss += loss
			if err := t.Network.Backward(targets[p], t.Config.LearningRate); err != nil {
				return Report{}, err
			}
		}
		// the optimizer may have written into pruned positions
		t.Network.ApplyMasks()

		t.Log.Info("epoch complete",
			zap.Int("epoch", epoch),
			zap.Float64("loss", totalLoss/float64(len(inputs))),
			zap.Duration("took", time.Since(start)))

		if (epoch+1)%enforceEvery != 0 && epoch != t.Config.Epochs-1 {
			continue
		}

		ranges, err := t.calibrate(inputs)
		if err != nil {
			return Report{}, err
		}
		last, err = t.Enforcer.EnforceNetwork(t.Network, ranges)
		if err != nil {
			return Report{}, err
		}
		if last.Insufficient {
			t.Log.Warn("bound still violated at active floor",
				zap.String("run_id", last.RunID), zap.Int("epoch", epoch))
			if t.Config.AbortOnFloor {
				return last, nil
			}
		}
	}
	return last, nil
}

// calibrate sweeps the dataset once to refresh per-layer activation ranges.
func (t *Trainer) calibrate(inputs [][]float64) ([]InputRange, error) {
	cal := NewCalibrator(len(t.Network.Layers), 0)
	for _, in := range inputs {
		if err := t.Network.Forward(in); err != nil {
			return nil, err
		}
		if err := cal.Observe(t.Network); err != nil {
			return nil, err
		}
	}
	return cal.Ranges()
}
