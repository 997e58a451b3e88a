package boundprune

// Layer is a dense row of neurons, each fed by every neuron of the
// previous layer.
type Layer struct {
	Size    int
	Neurons []*Neuron
}

// Neuron is a single unit: a weight per input, a bias, and the pruning
// mask that decides which weights still participate in the accumulator.
type Neuron struct {
	ID         int
	Value      float64 // current activation
	Bias       float64
	Activation string // e.g. "relu", "sigmoid"
	Weights    []float64
	Mask       Mask
}

// ActiveCount returns how many of the neuron's weights are still active.
func (nr *Neuron) ActiveCount() int {
	return nr.Mask.ActiveCount()
}

// applyMask zeroes every pruned weight. Called after each external weight
// update so the optimizer cannot revive a pruned position.
func (nr *Neuron) applyMask() {
	for i, active := range nr.Mask {
		if !active {
			nr.Weights[i] = 0
		}
	}
}

// Values returns the current activations of the layer.
func (l *Layer) Values() []float64 {
	out := make([]float64, l.Size)
	for i, nr := range l.Neurons {
		out[i] = nr.Value
	}
	return out
}

// ActiveCounts returns the per-neuron active weight counts.
func (l *Layer) ActiveCounts() []int {
	out := make([]int, l.Size)
	for i, nr := range l.Neurons {
		out[i] = nr.ActiveCount()
	}
	return out
}
