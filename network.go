package boundprune

import (
	"fmt"
	"math"
	"math/rand"
)

// Network encapsulates the whole model: an input layer followed by dense
// layers whose weights carry pruning masks.
type Network struct {
	Layers      []Layer
	InputLayer  int
	OutputLayer int
	Frozen      bool // masks frozen for export, no further pruning
	Debug       bool
}

// NewNetwork initializes a dense network with the given layer sizes and
// activations. Weights use He initialization; masks start all-active.
func NewNetwork(sizes []int, activations []string) *Network {
	if len(sizes) != len(activations) {
		panic("mismatched layer sizes and activations")
	}
	n := &Network{
		Layers:      make([]Layer, len(sizes)),
		InputLayer:  0,
		OutputLayer: len(sizes) - 1,
	}
	idCounter := 0
	for l, size := range sizes {
		layer := Layer{Size: size, Neurons: make([]*Neuron, size)}
		for j := 0; j < size; j++ {
			nr := &Neuron{
				ID:         idCounter,
				Activation: activations[l],
			}
			if l > 0 {
				fanIn := sizes[l-1]
				nr.Weights = make([]float64, fanIn)
				for i := range nr.Weights {
					nr.Weights[i] = rand.NormFloat64() * math.Sqrt(2.0/float64(fanIn))
				}
				nr.Mask = NewMask(fanIn)
			}
			layer.Neurons[j] = nr
			idCounter++
		}
		n.Layers[l] = layer
	}
	return n
}

// Forward runs one inference pass. Pruned weights never contribute to the
// accumulator, whatever value the optimizer last left in them.
func (n *Network) Forward(input []float64) error {
	in := n.Layers[n.InputLayer]
	if len(input) != in.Size {
		return fmt.Errorf("input len %d, want %d: %w", len(input), in.Size, ErrShapeMismatch)
	}
	for i, nr := range in.Neurons {
		nr.Value = input[i]
	}

	for l := 1; l < len(n.Layers); l++ {
		prev := n.Layers[l-1]
		for _, nr := range n.Layers[l].Neurons {
			sum := nr.Bias
			for i, w := range nr.Weights {
				if nr.Mask[i] {
					sum += prev.Neurons[i].Value * w
				}
			}
			nr.Value = applyActivation(sum, nr.Activation)
		}
		if n.Debug {
			fmt.Printf("layer %d values: %v\n", l, n.Layers[l].Values())
		}
	}

	if n.Layers[n.OutputLayer].Neurons[0].Activation == "softmax" {
		n.applySoftmax()
	}
	return nil
}

// Backward runs one SGD step against the target. Pruned weights receive no
// gradient and stay zero.
func (n *Network) Backward(target []float64, lr float64) error {
	out := n.Layers[n.OutputLayer]
	if len(target) != out.Size {
		return fmt.Errorf("target len %d, want %d: %w", len(target), out.Size, ErrShapeMismatch)
	}

	errTerms := make([][]float64, len(n.Layers))
	for l := range n.Layers {
		errTerms[l] = make([]float64, n.Layers[l].Size)
	}
	for j, nr := range out.Neurons {
		errTerms[n.OutputLayer][j] =
			(target[j] - nr.Value) * activationDerivative(nr.Value, nr.Activation)
	}

	for l := n.OutputLayer; l > 0; l-- {
		prev := n.Layers[l-1]
		for j, nr := range n.Layers[l].Neurons {
			local := errTerms[l][j]
			nr.Bias += lr * local
			for i := range nr.Weights {
				if !nr.Mask[i] {
					continue
				}
				grad := local * prev.Neurons[i].Value
				if grad > 5 {
					grad = 5
				} else if grad < -5 {
					grad = -5
				}
				nr.Weights[i] += lr * grad
				if l-1 > 0 {
					errTerms[l-1][i] += local * nr.Weights[i]
				}
			}
		}
		if l-1 > 0 {
			for i, nr := range prev.Neurons {
				errTerms[l-1][i] *= activationDerivative(nr.Value, nr.Activation)
			}
		}
	}
	return nil
}

// ApplyMasks re-zeroes every pruned weight in the network. Call after each
// external optimizer update; the masks themselves are untouched.
func (n *Network) ApplyMasks() {
	for l := 1; l < len(n.Layers); l++ {
		for _, nr := range n.Layers[l].Neurons {
			nr.applyMask()
		}
	}
}

// Freeze marks the masks final. Enforcement calls refuse to prune a frozen
// network; this is the terminal state a run exports.
func (n *Network) Freeze() { n.Frozen = true }

// ComputeLoss calculates mean squared error against the target.
func (n *Network) ComputeLoss(target []float64) float64 {
	out := n.Layers[n.OutputLayer]
	if len(target) != out.Size {
		return math.NaN()
	}
	loss := 0.0
	for j, nr := range out.Neurons {
		d := target[j] - nr.Value
		loss += d * d
	}
	return loss / float64(out.Size)
}

// GetOutput returns the activations of the output layer.
func (n *Network) GetOutput() []float64 {
	return n.Layers[n.OutputLayer].Values()
}

func (n *Network) applySoftmax() {
	out := n.Layers[n.OutputLayer]
	soft := Softmax(out.Values())
	for j, nr := range out.Neurons {
		nr.Value = soft[j]
	}
}
