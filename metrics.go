// metrics.go
package boundprune

// ComputeAccuracy calculates the classification accuracy for a dataset
// with one-hot targets.
func ComputeAccuracy(nn *Network, inputs [][]float64, targets [][]float64) float64 {
	if len(inputs) == 0 {
		return 0
	}
	correct := 0
	for i := range inputs {
		if err := nn.Forward(inputs[i]); err != nil {
			continue
		}
		if ArgMax(nn.GetOutput()) == ArgMax(targets[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(inputs))
}

// Sparsity returns the fraction of weights pruned across the whole
// network. 0 means nothing pruned, 1 means everything.
func Sparsity(nn *Network) float64 {
	total, pruned := 0, 0
	for l := 1; l < len(nn.Layers); l++ {
		for _, nr := range nn.Layers[l].Neurons {
			total += len(nr.Weights)
			pruned += len(nr.Weights) - nr.ActiveCount()
		}
	}
	if total == 0 {
		return 0
	}
	return float64(pruned) / float64(total)
}
