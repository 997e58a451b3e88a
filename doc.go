// Package boundprune keeps neural-network accumulators inside the numeric
// range an encrypted inference runtime can represent.
//
// Encrypted table lookups address the pre-activation accumulator with a
// fixed number of bits, so the worst-case value of every neuron's weighted
// sum must stay at or below 2^bits - 1 no matter which inputs show up at
// run time. The package provides the pure worst-case check (CheckVector),
// the deterministic magnitude-based pruning policy that enforces it
// (PruneToSatisfy), and the surrounding machinery a training run needs:
// masked dense networks, activation-range calibration, network-wide
// enforcement with reports, and JSON persistence of weights, masks and
// calibration data.
//
// Pruning is monotonic: once a weight is masked it stays masked for the
// rest of the run, and Freeze pins the masks for export.
package boundprune
