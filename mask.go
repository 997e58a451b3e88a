package boundprune

// Mask marks which positions of a weight vector are still active.
// mask[i] == false means position i is pruned: the weight is fixed to zero
// and never contributes to the accumulator again. Pruning is monotonic
// within a run, so a position that goes false stays false.
type Mask []bool

// NewMask returns an all-active mask of length n.
func NewMask(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Clone returns an independent copy of the mask.
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	copy(out, m)
	return out
}

// ActiveCount returns the number of still-active positions.
func (m Mask) ActiveCount() int {
	n := 0
	for _, a := range m {
		if a {
			n++
		}
	}
	return n
}

// SubsetOf reports whether every active position in m is also active in
// other. This is the monotonicity relation: a pruned mask is always a
// subset of the mask it was derived from.
func (m Mask) SubsetOf(other Mask) bool {
	if len(m) != len(other) {
		return false
	}
	for i, a := range m {
		if a && !other[i] {
			return false
		}
	}
	return true
}

// Intersect folds other into m in place, keeping a position active only if
// both masks agree. This is how a freshly computed pruning decision is
// merged into a neuron's long-lived mask without ever reviving a position.
func (m Mask) Intersect(other Mask) {
	for i := range m {
		m[i] = m[i] && other[i]
	}
}
