package boundprune

import "errors"

// Caller-input errors. Each aborts the call that received the bad input
// with no mutation of any mask or weight.
var (
	// ErrShapeMismatch reports weight/mask vectors of different lengths.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidRange reports an input range whose minimum exceeds its maximum.
	ErrInvalidRange = errors.New("invalid input range")

	// ErrInvalidTarget reports an active-count floor outside [1, N].
	ErrInvalidTarget = errors.New("invalid target active count")

	// ErrInvalidBound reports a non-positive or oversized accumulator bit width.
	ErrInvalidBound = errors.New("invalid bound bits")

	// ErrMaskFrozen reports an attempt to prune a network whose masks were
	// frozen for export.
	ErrMaskFrozen = errors.New("masks are frozen")
)
