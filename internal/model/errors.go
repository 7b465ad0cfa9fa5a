package model

import "errors"

// Error kinds shared across the simulator core. Callers wrap them with
// context and match with errors.Is.
var (
	// ErrInvalidArgument covers bad channel arities, unsupported
	// measurement bases, malformed leaky<N> tags, out-of-range channel
	// indices, circuits exceeding the simulator capacity and unknown
	// readout strategies.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProbabilityOverflow is returned when adding a transition would
	// push an initial status's cumulative probability above 1 + 1e-6.
	ErrProbabilityOverflow = errors.New("probability overflow")

	// ErrInvariantViolation is returned by safety checks that discover a
	// non-normalised row or a non-identity Pauli on a non-R slot.
	ErrInvariantViolation = errors.New("invariant violation")
)
