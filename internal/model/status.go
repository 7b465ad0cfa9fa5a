// Package model defines the data structures for leakage-aware Clifford simulation.
package model

import (
	"strconv"
	"strings"
)

// Level is the leakage level of a single qubit. Zero means the qubit is in
// the computational subspace; a value n >= 1 labels the leaked level
// rendered as |n+1⟩.
type Level uint8

// LeakageStatus is an ordered vector of leakage levels, one per qubit in
// its scope (a whole simulator or a channel's targets).
type LeakageStatus struct {
	levels []Level
}

// NewLeakageStatus creates an all-zero status vector for numQubits qubits.
func NewLeakageStatus(numQubits int) LeakageStatus {
	return LeakageStatus{levels: make([]Level, numQubits)}
}

// StatusOf builds a status vector from explicit per-qubit levels.
func StatusOf(levels ...Level) LeakageStatus {
	s := LeakageStatus{levels: make([]Level, len(levels))}
	copy(s.levels, levels)

	return s
}

// ParseStatus builds a status vector from a digit string, e.g. "01" for a
// two-qubit scope with the second qubit in the first leaked level.
func ParseStatus(digits string) LeakageStatus {
	s := LeakageStatus{levels: make([]Level, len(digits))}
	for i, c := range digits {
		s.levels[i] = Level(c - '0')
	}

	return s
}

// Size returns the number of qubits in the scope.
func (s LeakageStatus) Size() int {
	return len(s.levels)
}

// Get returns the level of the i-th qubit.
func (s LeakageStatus) Get(i int) Level {
	return s.levels[i]
}

// Set assigns the level of the i-th qubit.
func (s *LeakageStatus) Set(i int, level Level) {
	s.levels[i] = level
}

// Reset returns the i-th qubit to the computational subspace.
func (s *LeakageStatus) Reset(i int) {
	s.levels[i] = 0
}

// Clear returns every qubit to the computational subspace.
func (s *LeakageStatus) Clear() {
	for i := range s.levels {
		s.levels[i] = 0
	}
}

// IsLeaked reports whether the i-th qubit is outside the subspace.
func (s LeakageStatus) IsLeaked(i int) bool {
	return s.levels[i] > 0
}

// AnyLeaked reports whether any qubit in the scope is outside the subspace.
func (s LeakageStatus) AnyLeaked() bool {
	for _, l := range s.levels {
		if l > 0 {
			return true
		}
	}

	return false
}

// Equal compares two status vectors component-wise.
func (s LeakageStatus) Equal(other LeakageStatus) bool {
	if len(s.levels) != len(other.levels) {
		return false
	}

	for i, l := range s.levels {
		if l != other.levels[i] {
			return false
		}
	}

	return true
}

// Clone returns an independent copy of the status vector.
func (s LeakageStatus) Clone() LeakageStatus {
	return StatusOf(s.levels...)
}

// String renders the status as |C⟩ for in-subspace qubits and |n+1⟩ for
// leaked ones, concatenated across qubits.
func (s LeakageStatus) String() string {
	var b strings.Builder
	for _, l := range s.levels {
		b.WriteString(levelString(l))
	}

	return b.String()
}

func levelString(l Level) string {
	if l == 0 {
		return "|C⟩"
	}

	return "|" + strconv.Itoa(int(l)+1) + "⟩"
}
