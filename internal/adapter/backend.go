// Package adapter provides the IO and backend ports of the leaky
// simulator: the stabilizer engine, the circuit text parser and the shot
// result store.
package adapter

import (
	m "github.com/inmzhang/leaky/internal/model"
)

// StabilizerBackend is the Clifford engine the leakage simulator drives.
// It evolves the stabilizer state of the non-leaked qubits, records
// Z-basis measurement outcomes and realises the X_ERROR entropy injection
// used on subspace-crossing transitions.
type StabilizerBackend interface {
	// Do executes a single instruction: a Clifford unitary, a Z-basis
	// measurement or reset, or a noise channel. Measurement outcomes are
	// appended to the record in target order.
	Do(inst m.Instruction) error
	// MeasurementRecord returns the classical outcomes in program order.
	MeasurementRecord() []uint8
	// Reinit resets the engine to the identity state on numQubits qubits
	// and empties the measurement record.
	Reinit(numQubits int)
}
