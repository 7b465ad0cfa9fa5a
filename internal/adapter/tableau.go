package adapter

import (
	"fmt"

	m "github.com/inmzhang/leaky/internal/model"
	"github.com/inmzhang/leaky/internal/rng"
)

// Tableau is a stabilizer-tableau Clifford engine in the style of
// Aaronson and Gottesman's CHP simulator. Rows 0..n-1 hold the
// destabilizer generators, rows n..2n-1 the stabilizer generators, and
// row 2n is scratch space for deterministic measurements.
type Tableau struct {
	n      int
	x      [][]bool
	z      [][]bool
	r      []bool
	record []uint8
	rand   *rng.Source
}

// NewTableau creates an identity tableau on numQubits qubits.
func NewTableau(numQubits int, src *rng.Source) *Tableau {
	t := &Tableau{rand: src}
	t.Reinit(numQubits)

	return t
}

// Reinit restores the identity state and clears the measurement record.
func (t *Tableau) Reinit(numQubits int) {
	t.n = numQubits
	rows := 2*numQubits + 1
	t.x = make([][]bool, rows)
	t.z = make([][]bool, rows)
	t.r = make([]bool, rows)

	for i := range t.x {
		t.x[i] = make([]bool, numQubits)
		t.z[i] = make([]bool, numQubits)
	}

	for i := 0; i < numQubits; i++ {
		t.x[i][i] = true
		t.z[numQubits+i][i] = true
	}

	t.record = t.record[:0]
}

// MeasurementRecord returns the classical outcomes in program order.
func (t *Tableau) MeasurementRecord() []uint8 {
	return t.record
}

// singleQubitDecomp expresses each supported single-qubit Clifford as a
// sequence of H ('h') and S ('s') applications, applied left to right.
var singleQubitDecomp = map[string]string{
	"I":          "",
	"X":          "hssh",
	"Y":          "sshssh",
	"Z":          "ss",
	"H":          "h",
	"H_XY":       "ssshssh",
	"H_YZ":       "sshsssh",
	"S":          "s",
	"S_DAG":      "sss",
	"SQRT_X":     "hsh",
	"SQRT_X_DAG": "hsssh",
	"SQRT_Y":     "ssh",
	"SQRT_Y_DAG": "hss",
	"C_XYZ":      "sssh",
	"C_ZYX":      "hs",
}

// Do executes one instruction against the tableau.
func (t *Tableau) Do(inst m.Instruction) error {
	gate, ok := m.LookupGate(inst.Name)
	if !ok {
		return fmt.Errorf("unknown gate %q: %w", inst.Name, m.ErrInvalidArgument)
	}

	if gate.Flags&m.GateIsAnnotation != 0 {
		return nil
	}

	targets := inst.QubitTargets()
	for _, q := range targets {
		if q < 0 || q >= t.n {
			return fmt.Errorf("target %d out of range for %d qubits: %w", q, t.n, m.ErrInvalidArgument)
		}
	}

	switch {
	case gate.Flags&(m.GateProducesMeasurement|m.GateIsReset) != 0:
		if gate.Basis != 'Z' {
			return fmt.Errorf("gate %q: only Z basis measurements and resets are supported: %w", gate.Name, m.ErrInvalidArgument)
		}

		for _, q := range targets {
			if gate.Flags&m.GateProducesMeasurement != 0 {
				t.record = append(t.record, t.measureZ(q))
			}

			if gate.Flags&m.GateIsReset != 0 {
				t.resetZ(q)
			}
		}

		return nil

	case gate.Flags&m.GateIsNoisy != 0:
		return t.doNoise(gate, inst.Args, targets)

	case gate.Flags&m.GateIsUnitary != 0:
		return t.doUnitary(gate, targets)

	default:
		return fmt.Errorf("gate %q is not executable on the stabilizer backend: %w", gate.Name, m.ErrInvalidArgument)
	}
}

func (t *Tableau) doUnitary(gate m.Gate, targets []int) error {
	if gate.Flags&m.GateTargetsPairs != 0 {
		if len(targets)%2 != 0 {
			return fmt.Errorf("gate %q needs an even number of targets, got %d: %w", gate.Name, len(targets), m.ErrInvalidArgument)
		}

		for k := 0; k+1 < len(targets); k += 2 {
			t.applyTwoQubit(gate.Name, targets[k], targets[k+1])
		}

		return nil
	}

	seq, ok := singleQubitDecomp[gate.Name]
	if !ok {
		return fmt.Errorf("gate %q is not executable on the stabilizer backend: %w", gate.Name, m.ErrInvalidArgument)
	}

	for _, q := range targets {
		t.applySequence(seq, q)
	}

	return nil
}

func (t *Tableau) applySequence(seq string, q int) {
	for _, c := range seq {
		if c == 'h' {
			t.hadamard(q)
		} else {
			t.phase(q)
		}
	}
}

func (t *Tableau) applyTwoQubit(name string, a, b int) {
	switch name {
	case "CX":
		t.cnot(a, b)
	case "CZ":
		t.hadamard(b)
		t.cnot(a, b)
		t.hadamard(b)
	case "CY":
		t.applySequence("sss", b)
		t.cnot(a, b)
		t.phase(b)
	case "SWAP":
		t.cnot(a, b)
		t.cnot(b, a)
		t.cnot(a, b)
	}
}

func (t *Tableau) doNoise(gate m.Gate, args []float64, targets []int) error {
	if len(args) != 1 || args[0] < 0 || args[0] > 1 {
		return fmt.Errorf("gate %q needs a single probability argument: %w", gate.Name, m.ErrInvalidArgument)
	}

	p := args[0]

	switch gate.Name {
	case "X_ERROR", "Y_ERROR", "Z_ERROR":
		seq := singleQubitDecomp[gate.Name[:1]]
		for _, q := range targets {
			if t.rand.Float(0, 1) < p {
				t.applySequence(seq, q)
			}
		}
	case "DEPOLARIZE1":
		for _, q := range targets {
			if t.rand.Float(0, 1) < p {
				pauli := m.PauliChars[1+t.rand.IntN(3)]
				t.applySequence(singleQubitDecomp[string(rune(pauli))], q)
			}
		}
	case "DEPOLARIZE2":
		if len(targets)%2 != 0 {
			return fmt.Errorf("DEPOLARIZE2 needs an even number of targets, got %d: %w", len(targets), m.ErrInvalidArgument)
		}

		for k := 0; k+1 < len(targets); k += 2 {
			if t.rand.Float(0, 1) >= p {
				continue
			}

			which := 1 + t.rand.IntN(15)
			if c := m.PauliChars[which>>2]; c != 'I' {
				t.applySequence(singleQubitDecomp[string(rune(c))], targets[k])
			}

			if c := m.PauliChars[which&3]; c != 'I' {
				t.applySequence(singleQubitDecomp[string(rune(c))], targets[k+1])
			}
		}
	}

	return nil
}

// hadamard conjugates every generator by H on qubit q.
func (t *Tableau) hadamard(q int) {
	for i := 0; i < 2*t.n; i++ {
		if t.x[i][q] && t.z[i][q] {
			t.r[i] = !t.r[i]
		}

		t.x[i][q], t.z[i][q] = t.z[i][q], t.x[i][q]
	}
}

// phase conjugates every generator by S on qubit q.
func (t *Tableau) phase(q int) {
	for i := 0; i < 2*t.n; i++ {
		if t.x[i][q] && t.z[i][q] {
			t.r[i] = !t.r[i]
		}

		t.z[i][q] = t.z[i][q] != t.x[i][q]
	}
}

// cnot conjugates every generator by CNOT with control c and target d.
func (t *Tableau) cnot(c, d int) {
	for i := 0; i < 2*t.n; i++ {
		if t.x[i][c] && t.z[i][d] && (t.x[i][d] == t.z[i][c]) {
			t.r[i] = !t.r[i]
		}

		t.x[i][d] = t.x[i][d] != t.x[i][c]
		t.z[i][c] = t.z[i][c] != t.z[i][d]
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}

	return 0
}

// phaseExp is the exponent contribution of multiplying the single-qubit
// Paulis (x1,z1) and (x2,z2), as in Aaronson-Gottesman's g function.
func phaseExp(x1, z1, x2, z2 bool) int {
	switch {
	case !x1 && !z1:
		return 0
	case x1 && z1:
		return b2i(z2) - b2i(x2)
	case x1 && !z1:
		return b2i(z2) * (2*b2i(x2) - 1)
	default:
		return b2i(x2) * (1 - 2*b2i(z2))
	}
}

// rowsum multiplies generator row i into row h, tracking the sign.
func (t *Tableau) rowsum(h, i int) {
	sum := 2*b2i(t.r[h]) + 2*b2i(t.r[i])

	for j := 0; j < t.n; j++ {
		sum += phaseExp(t.x[i][j], t.z[i][j], t.x[h][j], t.z[h][j])
		t.x[h][j] = t.x[h][j] != t.x[i][j]
		t.z[h][j] = t.z[h][j] != t.z[i][j]
	}

	sum %= 4
	if sum < 0 {
		sum += 4
	}

	t.r[h] = sum == 2
}

// measureZ measures qubit q in the Z basis and returns the outcome.
func (t *Tableau) measureZ(q int) uint8 {
	p := -1

	for i := t.n; i < 2*t.n; i++ {
		if t.x[i][q] {
			p = i

			break
		}
	}

	if p >= 0 {
		// The outcome is random: some stabilizer anticommutes with Z_q.
		for i := 0; i < 2*t.n; i++ {
			if i != p && t.x[i][q] {
				t.rowsum(i, p)
			}
		}

		copy(t.x[p-t.n], t.x[p])
		copy(t.z[p-t.n], t.z[p])
		t.r[p-t.n] = t.r[p]

		for j := 0; j < t.n; j++ {
			t.x[p][j] = false
			t.z[p][j] = false
		}

		t.z[p][q] = true
		t.r[p] = t.rand.Float(0, 1) < 0.5

		if t.r[p] {
			return 1
		}

		return 0
	}

	// Deterministic outcome: accumulate into the scratch row.
	scratch := 2 * t.n
	for j := 0; j < t.n; j++ {
		t.x[scratch][j] = false
		t.z[scratch][j] = false
	}

	t.r[scratch] = false

	for i := 0; i < t.n; i++ {
		if t.x[i][q] {
			t.rowsum(scratch, i+t.n)
		}
	}

	if t.r[scratch] {
		return 1
	}

	return 0
}

// resetZ projects qubit q to |0⟩.
func (t *Tableau) resetZ(q int) {
	if t.measureZ(q) == 1 {
		t.applySequence(singleQubitDecomp["X"], q)
	}
}
