package domain

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	m "github.com/inmzhang/leaky/internal/model"
)

// probFloor drops numerically-zero transitions produced by the twirling.
const probFloor = 1e-9

// pauliMatrices holds I, X, Y, Z in index order.
var pauliMatrices = [4]*mat.CDense{
	mat.NewCDense(2, 2, []complex128{1, 0, 0, 1}),
	mat.NewCDense(2, 2, []complex128{0, 1, 1, 0}),
	mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0}),
	mat.NewCDense(2, 2, []complex128{1, 0, 0, -1}),
}

// GeneralizedPauliTwirling decomposes the Kraus operators of an error
// channel over a numLevel-level system into a LeakyPauliChannel. Each
// Kraus operator is projected onto every (initial, final) joint leakage
// status; the block acting inside the computational subspace is twirled
// against the Pauli basis, while subspace-crossing blocks contribute their
// squared weight directly.
func GeneralizedPauliTwirling(krausOperators []*mat.CDense, numQubits, numLevel int, safetyCheck bool) (*LeakyPauliChannel, error) {
	channel, err := NewLeakyPauliChannel(numQubits)
	if err != nil {
		return nil, err
	}

	if numLevel < 2 {
		return nil, fmt.Errorf("numLevel must be at least 2, got %d: %w", numLevel, m.ErrInvalidArgument)
	}

	dim := intPow(numLevel, numQubits)
	for _, kraus := range krausOperators {
		if r, c := kraus.Dims(); r != dim || c != dim {
			return nil, fmt.Errorf("kraus operator is %dx%d, want %dx%d: %w", r, c, dim, dim, m.ErrInvalidArgument)
		}
	}

	allStatus := enumerateStatuses(numQubits, numLevel-1)

	for _, kraus := range krausOperators {
		for _, initial := range allStatus {
			for _, final := range allStatus {
				if err := twirlBlock(channel, kraus, numLevel, initial, final); err != nil {
					return nil, err
				}
			}
		}
	}

	if safetyCheck {
		if err := channel.SafetyCheck(); err != nil {
			return nil, err
		}
	}

	return channel, nil
}

func twirlBlock(channel *LeakyPauliChannel, kraus *mat.CDense, numLevel int, initial, final []m.Level) error {
	numQubits := len(initial)

	numUp := 0
	var stayed []int

	for q := range initial {
		switch m.TransitionTypeOf(initial[q], final[q]) {
		case m.TransitionU:
			numUp++
		case m.TransitionR:
			stayed = append(stayed, q)
		}
	}

	prefactor := 1.0 / float64(uint64(1)<<numUp)
	from := m.StatusOf(initial...)
	to := m.StatusOf(final...)

	for _, projector := range scatterStatuses(initial, final) {
		projected := projectKraus(kraus, numLevel, projector.initial, projector.final)

		if len(stayed) == 0 {
			probability := prefactor * sqAbs(projected.At(0, 0))
			if probability < probFloor {
				continue
			}

			identity := make([]byte, numQubits)
			for i := range identity {
				identity[i] = 'I'
			}

			if err := channel.AddTransition(from, to, string(identity), probability); err != nil {
				return err
			}

			continue
		}

		subDim := 1 << len(stayed)

		for _, combo := range enumerateStatuses(len(stayed), 4) {
			op := pauliMatrices[combo[0]]
			for _, idx := range combo[1:] {
				op = kronCDense(op, pauliMatrices[idx])
			}

			probability := prefactor * sqAbs(traceProduct(projected, op)/complex(float64(subDim), 0))
			if probability < probFloor {
				continue
			}

			pauli := make([]byte, numQubits)
			for i := range pauli {
				pauli[i] = 'I'
			}

			for i, q := range stayed {
				pauli[q] = m.PauliChars[combo[i]]
			}

			if err := channel.AddTransition(from, to, string(pauli), probability); err != nil {
				return err
			}
		}
	}

	return nil
}

// projectStatus lists, per qubit, the physical levels spanned by its
// projector: {0, 1} for the computational subspace, {s+1} for leaked
// level s.
type projectStatus [][]int

type projectorPair struct {
	initial projectStatus
	final   projectStatus
}

// scatterStatuses expands the subspace projectors of up-transition qubits
// on the initial side and down-transition qubits on the final side into
// their basis states, so the projected blocks are square over the stayed
// qubits.
func scatterStatuses(initial, final []m.Level) []projectorPair {
	initialOptions := make([][]projectStatus, len(initial))
	finalOptions := make([][]projectStatus, len(final))

	for q := range initial {
		tt := m.TransitionTypeOf(initial[q], final[q])

		if tt == m.TransitionU {
			initialOptions[q] = []projectStatus{{{0}}, {{1}}}
		} else {
			initialOptions[q] = []projectStatus{{levelProjector(initial[q])}}
		}

		if tt == m.TransitionD {
			finalOptions[q] = []projectStatus{{{0}}, {{1}}}
		} else {
			finalOptions[q] = []projectStatus{{levelProjector(final[q])}}
		}
	}

	initialCombos := combineProjectors(initialOptions)
	finalCombos := combineProjectors(finalOptions)

	pairs := make([]projectorPair, 0, len(initialCombos)*len(finalCombos))
	for _, ip := range initialCombos {
		for _, fp := range finalCombos {
			pairs = append(pairs, projectorPair{initial: ip, final: fp})
		}
	}

	return pairs
}

func levelProjector(level m.Level) []int {
	if level == 0 {
		return []int{0, 1}
	}

	return []int{int(level) + 1}
}

func combineProjectors(options [][]projectStatus) []projectStatus {
	combos := []projectStatus{{}}

	for _, opts := range options {
		var next []projectStatus

		for _, combo := range combos {
			for _, opt := range opts {
				extended := make(projectStatus, len(combo), len(combo)+1)
				copy(extended, combo)
				extended = append(extended, opt[0])
				next = append(next, extended)
			}
		}

		combos = next
	}

	return combos
}

// projectorSlice maps a per-qubit projector to flat indices into the
// numLevel^n dimensional space.
func projectorSlice(numLevel int, ps projectStatus) []int {
	levels := ps[0]
	if len(ps) == 1 {
		return append([]int(nil), levels...)
	}

	tail := projectorSlice(numLevel, ps[1:])
	stride := intPow(numLevel, len(ps)-1)

	out := make([]int, 0, len(levels)*len(tail))
	for _, s := range levels {
		for _, x := range tail {
			out = append(out, x+s*stride)
		}
	}

	return out
}

func projectKraus(kraus *mat.CDense, numLevel int, initial, final projectStatus) *mat.CDense {
	rows := projectorSlice(numLevel, final)
	cols := projectorSlice(numLevel, initial)

	out := mat.NewCDense(len(rows), len(cols), nil)
	for i, r := range rows {
		for j, c := range cols {
			out.Set(i, j, kraus.At(r, c))
		}
	}

	return out
}

func kronCDense(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	out := mat.NewCDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			for k := 0; k < br; k++ {
				for l := 0; l < bc; l++ {
					out.Set(i*br+k, j*bc+l, a.At(i, j)*b.At(k, l))
				}
			}
		}
	}

	return out
}

// traceProduct returns tr(a * b) without materialising the product.
func traceProduct(a, b *mat.CDense) complex128 {
	n, _ := a.Dims()

	var sum complex128
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum += a.At(i, j) * b.At(j, i)
		}
	}

	return sum
}

func sqAbs(v complex128) float64 {
	abs := cmplx.Abs(v)

	return abs * abs
}

// enumerateStatuses lists all length-n vectors with entries in [0, base).
func enumerateStatuses(n, base int) [][]m.Level {
	if n == 0 {
		return [][]m.Level{{}}
	}

	tails := enumerateStatuses(n-1, base)

	out := make([][]m.Level, 0, base*len(tails))
	for v := 0; v < base; v++ {
		for _, tail := range tails {
			status := make([]m.Level, 0, n)
			status = append(status, m.Level(v))
			status = append(status, tail...)
			out = append(out, status)
		}
	}

	return out
}

func intPow(base, exp int) int {
	out := 1
	for i := 0; i < exp; i++ {
		out *= base
	}

	return out
}
