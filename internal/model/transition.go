package model

// TransitionType classifies a single-qubit (from, to) level pair.
type TransitionType uint8

const (
	// TransitionR means the qubit stays in the computational subspace.
	TransitionR TransitionType = iota
	// TransitionU means the qubit leaves the subspace.
	TransitionU
	// TransitionD means the qubit returns to the subspace.
	TransitionD
	// TransitionL means the qubit moves between leaked levels.
	TransitionL
)

// TransitionTypeOf classifies the (from, to) pair of leakage levels.
func TransitionTypeOf(from, to Level) TransitionType {
	switch {
	case from == 0 && to == 0:
		return TransitionR
	case from == 0 && to > 0:
		return TransitionU
	case from > 0 && to == 0:
		return TransitionD
	default:
		return TransitionL
	}
}

func (t TransitionType) String() string {
	switch t {
	case TransitionR:
		return "R"
	case TransitionU:
		return "U"
	case TransitionD:
		return "D"
	case TransitionL:
		return "L"
	default:
		return "?"
	}
}
