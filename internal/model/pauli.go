package model

// PauliChars lists the single-qubit Pauli operator names in index order.
const PauliChars = "IXYZ"

// IsPauliString reports whether s consists only of I, X, Y and Z characters.
func IsPauliString(s string) bool {
	for _, c := range s {
		switch c {
		case 'I', 'X', 'Y', 'Z':
		default:
			return false
		}
	}

	return len(s) > 0
}
