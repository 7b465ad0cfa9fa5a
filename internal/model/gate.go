package model

// GateFlags describe how the simulator must treat an instruction.
type GateFlags uint16

const (
	// GateIsUnitary marks Clifford unitaries subject to leakage gating.
	GateIsUnitary GateFlags = 1 << iota
	// GateIsSingleQubit marks gates whose targets split into groups of 1.
	GateIsSingleQubit
	// GateTargetsPairs marks gates whose targets split into groups of 2.
	GateTargetsPairs
	// GateProducesMeasurement marks gates that append measurement results.
	GateProducesMeasurement
	// GateIsReset marks gates that reset their targets.
	GateIsReset
	// GateIsNoisy marks stochastic noise channels passed through verbatim.
	GateIsNoisy
	// GateIsAnnotation marks circuit annotations that execute as no-ops.
	GateIsAnnotation
)

// Gate is a static entry of the supported instruction table.
type Gate struct {
	Name  string
	Flags GateFlags
	// Basis is 'Z', 'X', 'Y' for measurements and resets, 'P' for
	// Pauli-product measurement, and zero otherwise. Only 'Z' is
	// executable; the rest are rejected at dispatch time.
	Basis byte
}

var gateTable = map[string]Gate{
	// Single-qubit Cliffords.
	"I":          {Name: "I", Flags: GateIsUnitary | GateIsSingleQubit},
	"X":          {Name: "X", Flags: GateIsUnitary | GateIsSingleQubit},
	"Y":          {Name: "Y", Flags: GateIsUnitary | GateIsSingleQubit},
	"Z":          {Name: "Z", Flags: GateIsUnitary | GateIsSingleQubit},
	"H":          {Name: "H", Flags: GateIsUnitary | GateIsSingleQubit},
	"H_XY":       {Name: "H_XY", Flags: GateIsUnitary | GateIsSingleQubit},
	"H_YZ":       {Name: "H_YZ", Flags: GateIsUnitary | GateIsSingleQubit},
	"S":          {Name: "S", Flags: GateIsUnitary | GateIsSingleQubit},
	"S_DAG":      {Name: "S_DAG", Flags: GateIsUnitary | GateIsSingleQubit},
	"SQRT_X":     {Name: "SQRT_X", Flags: GateIsUnitary | GateIsSingleQubit},
	"SQRT_X_DAG": {Name: "SQRT_X_DAG", Flags: GateIsUnitary | GateIsSingleQubit},
	"SQRT_Y":     {Name: "SQRT_Y", Flags: GateIsUnitary | GateIsSingleQubit},
	"SQRT_Y_DAG": {Name: "SQRT_Y_DAG", Flags: GateIsUnitary | GateIsSingleQubit},
	"C_XYZ":      {Name: "C_XYZ", Flags: GateIsUnitary | GateIsSingleQubit},
	"C_ZYX":      {Name: "C_ZYX", Flags: GateIsUnitary | GateIsSingleQubit},

	// Two-qubit Cliffords.
	"CX":   {Name: "CX", Flags: GateIsUnitary | GateTargetsPairs},
	"CY":   {Name: "CY", Flags: GateIsUnitary | GateTargetsPairs},
	"CZ":   {Name: "CZ", Flags: GateIsUnitary | GateTargetsPairs},
	"SWAP": {Name: "SWAP", Flags: GateIsUnitary | GateTargetsPairs},

	// Z-basis measurement and reset.
	"M":  {Name: "M", Flags: GateProducesMeasurement, Basis: 'Z'},
	"R":  {Name: "R", Flags: GateIsReset, Basis: 'Z'},
	"MR": {Name: "MR", Flags: GateProducesMeasurement | GateIsReset, Basis: 'Z'},

	// Unsupported bases, rejected at dispatch.
	"MX":  {Name: "MX", Flags: GateProducesMeasurement, Basis: 'X'},
	"MY":  {Name: "MY", Flags: GateProducesMeasurement, Basis: 'Y'},
	"RX":  {Name: "RX", Flags: GateIsReset, Basis: 'X'},
	"RY":  {Name: "RY", Flags: GateIsReset, Basis: 'Y'},
	"MRX": {Name: "MRX", Flags: GateProducesMeasurement | GateIsReset, Basis: 'X'},
	"MRY": {Name: "MRY", Flags: GateProducesMeasurement | GateIsReset, Basis: 'Y'},
	"MPP": {Name: "MPP", Flags: GateProducesMeasurement, Basis: 'P'},

	// Noise channels delegated verbatim to the backend.
	"X_ERROR":     {Name: "X_ERROR", Flags: GateIsNoisy | GateIsSingleQubit},
	"Y_ERROR":     {Name: "Y_ERROR", Flags: GateIsNoisy | GateIsSingleQubit},
	"Z_ERROR":     {Name: "Z_ERROR", Flags: GateIsNoisy | GateIsSingleQubit},
	"DEPOLARIZE1": {Name: "DEPOLARIZE1", Flags: GateIsNoisy | GateIsSingleQubit},
	"DEPOLARIZE2": {Name: "DEPOLARIZE2", Flags: GateIsNoisy | GateTargetsPairs},

	// Annotations.
	"TICK":               {Name: "TICK", Flags: GateIsAnnotation},
	"QUBIT_COORDS":       {Name: "QUBIT_COORDS", Flags: GateIsAnnotation},
	"DETECTOR":           {Name: "DETECTOR", Flags: GateIsAnnotation},
	"OBSERVABLE_INCLUDE": {Name: "OBSERVABLE_INCLUDE", Flags: GateIsAnnotation},
	"SHIFT_COORDS":       {Name: "SHIFT_COORDS", Flags: GateIsAnnotation},
	"MPAD":               {Name: "MPAD", Flags: GateIsAnnotation},
}

var gateAliases = map[string]string{
	"H_XZ":       "H",
	"SQRT_Z":     "S",
	"SQRT_Z_DAG": "S_DAG",
	"CNOT":       "CX",
	"ZCX":        "CX",
	"ZCY":        "CY",
	"ZCZ":        "CZ",
	"MZ":         "M",
	"RZ":         "R",
	"MRZ":        "MR",
}

// LookupGate resolves a gate name (or alias) to its table entry.
func LookupGate(name string) (Gate, bool) {
	if canonical, ok := gateAliases[name]; ok {
		name = canonical
	}

	g, ok := gateTable[name]

	return g, ok
}

// GroupSize returns how many targets form one application group.
func (g Gate) GroupSize() int {
	if g.Flags&GateTargetsPairs != 0 {
		return 2
	}

	return 1
}
