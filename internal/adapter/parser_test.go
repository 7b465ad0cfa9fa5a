package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/inmzhang/leaky/internal/model"
)

func TestParseCircuitBasic(t *testing.T) {
	circuit, err := ParseCircuit("X 0\nM 0\n")
	require.NoError(t, err)

	require.Len(t, circuit.Ops, 2)
	assert.Equal(t, "X", circuit.Ops[0].Inst.Name)
	assert.Equal(t, []int{0}, circuit.Ops[0].Inst.QubitTargets())
	assert.Equal(t, "M", circuit.Ops[1].Inst.Name)
	assert.Equal(t, 1, circuit.NumQubits())
	assert.Equal(t, 1, circuit.NumMeasurements())
}

func TestParseCircuitTagAndArgs(t *testing.T) {
	circuit, err := ParseCircuit("I[leaky<0>] 3 5 7 9\nX_ERROR(0.25) 0 1\n")
	require.NoError(t, err)

	tagged := circuit.Ops[0].Inst
	assert.Equal(t, "I", tagged.Name)
	assert.Equal(t, "leaky<0>", tagged.Tag)
	assert.Equal(t, []int{3, 5, 7, 9}, tagged.QubitTargets())

	noise := circuit.Ops[1].Inst
	assert.Equal(t, []float64{0.25}, noise.Args)
}

func TestParseCircuitCommentsAndBlankLines(t *testing.T) {
	circuit, err := ParseCircuit("# header\n\nH 0 # trailing\n")
	require.NoError(t, err)

	require.Len(t, circuit.Ops, 1)
	assert.Equal(t, "H", circuit.Ops[0].Inst.Name)
}

func TestParseCircuitRepeatBlock(t *testing.T) {
	circuit, err := ParseCircuit("R 0\nREPEAT 3 {\n    X 0\n    M 0\n}\n")
	require.NoError(t, err)

	require.Len(t, circuit.Ops, 2)

	block := circuit.Ops[1]
	require.True(t, block.IsBlock())
	assert.Equal(t, uint64(3), block.Repeat)
	assert.Len(t, block.Block.Ops, 2)
	assert.Equal(t, 3, circuit.NumMeasurements())
}

func TestParseCircuitNestedRepeat(t *testing.T) {
	circuit, err := ParseCircuit("REPEAT 2 {\nREPEAT 2 {\nM 0\n}\n}\n")
	require.NoError(t, err)
	assert.Equal(t, 4, circuit.NumMeasurements())
}

func TestParseCircuitAnnotations(t *testing.T) {
	circuit, err := ParseCircuit("M 0\nDETECTOR(1, 2) rec[-1]\nOBSERVABLE_INCLUDE(0) rec[-1]\nTICK\n")
	require.NoError(t, err)

	det := circuit.Ops[1].Inst
	assert.Equal(t, "DETECTOR", det.Name)
	assert.Equal(t, []float64{1, 2}, det.Args)
	require.Len(t, det.Targets, 1)
	assert.True(t, det.Targets[0].IsRecord)
	assert.Equal(t, -1, det.Targets[0].Lookback)
}

func TestParseCircuitErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unmatched close", "}\n"},
		{"unclosed repeat", "REPEAT 2 {\nM 0\n"},
		{"repeat without brace", "REPEAT 2\n"},
		{"bad repeat count", "REPEAT x {\n}\n"},
		{"bad target", "H q0\n"},
		{"negative target", "H -1\n"},
		{"unterminated tag", "I[leaky<0> 0\n"},
		{"unterminated args", "X_ERROR(0.5 0\n"},
		{"bad argument", "X_ERROR(zero) 0\n"},
		{"bad record target", "DETECTOR rec[1]\n"},
		{"garbage after name", "H) 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCircuit(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, m.ErrInvalidArgument))
		})
	}
}
