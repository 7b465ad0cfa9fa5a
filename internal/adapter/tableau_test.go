package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/inmzhang/leaky/internal/model"
	"github.com/inmzhang/leaky/internal/rng"
)

func newTestTableau(t *testing.T, numQubits int) *Tableau {
	t.Helper()

	return NewTableau(numQubits, rng.New(11))
}

func (t *Tableau) mustDo(tb testing.TB, inst m.Instruction) {
	tb.Helper()

	if err := t.Do(inst); err != nil {
		tb.Fatalf("Do(%s) failed: %v", inst.String(), err)
	}
}

func TestTableauFlipAndMeasure(t *testing.T) {
	tab := newTestTableau(t, 1)

	tab.mustDo(t, m.NewInstruction("X", 0))
	tab.mustDo(t, m.NewInstruction("M", 0))

	assert.Equal(t, []uint8{1}, tab.MeasurementRecord())
}

func TestTableauResetAndMeasure(t *testing.T) {
	tab := newTestTableau(t, 1)

	tab.mustDo(t, m.NewInstruction("H", 0))
	tab.mustDo(t, m.NewInstruction("R", 0))
	tab.mustDo(t, m.NewInstruction("M", 0))

	assert.Equal(t, []uint8{0}, tab.MeasurementRecord())
}

func TestTableauMeasureReset(t *testing.T) {
	tab := newTestTableau(t, 1)

	tab.mustDo(t, m.NewInstruction("X", 0))
	tab.mustDo(t, m.NewInstruction("MR", 0))
	tab.mustDo(t, m.NewInstruction("M", 0))

	assert.Equal(t, []uint8{1, 0}, tab.MeasurementRecord())
}

func TestTableauBellPairParity(t *testing.T) {
	for i := 0; i < 100; i++ {
		tab := NewTableau(2, rng.New(uint64(i)))

		tab.mustDo(t, m.NewInstruction("H", 0))
		tab.mustDo(t, m.NewInstruction("CNOT", 0, 1))
		tab.mustDo(t, m.NewInstruction("M", 0, 1))

		record := tab.MeasurementRecord()
		require.Len(t, record, 2)
		assert.Equal(t, record[0], record[1])
	}
}

func TestTableauRepeatedMeasurementIsStable(t *testing.T) {
	for i := 0; i < 50; i++ {
		tab := NewTableau(1, rng.New(uint64(i)))

		tab.mustDo(t, m.NewInstruction("H", 0))
		tab.mustDo(t, m.NewInstruction("M", 0))
		tab.mustDo(t, m.NewInstruction("M", 0))

		record := tab.MeasurementRecord()
		assert.Equal(t, record[0], record[1])
	}
}

func TestTableauSingleQubitIdentities(t *testing.T) {
	tests := []struct {
		name  string
		gates []string
		want  uint8
	}{
		{"sqrt_x squared is x", []string{"SQRT_X", "SQRT_X"}, 1},
		{"sqrt_y squared flips", []string{"SQRT_Y", "SQRT_Y"}, 1},
		{"s fourth power is identity", []string{"S", "S", "S", "S"}, 0},
		{"s and s_dag cancel", []string{"S", "S_DAG"}, 0},
		{"c_xyz cubed is identity", []string{"C_XYZ", "C_XYZ", "C_XYZ"}, 0},
		{"c_xyz then c_zyx", []string{"C_XYZ", "C_ZYX"}, 0},
		{"h_xy flips", []string{"H_XY"}, 1},
		{"y flips", []string{"Y"}, 1},
		{"z keeps zero", []string{"Z"}, 0},
		{"double hadamard", []string{"H", "H"}, 0},
		{"sqrt_x and dagger cancel", []string{"SQRT_X", "SQRT_X_DAG"}, 0},
		{"sqrt_y and dagger cancel", []string{"SQRT_Y", "SQRT_Y_DAG"}, 0},
		{"h_yz squared is identity", []string{"H_YZ", "H_YZ"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := newTestTableau(t, 1)

			for _, gate := range tt.gates {
				tab.mustDo(t, m.NewInstruction(gate, 0))
			}

			tab.mustDo(t, m.NewInstruction("M", 0))
			assert.Equal(t, []uint8{tt.want}, tab.MeasurementRecord())
		})
	}
}

func TestTableauTwoQubitGates(t *testing.T) {
	t.Run("swap moves excitation", func(t *testing.T) {
		tab := newTestTableau(t, 2)

		tab.mustDo(t, m.NewInstruction("X", 0))
		tab.mustDo(t, m.NewInstruction("SWAP", 0, 1))
		tab.mustDo(t, m.NewInstruction("M", 0, 1))

		assert.Equal(t, []uint8{0, 1}, tab.MeasurementRecord())
	})

	t.Run("cz preserves z basis", func(t *testing.T) {
		tab := newTestTableau(t, 2)

		tab.mustDo(t, m.NewInstruction("X", 0))
		tab.mustDo(t, m.NewInstruction("CZ", 0, 1))
		tab.mustDo(t, m.NewInstruction("M", 0, 1))

		assert.Equal(t, []uint8{1, 0}, tab.MeasurementRecord())
	})

	t.Run("cy flips when control is set", func(t *testing.T) {
		tab := newTestTableau(t, 2)

		tab.mustDo(t, m.NewInstruction("X", 0))
		tab.mustDo(t, m.NewInstruction("CY", 0, 1))
		tab.mustDo(t, m.NewInstruction("M", 0, 1))

		assert.Equal(t, []uint8{1, 1}, tab.MeasurementRecord())
	})

	t.Run("cnot chains", func(t *testing.T) {
		tab := newTestTableau(t, 4)

		tab.mustDo(t, m.NewInstruction("X", 0))
		tab.mustDo(t, m.NewInstruction("CNOT", 0, 1, 2, 3))
		tab.mustDo(t, m.NewInstruction("M", 0, 1, 2, 3))

		assert.Equal(t, []uint8{1, 1, 0, 0}, tab.MeasurementRecord())
	})
}

func TestTableauNoise(t *testing.T) {
	t.Run("certain x error flips", func(t *testing.T) {
		tab := newTestTableau(t, 1)

		inst := m.NewInstruction("X_ERROR", 0)
		inst.Args = []float64{1.0}
		tab.mustDo(t, inst)
		tab.mustDo(t, m.NewInstruction("M", 0))

		assert.Equal(t, []uint8{1}, tab.MeasurementRecord())
	})

	t.Run("zero probability is a no-op", func(t *testing.T) {
		tab := newTestTableau(t, 1)

		inst := m.NewInstruction("X_ERROR", 0)
		inst.Args = []float64{0.0}
		tab.mustDo(t, inst)
		tab.mustDo(t, m.NewInstruction("M", 0))

		assert.Equal(t, []uint8{0}, tab.MeasurementRecord())
	})

	t.Run("certain z error keeps z basis", func(t *testing.T) {
		tab := newTestTableau(t, 1)

		inst := m.NewInstruction("Z_ERROR", 0)
		inst.Args = []float64{1.0}
		tab.mustDo(t, inst)
		tab.mustDo(t, m.NewInstruction("M", 0))

		assert.Equal(t, []uint8{0}, tab.MeasurementRecord())
	})

	t.Run("half x error is roughly fair", func(t *testing.T) {
		counts := map[uint8]int{}

		for i := 0; i < 1000; i++ {
			tab := NewTableau(1, rng.New(uint64(i)))

			inst := m.NewInstruction("X_ERROR", 0)
			inst.Args = []float64{0.5}
			tab.mustDo(t, inst)
			tab.mustDo(t, m.NewInstruction("M", 0))

			counts[tab.MeasurementRecord()[0]]++
		}

		assert.Greater(t, counts[0], 400)
		assert.Greater(t, counts[1], 400)
	})

	t.Run("depolarize needs an argument", func(t *testing.T) {
		err := newTestTableau(t, 1).Do(m.NewInstruction("DEPOLARIZE1", 0))
		require.Error(t, err)
		assert.True(t, errors.Is(err, m.ErrInvalidArgument))
	})
}

func TestTableauErrors(t *testing.T) {
	tab := newTestTableau(t, 2)

	err := tab.Do(m.NewInstruction("FLUX_CAPACITOR", 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrInvalidArgument))

	err = tab.Do(m.NewInstruction("H", 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrInvalidArgument))

	err = tab.Do(m.NewInstruction("MX", 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrInvalidArgument))

	err = tab.Do(m.NewInstruction("CX", 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrInvalidArgument))
}

func TestTableauReinit(t *testing.T) {
	tab := newTestTableau(t, 1)

	tab.mustDo(t, m.NewInstruction("X", 0))
	tab.mustDo(t, m.NewInstruction("M", 0))
	require.Equal(t, []uint8{1}, tab.MeasurementRecord())

	tab.Reinit(1)

	assert.Empty(t, tab.MeasurementRecord())

	tab.mustDo(t, m.NewInstruction("M", 0))
	assert.Equal(t, []uint8{0}, tab.MeasurementRecord())
}

func TestTableauAnnotationsAreNoOps(t *testing.T) {
	tab := newTestTableau(t, 1)

	tab.mustDo(t, m.NewInstruction("TICK"))
	tab.mustDo(t, m.NewInstruction("M", 0))

	assert.Equal(t, []uint8{0}, tab.MeasurementRecord())
}
