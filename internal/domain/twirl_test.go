package domain

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	m "github.com/inmzhang/leaky/internal/model"
)

func TestProjectorSlice(t *testing.T) {
	tests := []struct {
		numLevel int
		ps       projectStatus
		want     []int
	}{
		{2, projectStatus{{0}}, []int{0}},
		{2, projectStatus{{0, 1}}, []int{0, 1}},
		{3, projectStatus{{2}}, []int{2}},
		{3, projectStatus{{0, 1}, {2}}, []int{2, 5}},
		{3, projectStatus{{2}, {2}}, []int{8}},
		{4, projectStatus{{0, 1}, {0, 1}}, []int{0, 1, 4, 5}},
		{4, projectStatus{{0, 1}, {2}}, []int{2, 6}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, projectorSlice(tt.numLevel, tt.ps))
	}
}

func scaledPauli(p float64, idx int) *mat.CDense {
	out := mat.NewCDense(2, 2, nil)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out.Set(i, j, complex(math.Sqrt(p), 0)*pauliMatrices[idx].At(i, j))
		}
	}

	return out
}

func TestTwirlSingleQubitDepolarizeChannel(t *testing.T) {
	probs := []float64{0.1, 0.2, 0.3, 0.4}

	kraus := make([]*mat.CDense, len(probs))
	for i, p := range probs {
		kraus[i] = scaledPauli(p, i)
	}

	channel, err := GeneralizedPauliTwirling(kraus, 1, 2, true)
	require.NoError(t, err)

	for i, p := range probs {
		pauli := string(m.PauliChars[i])
		assert.InDelta(t, p, channel.ProbFromTo(m.ParseStatus("0"), m.ParseStatus("0"), pauli), 1e-9, pauli)
	}
}

func TestTwirlAmplitudeDampingChannel(t *testing.T) {
	k := 0.02

	kraus := []*mat.CDense{
		mat.NewCDense(2, 2, []complex128{1, 0, 0, complex(math.Sqrt(1-k), 0)}),
		mat.NewCDense(2, 2, []complex128{0, complex(math.Sqrt(k), 0), 0, 0}),
	}

	channel, err := GeneralizedPauliTwirling(kraus, 1, 2, true)
	require.NoError(t, err)

	expected := map[string]float64{
		"I": math.Pow((1+math.Sqrt(1-k))/2, 2),
		"X": k / 4,
		"Y": k / 4,
		"Z": math.Pow((1-math.Sqrt(1-k))/2, 2),
	}

	for pauli, want := range expected {
		assert.InDelta(t, want, channel.ProbFromTo(m.ParseStatus("0"), m.ParseStatus("0"), pauli), 1e-9, pauli)
	}
}

func TestTwirlFourLevelUnitary(t *testing.T) {
	theta := math.Pi / 6
	c := complex(math.Cos(theta), 0)
	s := complex(math.Sin(theta), 0)

	u := mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	})

	channel, err := GeneralizedPauliTwirling([]*mat.CDense{u}, 1, 4, true)
	require.NoError(t, err)

	half := theta / 2
	expected := []struct {
		from, to, pauli string
		want            float64
	}{
		{"0", "0", "I", math.Pow(math.Cos(half), 4)},
		{"0", "0", "Z", math.Pow(math.Sin(half), 4)},
		{"0", "1", "I", math.Pow(math.Sin(theta), 2) / 2},
		{"1", "0", "I", math.Pow(math.Sin(theta), 2)},
	}

	for _, tt := range expected {
		got := channel.ProbFromTo(m.ParseStatus(tt.from), m.ParseStatus(tt.to), tt.pauli)
		assert.InDelta(t, tt.want, got, 1e-9, "%s -> %s (%s)", tt.from, tt.to, tt.pauli)
	}
}

func TestTwirlTwoQubitDepolarizeChannel(t *testing.T) {
	probs := []float64{
		0.02, 0.03, 0.04, 0.05,
		0.06, 0.07, 0.08, 0.09,
		0.10, 0.11, 0.04, 0.05,
		0.06, 0.07, 0.08, 0.05,
	}

	total := 0.0
	for _, p := range probs {
		total += p
	}

	require.InDelta(t, 1.0, total, 1e-12)

	kraus := make([]*mat.CDense, len(probs))
	for i, p := range probs {
		op := kronCDense(pauliMatrices[i>>2], pauliMatrices[i&3])

		scaled := mat.NewCDense(4, 4, nil)
		for r := 0; r < 4; r++ {
			for col := 0; col < 4; col++ {
				scaled.Set(r, col, complex(math.Sqrt(p), 0)*op.At(r, col))
			}
		}

		kraus[i] = scaled
	}

	channel, err := GeneralizedPauliTwirling(kraus, 2, 2, true)
	require.NoError(t, err)

	for i, p := range probs {
		pauli := string(m.PauliChars[i>>2]) + string(m.PauliChars[i&3])
		got := channel.ProbFromTo(m.ParseStatus("00"), m.ParseStatus("00"), pauli)
		assert.InDelta(t, p, got, 1e-9, pauli)
	}
}

func TestTwirlRejectsBadInput(t *testing.T) {
	_, err := GeneralizedPauliTwirling(nil, 3, 2, false)
	assert.Error(t, err)

	_, err = GeneralizedPauliTwirling(nil, 1, 1, false)
	assert.Error(t, err)

	_, err = GeneralizedPauliTwirling([]*mat.CDense{mat.NewCDense(3, 3, nil)}, 1, 2, false)
	assert.Error(t, err)
}

func TestKronAndTrace(t *testing.T) {
	x := pauliMatrices[1]
	z := pauliMatrices[3]

	xz := kronCDense(x, z)
	r, c := xz.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 4, c)
	assert.Equal(t, complex128(1), xz.At(0, 2))
	assert.Equal(t, complex128(-1), xz.At(1, 3))

	// tr(X * X) = 2, tr(X * Z) = 0.
	assert.InDelta(t, 2, real(traceProduct(x, x)), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(traceProduct(x, z)), 1e-12)
}
