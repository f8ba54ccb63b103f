package dp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestGridTransitions(t *testing.T) {
	m, err := NewGrid(1)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Next(5, North))
	assert.Equal(t, 6, m.Next(5, East))
	assert.Equal(t, 9, m.Next(5, South))
	assert.Equal(t, 4, m.Next(5, West))
	assert.Equal(t, 3, m.Next(3, North))
	assert.Equal(t, 3, m.Next(3, East))
	assert.Equal(t, 0, m.Next(0, East), "terminal states absorb")
	assert.Equal(t, -1.0, m.Reward(5, North))
	assert.Equal(t, 0.0, m.Reward(15, West))
}

func TestOneSweep(t *testing.T) {
	m, err := NewGrid(1)
	require.NoError(t, err)

	v := m.Evaluate(m.Zeros(), m.Uniform())

	// v(5) = Σ 1/4 (-1 + v0(s')) with v0 = 0
	assert.InDelta(t, -1.0, v.AtVec(5), 1e-9)
	assert.Equal(t, 0.0, v.AtVec(0))
	assert.Equal(t, 0.0, v.AtVec(15))
}

func TestUniformEvaluation(t *testing.T) {
	m, err := NewGrid(1)
	require.NoError(t, err)

	v := m.EvaluateN(m.Zeros(), m.Uniform(), 1000)
	want := []float64{
		0, -14, -20, -22,
		-14, -18, -20, -20,
		-20, -20, -18, -14,
		-22, -20, -14, 0,
	}
	assert.True(t, floats.EqualApprox(want, v.RawVector().Data, 1e-6),
		RenderValues(v, GridSize))
}

var optimal = []float64{
	0, -1, -2, -3,
	-1, -2, -3, -2,
	-2, -3, -2, -1,
	-3, -2, -1, 0,
}

func TestValueIterate(t *testing.T) {
	m, err := NewGrid(1)
	require.NoError(t, err)

	v := m.ValueIterate(4)
	assert.Equal(t, optimal, v.RawVector().Data)

	pi := m.Improve(v)
	assert.Equal(t, 1.0, pi.At(1, int(West)))
	assert.Equal(t, 1.0, pi.At(11, int(South)))
	assert.Equal(t, 0.5, pi.At(5, int(North)))
	assert.Equal(t, 0.5, pi.At(5, int(West)))
	assert.Contains(t, m.RenderPolicy(pi), "State 01: w (1.00)")
}

func TestPolicyIterate(t *testing.T) {
	m, err := NewGrid(1)
	require.NoError(t, err)

	v, pi := m.PolicyIterate(1, 100)
	assert.True(t, floats.EqualApprox(optimal, v.RawVector().Data, 1e-9),
		RenderValues(v, GridSize))
	assert.Equal(t, 1.0, pi.At(1, int(West)))

	// Policies are distributions over actions
	r, _ := pi.Dims()
	for s := 0; s < r; s++ {
		assert.InDelta(t, 1.0, mat.Sum(pi.RowView(s)), 1e-12)
	}
}

func TestNewMDPErrors(t *testing.T) {
	m, err := NewGrid(1)
	require.NoError(t, err)

	_, err = NewMDP(2, m.ActionSpec(), 1.5, nil, nil)
	assert.Error(t, err)
	_, err = NewMDP(2, m.ActionSpec(), 1, nil, nil, 4)
	assert.Error(t, err)
}
