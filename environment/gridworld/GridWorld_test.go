package gridworld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

func stepAll(t *testing.T, g *GridWorld, actions ...environment.Action) timestep.TimeStep {
	t.Helper()
	var step timestep.TimeStep
	for _, a := range actions {
		var err error
		step, _, err = g.Step(a)
		require.NoError(t, err)
	}
	return step
}

func TestBordersClip(t *testing.T) {
	task := NewGoal([]Cell{{2, 2}}, -1)
	g, err := New(3, 3, Cell{0, 0}, task, 1.0)
	require.NoError(t, err)

	step, err := g.Reset()
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, statekey.Make(0, 0), step.Key())

	step = stepAll(t, g, Left, Down)
	assert.Equal(t, statekey.Make(0, 0), step.Key())
	assert.Equal(t, -1.0, step.Reward)
	assert.Equal(t, 2, step.Number)

	step = stepAll(t, g, Right, Up, Right)
	assert.False(t, step.Last())
	step = stepAll(t, g, Up)
	assert.True(t, step.Last())
	assert.Equal(t, timestep.TerminalStateReached, step.EndType)
	assert.Equal(t, statekey.Make(2, 2), step.Key())
}

func TestStepErrors(t *testing.T) {
	g, err := New(2, 1, Cell{0, 0}, NewGoal([]Cell{{1, 0}}, -1), 1.0)
	require.NoError(t, err)

	_, _, err = g.Step(Right)
	assert.ErrorIs(t, err, environment.ErrEpisodeOver)

	_, err = g.Reset()
	require.NoError(t, err)
	_, _, err = g.Step(7)
	assert.ErrorIs(t, err, environment.ErrInvalidAction)

	_, done, err := g.Step(Right)
	require.NoError(t, err)
	assert.True(t, done)

	_, _, err = g.Step(Right)
	assert.ErrorIs(t, err, environment.ErrEpisodeOver)
}

func TestWindyGridWorld(t *testing.T) {
	g, err := NewWindy(1.0)
	require.NoError(t, err)
	_, err = g.Reset()
	require.NoError(t, err)

	// Columns 0-2 have no wind
	step := stepAll(t, g, Right, Right, Right)
	assert.Equal(t, statekey.Make(3, 3), step.Key())

	// Wind of column 3 pushes the agent up one cell
	step = stepAll(t, g, Right)
	assert.Equal(t, statekey.Make(4, 4), step.Key())

	// Optimal path reaches the goal in 15 steps
	_, err = g.Reset()
	require.NoError(t, err)
	path := []environment.Action{
		Right, Right, Right, Right, Right, Right, Right, Right, Right,
		Down, Down, Down, Down, Left, Left,
	}
	step = stepAll(t, g, path...)
	assert.True(t, step.Last())
	assert.Equal(t, 15, step.Number)
	assert.Equal(t, statekey.Make(WindyGoal.X, WindyGoal.Y), step.Key())
}

func TestCliffWalk(t *testing.T) {
	g, err := NewCliffWalk(1.0, false)
	require.NoError(t, err)
	_, err = g.Reset()
	require.NoError(t, err)

	step := stepAll(t, g, Right)
	assert.True(t, step.Last())
	assert.Equal(t, CliffReward, step.Reward)

	reset, err := NewCliffWalk(1.0, true)
	require.NoError(t, err)
	_, err = reset.Reset()
	require.NoError(t, err)
	step = stepAll(t, reset, Up, Right, Down)
	assert.False(t, step.Last())
	assert.Equal(t, CliffReward, step.Reward)
	assert.Equal(t, statekey.Make(0, 0), step.Key())
}

func TestWallsAndStepLimit(t *testing.T) {
	g, err := New(3, 1, Cell{0, 0}, NewGoal([]Cell{{2, 0}}, -1), 0.9,
		WithWalls(Cell{1, 0}), WithStepLimit(3))
	require.NoError(t, err)
	_, err = g.Reset()
	require.NoError(t, err)

	step := stepAll(t, g, Right)
	assert.Equal(t, statekey.Make(0, 0), step.Key())
	assert.Equal(t, 0.9, step.Discount)

	step = stepAll(t, g, Right, Right)
	assert.True(t, step.Last())
	assert.True(t, step.TimedOut())

	_, err = New(3, 1, Cell{0, 0}, NewGoal(nil, -1), 1, WithWalls(Cell{5, 5}))
	assert.Error(t, err)
	_, err = New(3, 1, Cell{0, 0}, NewGoal(nil, -1), 1, WithWind([]int{1}))
	assert.Error(t, err)
	_, err = New(3, 1, Cell{4, 0}, NewGoal(nil, -1), 1)
	assert.Error(t, err)
}

func TestRenderPolicy(t *testing.T) {
	g, err := New(3, 2, Cell{0, 0}, NewGoal([]Cell{{2, 1}}, -1), 1.0,
		WithWalls(Cell{1, 1}))
	require.NoError(t, err)

	q := table.NewActionValues()
	q.Set(StateOf(Cell{0, 0}).Key(), Right, 1)
	q.Set(StateOf(Cell{1, 0}).Key(), Right, 1)
	q.Set(StateOf(Cell{2, 0}).Key(), Up, 1)
	q.Set(StateOf(Cell{0, 1}).Key(), Down, 1)

	expected := "v # G\n> > ^\n"
	assert.Equal(t, expected, g.RenderPolicy(q))
}

func TestStartAnywhere(t *testing.T) {
	wall := Cell{5, 2}
	g, err := NewCliffWalk(1.0, false, WithWalls(wall))
	require.NoError(t, err)

	open := g.OpenCells()
	assert.Len(t, open, CliffColumns*CliffRows-len(CliffCells())-2)
	assert.Contains(t, open, CliffStart)
	assert.NotContains(t, open, wall)
	assert.NotContains(t, open, CliffGoal)
	for _, c := range CliffCells() {
		assert.NotContains(t, open, c)
	}

	g.StartAnywhere(9)
	starts := make(map[Cell]bool)
	for i := 0; i < 200; i++ {
		step, err := g.Reset()
		require.NoError(t, err)
		c, err := toCell(step.Observation)
		require.NoError(t, err)
		assert.Contains(t, open, c)
		starts[c] = true
	}
	assert.Greater(t, len(starts), 1)
}
