package sarsalambda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/agent/sarsa"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/environment/blackjack"
	"github.com/samuelfneumann/gotabular/environment/gridworld"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

type fixed environment.Action

func (f fixed) SelectAction(timestep.TimeStep) environment.Action {
	return environment.Action(f)
}

func TestTracesPropagateError(t *testing.T) {
	q := table.NewActionValues()
	s0 := statekey.Descriptor{0}
	s1 := statekey.Descriptor{1}
	s2 := statekey.Descriptor{2}

	l := NewLearner(q, fixed(0), 0.5, 0.5, false)
	require.NoError(t, l.ObserveFirst(timestep.New(timestep.First, 0, 1, s0, 0)))

	// No reward on the first transition, so nothing changes but the
	// trace of (s0, 0)
	require.NoError(t, l.Observe(0, timestep.New(timestep.Mid, 0, 1, s1, 1)))
	require.NoError(t, l.Step())
	assert.Equal(t, 0.0, q.Get(s0.Key(), 0))
	assert.Equal(t, 1, l.Traces())

	// δ = 1 on the terminal transition reaches both pairs
	require.NoError(t, l.Observe(0, timestep.New(timestep.Last, 1, 1, s2, 2)))
	require.NoError(t, l.Step())
	assert.InDelta(t, 0.5, q.Get(s1.Key(), 0), 1e-12)
	assert.InDelta(t, 0.25, q.Get(s0.Key(), 0), 1e-12)

	// Only the pair of each transition is counted, not every traced pair
	assert.Equal(t, 1, q.Count(s0.Key(), 0))
	assert.Equal(t, 1, q.Count(s1.Key(), 0))

	require.NoError(t, l.EndEpisode())
	assert.Equal(t, 0, l.Traces())
}

func TestReplacingTraces(t *testing.T) {
	q := table.NewActionValues()
	s0 := statekey.Descriptor{0}

	l := NewLearner(q, fixed(0), 1.0, 1.0, true)
	require.NoError(t, l.ObserveFirst(timestep.New(timestep.First, 0, 1, s0, 0)))

	// Self loop with zero reward keeps δ = 0 while the trace is
	// replaced rather than accumulated
	for i := 1; i <= 3; i++ {
		require.NoError(t, l.Observe(0,
			timestep.New(timestep.Mid, 0, 1, s0, i)))
		require.NoError(t, l.Step())
	}
	assert.Equal(t, 1.0, l.traces.Get(s0.Key(), 0))

	require.NoError(t, l.Observe(0, timestep.New(timestep.Last, -1, 1, s0, 4)))
	require.NoError(t, l.Step())
	assert.Equal(t, -1.0, q.Get(s0.Key(), 0))
}

func TestLearnerNotObserved(t *testing.T) {
	l := NewLearner(table.NewActionValues(), fixed(0), 0.1, 0.9, false)
	assert.ErrorIs(t, l.Step(), agent.ErrNotObserved)
	assert.ErrorIs(t, l.Observe(0, timestep.TimeStep{}), agent.ErrNotObserved)
}

func TestConfig(t *testing.T) {
	c := Config{Epsilon: 0.1, LearningRate: 0.5, Lambda: 0.9}
	assert.NoError(t, c.Validate())
	assert.Equal(t, agent.EGreedySarsaLambdaTabular, c.Type())
	assert.Error(t, Config{Epsilon: 0.1, LearningRate: 0.5,
		Lambda: 1.5}.Validate())

	list := NewConfigList([]float64{0.1}, []float64{0.5},
		[]float64{0, 0.5, 0.9}, []bool{false, true},
		[]policy.Decay{policy.NoDecay}, []int{0})
	assert.Equal(t, 6, list.Len())
	assert.Equal(t, Config{Epsilon: 0.1, LearningRate: 0.5, Lambda: 0.5,
		Replacing: true}, list.At(3))
}

// run runs episodes of a on env and returns the length of the last
// episode
func run(t *testing.T, a agent.Agent, env environment.Environment,
	episodes int) int {
	t.Helper()
	var length int
	for i := 0; i < episodes; i++ {
		step, err := env.Reset()
		require.NoError(t, err)
		require.NoError(t, a.ObserveFirst(step))

		for !step.Last() {
			action := a.SelectAction(step)
			step, _, err = env.Step(action)
			require.NoError(t, err)
			require.NoError(t, a.Observe(action, step))
			require.NoError(t, a.Step())
		}
		require.NoError(t, a.EndEpisode())
		length = step.Number
	}
	return length
}

func TestZeroLambdaMatchesSarsa(t *testing.T) {
	const seed = 42
	newEnv := func() environment.Environment {
		env, err := gridworld.NewWindy(0.95, gridworld.WithStepLimit(500))
		require.NoError(t, err)
		return env
	}

	env := newEnv()
	s, err := sarsa.New(env, sarsa.Config{Epsilon: 0.1,
		LearningRate: 0.5}, seed)
	require.NoError(t, err)
	run(t, s, env, 20)

	env = newEnv()
	l, err := New(env, Config{Epsilon: 0.1, LearningRate: 0.5}, seed)
	require.NoError(t, err)
	run(t, l, env, 20)

	assert.True(t, s.Table().Equal(l.Table()))
}

func TestSarsaLambdaWindyGridWorld(t *testing.T) {
	env, err := gridworld.NewWindy(1.0, gridworld.WithStepLimit(1000))
	require.NoError(t, err)

	s, err := New(env, Config{Epsilon: 0.1, LearningRate: 0.5,
		Lambda: 0.5}, 3)
	require.NoError(t, err)
	run(t, s, env, 300)

	s.Eval()
	assert.Less(t, run(t, s, env, 1), 30)
}

func TestSarsaLambdaBootstrapsFromActionTaken(t *testing.T) {
	env := blackjack.New(11)
	s, err := New(env, Config{Epsilon: 0.5, LearningRate: 0.1,
		Lambda: 0.8}, 11)
	require.NoError(t, err)
	player := blackjack.NewPlayer(s)

	var checked, forced int
	for i := 0; i < 500; i++ {
		step, err := env.Reset()
		require.NoError(t, err)
		require.NoError(t, player.ObserveFirst(step))

		action := player.SelectAction(step)
		for !step.Last() {
			step, _, err = env.Step(action)
			require.NoError(t, err)
			require.NoError(t, player.Observe(action, step))
			require.NoError(t, player.Step())
			if step.Last() {
				break
			}

			// The action cached by the update must be the one taken
			require.True(t, s.Learner.hasNext)
			cached := s.Learner.next
			action = player.SelectAction(step)
			require.Equal(t, action, cached, "step %d of game %d",
				step.Number, i)

			checked++
			if _, ok := blackjack.Forced(step.Observation); ok {
				forced++
			}
		}
		require.NoError(t, player.EndEpisode())
	}
	assert.Greater(t, checked, 0)
	assert.Greater(t, forced, 0)
}
