package sarsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/environment/blackjack"
	"github.com/samuelfneumann/gotabular/environment/gridworld"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// fixed always selects the same action
type fixed environment.Action

func (f fixed) SelectAction(timestep.TimeStep) environment.Action {
	return environment.Action(f)
}

func TestLearnerUpdate(t *testing.T) {
	q := table.NewActionValues()
	s0, s1 := statekey.Descriptor{0}, statekey.Descriptor{1}
	q.Set(s1.Key(), 1, 2.0)
	q.Set(s1.Key(), 0, 10.0)

	l := NewLearner(q, fixed(1), 0.5)
	require.NoError(t, l.ObserveFirst(timestep.New(timestep.First, 0, 0.9, s0, 0)))
	require.NoError(t, l.Observe(0, timestep.New(timestep.Mid, -1, 0.9, s1, 1)))
	require.NoError(t, l.Step())

	// target = -1 + 0.9 * Q(s1, 1)
	assert.InDelta(t, 0.5*0.8, q.Get(s0.Key(), 0), 1e-12)
	assert.Equal(t, 1, q.Count(s0.Key(), 0), "updates are counted")

	a, ok := l.nextAction(timestep.New(timestep.Mid, -1, 0.9, s1, 1))
	assert.True(t, ok)
	assert.Equal(t, environment.Action(1), a)

	_, ok = l.nextAction(timestep.New(timestep.Mid, -1, 0.9, s1, 1))
	assert.False(t, ok, "cached action should only be returned once")
}

func TestLearnerTerminal(t *testing.T) {
	q := table.NewActionValues()
	s0, s1 := statekey.Descriptor{0}, statekey.Descriptor{1}
	q.Set(s1.Key(), 0, 100.0)

	l := NewLearner(q, fixed(0), 1.0)
	require.NoError(t, l.ObserveFirst(timestep.New(timestep.First, 0, 1, s0, 0)))
	require.NoError(t, l.Observe(1, timestep.New(timestep.Last, -1, 1, s1, 1)))
	require.NoError(t, l.Step())
	assert.Equal(t, -1.0, q.Get(s0.Key(), 1))

	_, ok := l.nextAction(timestep.New(timestep.Last, -1, 1, s1, 1))
	assert.False(t, ok)
}

func TestLearnerNotObserved(t *testing.T) {
	l := NewLearner(table.NewActionValues(), fixed(0), 0.1)
	assert.ErrorIs(t, l.Step(), agent.ErrNotObserved)
	assert.ErrorIs(t, l.Observe(0, timestep.TimeStep{}), agent.ErrNotObserved)
}

func TestConfig(t *testing.T) {
	c := Config{Epsilon: 0.1, LearningRate: 0.5}
	assert.NoError(t, c.Validate())
	assert.Equal(t, agent.EGreedySarsaTabular, c.Type())

	assert.Error(t, Config{Epsilon: -1, LearningRate: 0.5}.Validate())
	assert.Error(t, Config{Epsilon: 0.1, LearningRate: 0}.Validate())
	assert.Error(t, Config{Epsilon: 0.1, LearningRate: 0.5,
		Decay: policy.LinearDecay}.Validate())

	list := NewConfigList([]float64{0.1, 0.2}, []float64{0.5, 0.1, 0.01},
		[]policy.Decay{policy.NoDecay}, []int{0})
	assert.Equal(t, 6, list.Len())
	assert.Equal(t, Config{Epsilon: 0.1, LearningRate: 0.1},
		list.At(1))
	assert.Equal(t, Config{Epsilon: 0.2, LearningRate: 0.5},
		list.At(3))
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

func TestSarsaWindyGridWorld(t *testing.T) {
	env, err := gridworld.NewWindy(1.0, gridworld.WithStepLimit(1000))
	require.NoError(t, err)

	s, err := New(env, Config{Epsilon: 0.1, LearningRate: 0.5}, 1)
	require.NoError(t, err)
	run(t, s, env, 300)

	s.Eval()
	length := run(t, s, env, 1)
	assert.Less(t, length, 30)
}

func TestSarsaDeterministic(t *testing.T) {
	tables := make([]*table.ActionValues, 2)
	for i := range tables {
		env, err := gridworld.NewCliffWalk(1.0, false,
			gridworld.WithStepLimit(200))
		require.NoError(t, err)

		s, err := New(env, Config{Epsilon: 0.2, LearningRate: 0.5,
			Decay: policy.InverseDecay}, 2021)
		require.NoError(t, err)
		run(t, s, env, 50)
		tables[i] = s.Table()
	}
	assert.True(t, tables[0].Equal(tables[1]))
	assert.Greater(t, tables[0].Len(), 0)
}

func TestSarsaClear(t *testing.T) {
	env, err := gridworld.NewWindy(1.0, gridworld.WithStepLimit(100))
	require.NoError(t, err)
	s, err := New(env, Config{Epsilon: 0.5, LearningRate: 0.5,
		Decay: policy.InverseDecay}, 5)
	require.NoError(t, err)

	run(t, s, env, 3)
	assert.Less(t, s.Epsilon(), 0.5)
	s.Clear()
	assert.Equal(t, 0, s.Table().Len())
	assert.Equal(t, 0.5, s.Epsilon())
}

func TestSarsaBootstrapsFromActionTaken(t *testing.T) {
	env := blackjack.New(11)
	s, err := New(env, Config{Epsilon: 0.5, LearningRate: 0.1}, 11)
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
