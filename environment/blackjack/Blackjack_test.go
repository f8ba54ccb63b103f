package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/montecarlo"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		hand       Hand
		points     int
		specialAce bool
	}{
		{Hand{Ace, King}, 21, true},
		{Hand{Ace, Ace, Nine}, 21, true},
		{Hand{Ace, Ace}, 12, true},
		{Hand{Ace, Nine, King}, 20, false},
		{Hand{Jack, Queen, Two}, 22, false},
		{Hand{Five, Six}, 11, false},
		{Hand{}, 0, false},
	}

	for _, test := range tests {
		points, specialAce := test.hand.Points()
		assert.Equal(t, test.points, points, test.hand.String())
		assert.Equal(t, test.specialAce, specialAce, test.hand.String())
	}
}

func TestCardValue(t *testing.T) {
	assert.Equal(t, 1, Ace.Value())
	assert.Equal(t, 7, Seven.Value())
	assert.Equal(t, 10, Queen.Value())
	assert.Panics(t, func() { Card("10").Value() })
	assert.Len(t, Deck(), 48)
}

func TestArenaReshuffles(t *testing.T) {
	a := NewArena(1)
	var h Hand
	require.NoError(t, a.Deal(&h, 48))
	assert.Equal(t, 0, a.Pool())

	a.Recycle(&h)
	assert.Empty(t, h)
	assert.Equal(t, 48, a.Discarded())

	require.NoError(t, a.Deal(&h, 1))
	assert.Equal(t, 47, a.Pool())
	assert.Equal(t, 0, a.Discarded())
}

func TestArenaExhausted(t *testing.T) {
	a := NewArena(1)
	var h, kept Hand
	require.NoError(t, a.Deal(&kept, 30))
	require.NoError(t, a.Deal(&h, 18))
	a.Recycle(&h)

	err := a.Deal(&h, 1)
	assert.ErrorIs(t, err, ErrDeckExhausted)
}

func TestScore(t *testing.T) {
	assert.Equal(t, Win, Score(Hand{King, Nine}, Hand{King, Eight}))
	assert.Equal(t, Draw, Score(Hand{King, Nine}, Hand{Jack, Nine}))
	assert.Equal(t, Loss, Score(Hand{King, Seven}, Hand{Jack, Nine}))
	assert.Equal(t, Win, Score(Hand{King, Seven}, Hand{Jack, Nine, Five}))
	assert.Equal(t, Loss, Score(Hand{King, Seven, Five},
		Hand{Jack, Nine, Five}))
}

func TestDealerPolicy(t *testing.T) {
	assert.Equal(t, Bid, DealerPolicy(Hand{King, Six}))
	assert.Equal(t, Stop, DealerPolicy(Hand{King, Seven}))
	assert.Equal(t, Stop, DealerPolicy(Hand{Ace, Six}))
}

func TestEpisode(t *testing.T) {
	b := New(3)
	_, _, err := b.Step(Stop)
	assert.ErrorIs(t, err, environment.ErrEpisodeOver)

	for i := 0; i < 200; i++ {
		step, err := b.Reset()
		require.NoError(t, err)
		require.True(t, step.First())
		require.Equal(t, 3, step.Observation.Len())

		_, _, err = b.Step(2)
		require.ErrorIs(t, err, environment.ErrInvalidAction)

		for !step.Last() {
			points := step.Observation.Int(1)
			action := Bid
			if points >= 17 {
				action = Stop
			}
			step, _, err = b.Step(action)
			require.NoError(t, err)
			if !step.Last() {
				require.Equal(t, 0.0, step.Reward)
			}
		}
		assert.Equal(t, b.Outcome().Reward(), step.Reward)
		assert.NotEqual(t, Undecided, b.Outcome())

		player, _ := b.Hands()
		if player.Bust() {
			assert.Equal(t, Loss, b.Outcome())
		}

		_, _, err = b.Step(Bid)
		require.ErrorIs(t, err, environment.ErrEpisodeOver)
	}
}

func TestForced(t *testing.T) {
	a, ok := Forced(StateOf(5, 21, true))
	assert.True(t, ok)
	assert.Equal(t, Stop, a)

	a, ok = Forced(StateOf(5, 11, false))
	assert.True(t, ok)
	assert.Equal(t, Bid, a)

	_, ok = Forced(StateOf(5, 15, false))
	assert.False(t, ok)
}

// stops always stops
type stops struct{ agent.Agent }

func (stops) SelectAction(timestep.TimeStep) environment.Action { return Stop }

func TestPlayerForcesActions(t *testing.T) {
	p := NewPlayer(stops{})
	low := timestep.New(timestep.First, 0, 1, StateOf(3, 8, false), 0)
	mid := timestep.New(timestep.First, 0, 1, StateOf(3, 15, false), 0)
	assert.Equal(t, Bid, p.SelectAction(low))
	assert.Equal(t, Stop, p.SelectAction(mid))
	assert.Equal(t, stops{}, p.Unwrap())

	var f FixedPlayer
	assert.Equal(t, Bid, f.SelectAction(mid))
	assert.Equal(t, Stop, f.SelectAction(timestep.New(timestep.Mid, 0, 1,
		StateOf(3, 20, false), 1)))
}

func play(t *testing.T, a agent.Agent, b *Blackjack, games int) Record {
	t.Helper()
	var r Record
	for i := 0; i < games; i++ {
		step, err := b.Reset()
		require.NoError(t, err)
		require.NoError(t, a.ObserveFirst(step))
		for !step.Last() {
			action := a.SelectAction(step)
			step, _, err = b.Step(action)
			require.NoError(t, err)
			require.NoError(t, a.Observe(action, step))
			require.NoError(t, a.Step())
		}
		require.NoError(t, a.EndEpisode())
		r.Add(b.Outcome())
	}
	return r
}

func TestMonteCarloControl(t *testing.T) {
	b := New(2021)
	mc, err := montecarlo.New(b, montecarlo.Config{Epsilon: 1,
		Decay: policy.LogInverseDecay}, 2021)
	require.NoError(t, err)

	r := play(t, NewPlayer(mc), b, 2000)
	assert.Equal(t, 2000, r.Games())

	q := mc.Table()
	assert.Greater(t, q.Len(), 0)

	// Every estimate is an average of rewards in [-1, 1]
	q.Range(func(k table.Key, e table.Entry) bool {
		assert.True(t, e.Value >= -1 && e.Value <= 1, k.String())
		return true
	})

	// Standing on 20 beats the dealer far more often than not
	s := StateOf(10, 20, false).Key()
	if q.Count(s, Stop) > 20 {
		assert.Greater(t, q.Get(s, Stop), 0.0)
	}

	assert.Contains(t, RenderPolicy(q, false), "Points")
}

func TestMonteCarloPrediction(t *testing.T) {
	b := New(7)
	p := montecarlo.NewPrediction(FixedPlayer{})
	play(t, p, b, 500)

	v := p.Values()
	assert.Greater(t, v.Len(), 0)
	for _, s := range v.States() {
		assert.True(t, v.Get(s) >= -1 && v.Get(s) <= 1)
	}
	assert.Contains(t, RenderValues(v, true), "Points")
}

func TestStateKey(t *testing.T) {
	assert.Equal(t, statekey.Key("10_20_False"), StateOf(10, 20, false).Key())
}
