package envconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/environment/blackjack"
	"github.com/samuelfneumann/gotabular/environment/gridworld"
)

func TestCreate(t *testing.T) {
	e, err := NewConfig(WindyGridWorld, 100, 1, false).Create(0)
	require.NoError(t, err)
	assert.IsType(t, &gridworld.GridWorld{}, e)
	assert.Equal(t, 4, e.ActionSpec().Len())

	e, err = NewConfig(CliffWalk, 0, 0.9, true).Create(0)
	require.NoError(t, err)
	assert.Equal(t, 0.9, e.Discount())

	e, err = NewConfig(Blackjack, 0, 1, false).Create(4)
	require.NoError(t, err)
	assert.IsType(t, &blackjack.Blackjack{}, e)
}

func TestValidate(t *testing.T) {
	assert.Error(t, NewConfig("MountainCar", 0, 1, false).Validate())
	assert.Error(t, NewConfig(CliffWalk, 0, 1.1, false).Validate())
	assert.Error(t, NewConfig(Blackjack, 0, 0.9, false).Validate())

	_, err := NewConfig("MountainCar", 0, 1, false).Create(0)
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	c := NewConfig(CliffWalk, 500, 1, true)
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var out Config
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, c, out)
}

func TestRewardsAtEnd(t *testing.T) {
	assert.True(t, NewConfig(Blackjack, 0, 1, false).RewardsAtEnd())
	assert.False(t, NewConfig(WindyGridWorld, 0, 1, false).RewardsAtEnd())
	assert.False(t, NewConfig(CliffWalk, 0, 1, false).RewardsAtEnd())
}

func TestRandomStart(t *testing.T) {
	c := NewConfig(WindyGridWorld, 100, 1, false)
	c.RandomStart = true
	e, err := c.Create(5)
	require.NoError(t, err)

	starts := make(map[string]bool)
	for i := 0; i < 50; i++ {
		step, err := e.Reset()
		require.NoError(t, err)
		starts[string(step.Key())] = true
	}
	assert.Greater(t, len(starts), 1)

	// Fixed starts are the default and are left out of the JSON
	data, err := json.Marshal(NewConfig(CliffWalk, 0, 1, false))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "RandomStart")
}
