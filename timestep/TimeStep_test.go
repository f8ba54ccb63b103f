package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samuelfneumann/gotabular/statekey"
)

func TestNew(t *testing.T) {
	obs := statekey.Descriptor{0, 3}
	step := New(First, 0, 1.0, obs, 0)
	assert.True(t, step.First())
	assert.False(t, step.Last())
	assert.Equal(t, Running, step.EndType)
	assert.Equal(t, statekey.Make(0, 3), step.Key())

	last := New(Last, -1, 1.0, obs, 4)
	assert.True(t, last.Last())
	assert.Equal(t, TerminalStateReached, last.EndType)
	assert.False(t, last.TimedOut())

	last.EndType = Timeout
	assert.True(t, last.TimedOut())
}

func TestStepTypeString(t *testing.T) {
	assert.Equal(t, "First", First.String())
	assert.Equal(t, "Mid", Mid.String())
	assert.Equal(t, "Last", Last.String())
	assert.Equal(t, "Timeout", Timeout.String())
}
