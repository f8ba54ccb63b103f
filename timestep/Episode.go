package timestep

import (
	"github.com/samuelfneumann/gotabular/statekey"
)

// Pair is a visited state together with the action taken in it. The
// action is stored as an index into the environment's action spec.
type Pair struct {
	State  statekey.Key
	Action int
}

// Episode is the sequence of (state, action) pairs visited during a
// single episode, in order, together with the reward received at
// termination
type Episode struct {
	Pairs  []Pair
	Reward float64
	Done   bool
}

// Append records a visited pair
func (e *Episode) Append(s statekey.Key, a int) {
	e.Pairs = append(e.Pairs, Pair{State: s, Action: a})
}

// Len returns the number of pairs in the episode
func (e *Episode) Len() int {
	return len(e.Pairs)
}

// Finish marks the episode as terminated with the argument reward
func (e *Episode) Finish(r float64) {
	e.Reward = r
	e.Done = true
}

// Reset clears the episode so it can be reused
func (e *Episode) Reset() {
	e.Pairs = e.Pairs[:0]
	e.Reward = 0
	e.Done = false
}
