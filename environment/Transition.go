package environment

import (
	"fmt"

	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/timestep"
)

// Transition is a single (s, a, r, s') transition between two
// consecutive TimeSteps
type Transition struct {
	State     statekey.Descriptor
	Action    Action
	Reward    float64
	Discount  float64
	NextState statekey.Descriptor
	Last      bool

	// Terminal is false when the episode was cut off by a step limit,
	// in which case the next state still has a value
	Terminal bool
}

// NewTransition creates the Transition from step to next by taking
// action
func NewTransition(step timestep.TimeStep, action Action,
	next timestep.TimeStep) Transition {
	return Transition{
		State:     step.Observation,
		Action:    action,
		Reward:    next.Reward,
		Discount:  next.Discount,
		NextState: next.Observation,
		Last:      next.Last(),
		Terminal:  next.Last() && !next.TimedOut(),
	}
}

func (t Transition) String() string {
	return fmt.Sprintf("(%v, %d, %.2f, %v)", t.State, t.Action, t.Reward,
		t.NextState)
}
