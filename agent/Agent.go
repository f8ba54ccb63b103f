// Package agent defines an agent interface
package agent

import (
	"errors"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// ErrNotObserved is returned when a Learner is asked to learn from a
// transition before observing the first TimeStep of an episode
var ErrNotObserved = errors.New("no first timestep observed")

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns action values, and a
// Policy which chooses actions in each state. The Policy chooses which
// actions are taken, and the Learner uses these actions to update the
// action values the Policy reads.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how action
// values are updated.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action environment.Action, nextObs timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode() error
}

// TdErrorer is a Learner that can return the TdError of some transition
type TdErrorer interface {
	Learner

	// TdError returns the TD error on a transition
	TdError(t environment.Transition) float64
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. For a given agent, the
// Policy and Learner should share the same table so that any changes
// the learner makes are reflected in the actions the Policy chooses
type Policy interface {
	SelectAction(t timestep.TimeStep) environment.Action
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// Tabular is an Agent which stores its action values in a table
type Tabular interface {
	Agent

	// Table returns the table of action values of the agent
	Table() *table.ActionValues

	// Epsilon returns the current exploration rate of the agent
	Epsilon() float64

	// Clear forgets everything the agent has learned
	Clear()
}

// Sampler samples actions in a state
type Sampler interface {
	SelectAction(timestep.TimeStep) environment.Action
}

// Restrictable is an Agent which samples the actions it bootstraps
// from itself, and whose sampling can be restricted by a wrapping
// policy so that those actions are the ones actually taken
type Restrictable interface {
	Agent

	// Restrict replaces the Sampler of the agent with restrict applied
	// to it
	Restrict(restrict func(Sampler) Sampler)
}

// Wrapper is an Agent which wraps another Agent
type Wrapper interface {
	Agent
	Unwrap() Agent
}

// Replayer is a Learner which can learn from stored transitions after
// the episode they were observed in has ended
type Replayer interface {
	Replay(environment.Transition) error
}

// AsTabular returns the first Tabular agent found by unwrapping a
func AsTabular(a Agent) (Tabular, bool) {
	return unwrap[Tabular](a)
}

// AsReplayer returns the first Replayer found by unwrapping a
func AsReplayer(a Agent) (Replayer, bool) {
	return unwrap[Replayer](a)
}

func unwrap[T any](a Agent) (T, bool) {
	var zero T
	for a != nil {
		if t, ok := a.(T); ok {
			return t, true
		}
		w, ok := a.(Wrapper)
		if !ok {
			return zero, false
		}
		a = w.Unwrap()
	}
	return zero, false
}
