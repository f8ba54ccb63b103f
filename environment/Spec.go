package environment

import (
	"fmt"
	"strconv"
)

// Action is a discrete action, enumerated as (0, 1, 2, ... N-1)
type Action int

// ActionSpec describes the ordered, enumerable set of actions of an
// environment. Each action has a display name.
type ActionSpec struct {
	Names []string
}

// NewActionSpec constructs a new action specification with one
// action per name. NewActionSpec panics if no names are given.
func NewActionSpec(names ...string) ActionSpec {
	if len(names) == 0 {
		panic("newActionSpec: action set must not be empty")
	}
	return ActionSpec{Names: names}
}

// Len returns the number of actions
func (a ActionSpec) Len() int {
	return len(a.Names)
}

// Actions returns the enumerated actions in order
func (a ActionSpec) Actions() []Action {
	actions := make([]Action, len(a.Names))
	for i := range actions {
		actions[i] = Action(i)
	}
	return actions
}

// Contains returns whether the action is in the specification
func (a ActionSpec) Contains(action Action) bool {
	return action >= 0 && int(action) < len(a.Names)
}

// Name returns the display name of an action
func (a ActionSpec) Name(action Action) string {
	if !a.Contains(action) {
		return strconv.Itoa(int(action))
	}
	return a.Names[action]
}

// Parse returns the action with the argument display name
func (a ActionSpec) Parse(name string) (Action, error) {
	for i, n := range a.Names {
		if n == name {
			return Action(i), nil
		}
	}
	return -1, fmt.Errorf("parse: %w: no action named %q", ErrInvalidAction,
		name)
}
