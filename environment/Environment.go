// Package environment outlines the interfaces and sturcts needed to implement
// concrete environments
package environment

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/timestep"
)

var (
	// ErrInvalidAction is returned when an action outside an
	// environment's ActionSpec is taken
	ErrInvalidAction = errors.New("invalid action")

	// ErrEpisodeOver is returned when Step is called after the last
	// step of an episode and before Reset
	ErrEpisodeOver = errors.New("episode is over")
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() statekey.Descriptor
}

// Ender determines when an episode should be cut off. If an episode
// should end, End modifies the argument TimeStep so that it is the
// last in the episode.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simualted environment with a small,
// enumerable set of discrete actions.
type Environment interface {
	// Reset starts a new episode and returns its first TimeStep
	Reset() (timestep.TimeStep, error)

	// Step takes an action and returns the next TimeStep and whether
	// the episode has ended
	Step(action Action) (timestep.TimeStep, bool, error)

	// LastTimeStep returns the most recent TimeStep
	LastTimeStep() timestep.TimeStep

	// ActionSpec returns the ordered set of actions of the environment
	ActionSpec() ActionSpec

	// Discount returns the discount used on each TimeStep
	Discount() float64
}

// CheckAction returns an error wrapping ErrInvalidAction if a is not
// in the ActionSpec
func CheckAction(spec ActionSpec, a Action) error {
	if !spec.Contains(a) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidAction, a,
			spec.Len())
	}
	return nil
}
