package blackjack

import (
	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/timestep"
)

// Thresholds of the forced actions of a Player
const (
	MinBidPoints  = 12 // below this a Player always bids
	MaxStopPoints = 21 // at or above this a Player always stops
)

// Forced returns the action a player must take in a state, if any.
// Players always stop at 21 or more and always bid below 12.
func Forced(obs statekey.Descriptor) (environment.Action, bool) {
	points := obs.Int(1)
	switch {
	case points >= MaxStopPoints:
		return Stop, true
	case points < MinBidPoints:
		return Bid, true
	}
	return 0, false
}

// Player wraps an agent so that it takes the forced actions of the
// game and only chooses between Bid and Stop when the choice matters.
// Forced actions are still observed by the agent and recorded in its
// episodes.
type Player struct {
	agent.Agent
}

// NewPlayer returns a new Player which delegates to a. If a samples
// the actions it bootstraps from itself, its sampling is restricted to
// the forced actions too.
func NewPlayer(a agent.Agent) *Player {
	if r, ok := a.(agent.Restrictable); ok {
		r.Restrict(func(s agent.Sampler) agent.Sampler {
			return forcedSampler{s}
		})
	}
	return &Player{a}
}

// forcedSampler samples the forced action in a state if there is one
type forcedSampler struct {
	agent.Sampler
}

func (f forcedSampler) SelectAction(t timestep.TimeStep) environment.Action {
	if a, ok := Forced(t.Observation); ok {
		return a
	}
	return f.Sampler.SelectAction(t)
}

// SelectAction selects the forced action in a state if there is one,
// otherwise it asks the wrapped agent
func (p *Player) SelectAction(t timestep.TimeStep) environment.Action {
	if a, ok := Forced(t.Observation); ok {
		return a
	}
	return p.Agent.SelectAction(t)
}

// Unwrap returns the wrapped agent
func (p *Player) Unwrap() agent.Agent {
	return p.Agent
}

// FixedPlayer is the fixed policy which bids below FixedStop points
type FixedPlayer struct{}

// FixedStop is the number of points at which a FixedPlayer stops
const FixedStop = 20

// SelectAction bids below FixedStop points and stops otherwise
func (FixedPlayer) SelectAction(t timestep.TimeStep) environment.Action {
	if t.Observation.Int(1) < FixedStop {
		return Bid
	}
	return Stop
}

// Eval is a no-op
func (FixedPlayer) Eval() {}

// Train is a no-op
func (FixedPlayer) Train() {}

// IsEval returns true
func (FixedPlayer) IsEval() bool { return true }

var _ agent.Policy = FixedPlayer{}
