package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// TargetPolicy samples the action used to bootstrap an update
type TargetPolicy interface {
	Sample(statekey.Key) environment.Action
}

// Learner implements the update functionality of the Q-learning
// algorithm. The update target is r + γQ(s', a'), where a' is sampled
// from the target policy. With a greedy target policy, Q(s', a') is
// the maximum action value in s' regardless of how ties are broken.
type Learner struct {
	q      *table.ActionValues
	target TargetPolicy

	step     timestep.TimeStep
	action   environment.Action
	nextStep timestep.TimeStep
	observed bool
	pending  bool

	learningRate float64
}

// NewLearner creates a new Q-learning Learner
func NewLearner(q *table.ActionValues, target TargetPolicy,
	learningRate float64) *Learner {
	return &Learner{
		q:            q,
		target:       target,
		learningRate: learningRate,
	}
}

// ObserveFirst observes and records the first episodic timestep
func (l *Learner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		log.WithField("step", t.Number).Warn("ObserveFirst called on a " +
			"timestep which is not first")
	}
	l.step = timestep.TimeStep{}
	l.nextStep = t
	l.observed = true
	l.pending = false
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (l *Learner) Observe(action environment.Action,
	nextStep timestep.TimeStep) error {
	if !l.observed {
		return fmt.Errorf("observe: %w", agent.ErrNotObserved)
	}
	l.step = l.nextStep
	l.action = action
	l.nextStep = nextStep
	l.pending = true
	return nil
}

// Step updates the action value of the last observed transition
func (l *Learner) Step() error {
	if !l.observed || !l.pending {
		return fmt.Errorf("step: %w", agent.ErrNotObserved)
	}
	l.pending = false

	return l.Replay(environment.NewTransition(l.step, l.action, l.nextStep))
}

// Replay updates the action value of a transition, which need not be
// the last one observed. The target policy is greedy, so transitions
// generated by older behaviour policies are still valid updates.
func (l *Learner) Replay(t environment.Transition) error {
	s := t.State.Key()
	l.q.Add(s, t.Action, l.learningRate*l.TdError(t))
	l.q.Increment(s, t.Action)
	return nil
}

// TdError returns the TD error of a transition under the current
// action values
func (l *Learner) TdError(t environment.Transition) float64 {
	target := t.Reward
	if !t.Terminal {
		next := t.NextState.Key()
		a := l.target.Sample(next)
		target += t.Discount * l.q.Get(next, a)
	}
	return target - l.q.Get(t.State.Key(), t.Action)
}

// EndEpisode performs cleanup at the end of an episode
func (l *Learner) EndEpisode() error {
	l.step = timestep.TimeStep{}
	l.nextStep = timestep.TimeStep{}
	l.observed = false
	l.pending = false
	return nil
}
