package sarsa

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

var log = logrus.WithField("component", "sarsa")

// Sampler samples actions in a state
type Sampler = agent.Sampler

// Learner implements the update functionality of the Sarsa algorithm.
//
// After each transition (s, a, r, s') the Learner samples the next
// action a' from the same policy used for control and moves Q(s, a)
// towards r + γQ(s', a'). The sampled a' is cached so that it is the
// action actually taken in s'.
type Learner struct {
	q         *table.ActionValues
	behaviour Sampler

	step     timestep.TimeStep
	action   environment.Action
	nextStep timestep.TimeStep

	next     environment.Action
	hasNext  bool
	observed bool

	learningRate float64
}

// NewLearner creates a new Sarsa Learner which updates q and samples
// next actions from behaviour
func NewLearner(q *table.ActionValues, behaviour Sampler,
	learningRate float64) *Learner {
	return &Learner{
		q:            q,
		behaviour:    behaviour,
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
	l.hasNext = false
	l.observed = true
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
	l.hasNext = false
	return nil
}

// Step updates the action value of the last observed transition
func (l *Learner) Step() error {
	if !l.observed {
		return fmt.Errorf("step: %w", agent.ErrNotObserved)
	}

	next := l.bootstrap()
	target := l.nextStep.Reward + l.nextStep.Discount*next

	s := l.step.Key()
	delta := target - l.q.Get(s, l.action)
	l.q.Add(s, l.action, l.learningRate*delta)
	l.q.Increment(s, l.action)

	return nil
}

// bootstrap samples and caches the next action and returns its value.
// Terminal states have a value of 0 and no next action.
func (l *Learner) bootstrap() float64 {
	if l.nextStep.Last() && l.nextStep.EndType != timestep.Timeout {
		return 0.0
	}
	l.next = l.behaviour.SelectAction(l.nextStep)
	l.hasNext = !l.nextStep.Last()
	return l.q.Get(l.nextStep.Key(), l.next)
}

// nextAction returns the cached next action if it was chosen for the
// argument TimeStep
func (l *Learner) nextAction(t timestep.TimeStep) (environment.Action, bool) {
	if !l.hasNext || t.Number != l.nextStep.Number ||
		t.Key() != l.nextStep.Key() {
		return 0, false
	}
	l.hasNext = false
	return l.next, true
}

// EndEpisode performs cleanup at the end of an episode
func (l *Learner) EndEpisode() error {
	l.reset()
	return nil
}

func (l *Learner) reset() {
	l.step = timestep.TimeStep{}
	l.nextStep = timestep.TimeStep{}
	l.hasNext = false
	l.observed = false
}
