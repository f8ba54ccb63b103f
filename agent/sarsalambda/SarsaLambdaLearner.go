package sarsalambda

import (
	"fmt"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// Sampler samples actions in a state
type Sampler = agent.Sampler

// Learner implements the update functionality of the Sarsa(λ)
// algorithm.
//
// On each transition (s, a, r, s') with next action a' the TD error
// δ = r + γQ(s', a') - Q(s, a) is computed, the trace of (s, a) is
// incremented, and then every traced pair is updated by
// Q += αδE before its trace decays by E *= γλ. Pairs without a trace
// are unaffected by the update, so only traced pairs are visited.
// Traces are reset at the start of every episode.
type Learner struct {
	q         *table.ActionValues
	traces    *table.Traces
	behaviour Sampler

	step     timestep.TimeStep
	action   environment.Action
	nextStep timestep.TimeStep

	next     environment.Action
	hasNext  bool
	observed bool

	learningRate float64
	lambda       float64
	replacing    bool
}

// NewLearner creates a new Sarsa(λ) Learner which updates q and
// samples next actions from behaviour
func NewLearner(q *table.ActionValues, behaviour Sampler, learningRate,
	lambda float64, replacing bool) *Learner {
	return &Learner{
		q:            q,
		traces:       table.NewTraces(),
		behaviour:    behaviour,
		learningRate: learningRate,
		lambda:       lambda,
		replacing:    replacing,
	}
}

// ObserveFirst observes and records the first episodic timestep
func (l *Learner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		log.WithField("step", t.Number).Warn("ObserveFirst called on a " +
			"timestep which is not first")
	}
	l.traces.Reset()
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

// Step updates the action values of every traced pair
func (l *Learner) Step() error {
	if !l.observed {
		return fmt.Errorf("step: %w", agent.ErrNotObserved)
	}

	next := l.bootstrap()
	discount := l.nextStep.Discount
	target := l.nextStep.Reward + discount*next

	s := l.step.Key()
	delta := target - l.q.Get(s, l.action)

	if l.replacing {
		l.traces.Replace(s, l.action)
	} else {
		l.traces.Accumulate(s, l.action)
	}
	l.traces.Update(l.q, l.learningRate*delta, discount*l.lambda)
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

// Traces returns the number of pairs which currently have a trace
func (l *Learner) Traces() int {
	return l.traces.Len()
}

// EndEpisode performs cleanup at the end of an episode
func (l *Learner) EndEpisode() error {
	l.reset()
	return nil
}

func (l *Learner) reset() {
	l.traces.Reset()
	l.step = timestep.TimeStep{}
	l.nextStep = timestep.TimeStep{}
	l.hasNext = false
	l.observed = false
}
