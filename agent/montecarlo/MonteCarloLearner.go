package montecarlo

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// ErrIntermediateReward is returned when a non-terminal step of an
// episode carries a non-zero reward
var ErrIntermediateReward = errors.New("non-zero reward before episode end")

// Learner implements the update of every-visit Monte Carlo control.
// Pairs are buffered as they are observed. Once the terminal step has
// been observed, the next call to Step moves every buffered pair, in
// visit order, towards the terminal reward by the incremental mean
// n <- n + 1, Q <- Q + (R - Q) / n.
type Learner struct {
	q        *table.ActionValues
	episode  timestep.Episode
	step     timestep.TimeStep
	observed bool
}

// NewLearner returns a new Monte Carlo Learner updating q
func NewLearner(q *table.ActionValues) *Learner {
	return &Learner{q: q}
}

// ObserveFirst observes and records the first episodic timestep
func (l *Learner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		log.WithField("step", t.Number).Warn("ObserveFirst called on a " +
			"timestep which is not first")
	}
	l.episode.Reset()
	l.step = t
	l.observed = true
	return nil
}

// Observe records that action was taken in the last observed state
func (l *Learner) Observe(action environment.Action,
	nextStep timestep.TimeStep) error {
	if !l.observed {
		return fmt.Errorf("observe: %w", agent.ErrNotObserved)
	}
	if l.episode.Done {
		return fmt.Errorf("observe: %w", environment.ErrEpisodeOver)
	}

	l.episode.Append(l.step.Key(), int(action))
	if nextStep.Last() {
		l.episode.Finish(nextStep.Reward)
	} else if nextStep.Reward != 0 {
		return fmt.Errorf("observe: step %d reward %v: %w", nextStep.Number,
			nextStep.Reward, ErrIntermediateReward)
	}
	l.step = nextStep
	return nil
}

// Step updates the action values of the episode once it has
// terminated. Before that, Step does nothing.
func (l *Learner) Step() error {
	if !l.observed {
		return fmt.Errorf("step: %w", agent.ErrNotObserved)
	}
	if !l.episode.Done {
		return nil
	}

	r := l.episode.Reward
	for _, p := range l.episode.Pairs {
		a := environment.Action(p.Action)
		l.q.Increment(p.State, a)
		l.q.Average(p.State, a, r)
	}
	log.WithFields(logrus.Fields{
		"pairs":  l.episode.Len(),
		"reward": r,
	}).Trace("episode learned")

	l.episode.Reset()
	l.observed = false
	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (l *Learner) EndEpisode() error {
	if l.episode.Done {
		log.Warn("episode ended before its returns were learned")
	}
	l.reset()
	return nil
}

func (l *Learner) reset() {
	l.episode.Reset()
	l.step = timestep.TimeStep{}
	l.observed = false
}
