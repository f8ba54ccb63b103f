// Package sarsalambda implements the Sarsa(λ) algorithm with
// eligibility traces over a table of action values.
package sarsalambda

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

var log = logrus.WithField("component", "sarsalambda")

// SarsaLambda implements the online Sarsa(λ) algorithm
type SarsaLambda struct {
	*Learner
	behaviour *policy.Scheduled
	q         *table.ActionValues
	seed      uint64
}

// New creates a new SarsaLambda agent
func New(env environment.Environment, config Config,
	seed uint64) (*SarsaLambda, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("sarsalambda: invalid config: %w", err)
	}

	q := table.NewActionValues()
	e, err := policy.NewEGreedy(config.Epsilon, q, env.ActionSpec(), seed)
	if err != nil {
		return nil, fmt.Errorf("sarsalambda: invalid behaviour policy: %w",
			err)
	}

	schedule, err := config.Schedule()
	if err != nil {
		return nil, fmt.Errorf("sarsalambda: %w", err)
	}
	behaviour, err := policy.NewScheduled(e, schedule)
	if err != nil {
		return nil, fmt.Errorf("sarsalambda: %w", err)
	}

	learner := NewLearner(q, behaviour, config.LearningRate, config.Lambda,
		config.Replacing)

	return &SarsaLambda{learner, behaviour, q, seed}, nil
}

// SelectAction returns the action chosen by the last update if there
// is one for the argument TimeStep. Otherwise it samples a new action
// from the ε-greedy policy.
func (s *SarsaLambda) SelectAction(t timestep.TimeStep) environment.Action {
	if a, ok := s.Learner.nextAction(t); ok {
		return a
	}
	return s.behaviour.SelectAction(t)
}

// EndEpisode ends the current episode and advances the exploration
// schedule
func (s *SarsaLambda) EndEpisode() error {
	if err := s.Learner.EndEpisode(); err != nil {
		return err
	}
	return s.behaviour.NextEpisode()
}

// Restrict applies restrict to the policy the next action of each
// update is sampled from, so that a wrapper which overrides actions
// also overrides the action bootstrapped from
func (s *SarsaLambda) Restrict(restrict func(agent.Sampler) agent.Sampler) {
	s.Learner.behaviour = restrict(s.Learner.behaviour)
}

// Eval sets the agent to evaluation mode
func (s *SarsaLambda) Eval() { s.behaviour.Eval() }

// Train sets the agent to training mode
func (s *SarsaLambda) Train() { s.behaviour.Train() }

// IsEval returns whether the agent is in evaluation mode
func (s *SarsaLambda) IsEval() bool { return s.behaviour.IsEval() }

// Table returns the action values learned by the agent
func (s *SarsaLambda) Table() *table.ActionValues { return s.q }

// Epsilon returns the current exploration rate
func (s *SarsaLambda) Epsilon() float64 { return s.behaviour.Epsilon() }

// Clear forgets all learned action values and restarts the
// exploration schedule
func (s *SarsaLambda) Clear() {
	s.q.Clear()
	s.Learner.reset()
	if err := s.behaviour.Restart(); err != nil {
		log.WithError(err).Error("could not restart exploration schedule")
	}
}

var (
	_ agent.Tabular      = &SarsaLambda{}
	_ agent.Restrictable = &SarsaLambda{}
)
