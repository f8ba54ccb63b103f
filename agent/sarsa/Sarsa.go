// Package sarsa implements the on-policy Sarsa algorithm over a table
// of action values.
package sarsa

import (
	"fmt"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// Sarsa implements the online Sarsa algorithm. The action used to
// bootstrap each update is the action the agent takes next.
type Sarsa struct {
	*Learner
	behaviour *policy.Scheduled
	q         *table.ActionValues
	seed      uint64
}

// New creates a new Sarsa agent
func New(env environment.Environment, config Config,
	seed uint64) (*Sarsa, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("sarsa: invalid config: %w", err)
	}

	q := table.NewActionValues()
	e, err := policy.NewEGreedy(config.Epsilon, q, env.ActionSpec(), seed)
	if err != nil {
		return nil, fmt.Errorf("sarsa: invalid behaviour policy: %w", err)
	}

	schedule, err := config.Schedule()
	if err != nil {
		return nil, fmt.Errorf("sarsa: %w", err)
	}
	behaviour, err := policy.NewScheduled(e, schedule)
	if err != nil {
		return nil, fmt.Errorf("sarsa: %w", err)
	}

	learner := NewLearner(q, behaviour, config.LearningRate)

	return &Sarsa{learner, behaviour, q, seed}, nil
}

// SelectAction returns the action chosen by the last update if there
// is one for the argument TimeStep. Otherwise it samples a new action
// from the ε-greedy policy.
func (s *Sarsa) SelectAction(t timestep.TimeStep) environment.Action {
	if a, ok := s.Learner.nextAction(t); ok {
		return a
	}
	return s.behaviour.SelectAction(t)
}

// EndEpisode ends the current episode and advances the exploration
// schedule
func (s *Sarsa) EndEpisode() error {
	if err := s.Learner.EndEpisode(); err != nil {
		return err
	}
	return s.behaviour.NextEpisode()
}

// Restrict applies restrict to the policy the next action of each
// update is sampled from, so that a wrapper which overrides actions
// also overrides the action bootstrapped from
func (s *Sarsa) Restrict(restrict func(agent.Sampler) agent.Sampler) {
	s.Learner.behaviour = restrict(s.Learner.behaviour)
}

// Eval sets the agent to evaluation mode
func (s *Sarsa) Eval() { s.behaviour.Eval() }

// Train sets the agent to training mode
func (s *Sarsa) Train() { s.behaviour.Train() }

// IsEval returns whether the agent is in evaluation mode
func (s *Sarsa) IsEval() bool { return s.behaviour.IsEval() }

// Table returns the action values learned by the agent
func (s *Sarsa) Table() *table.ActionValues { return s.q }

// Epsilon returns the current exploration rate
func (s *Sarsa) Epsilon() float64 { return s.behaviour.Epsilon() }

// Clear forgets all learned action values and restarts the
// exploration schedule
func (s *Sarsa) Clear() {
	s.q.Clear()
	s.Learner.reset()
	if err := s.behaviour.Restart(); err != nil {
		log.WithError(err).Error("could not restart exploration schedule")
	}
}

var (
	_ agent.Tabular      = &Sarsa{}
	_ agent.Restrictable = &Sarsa{}
)
