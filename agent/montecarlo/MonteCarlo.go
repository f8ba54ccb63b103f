// Package montecarlo implements every-visit Monte Carlo control and
// prediction over tables of values.
//
// Returns are taken to be the reward received at termination. Episodes
// in which a non-terminal step carries a reward are rejected with
// ErrIntermediateReward rather than being discounted and summed.
package montecarlo

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

var log = logrus.WithField("component", "montecarlo")

// MonteCarlo implements on-policy every-visit Monte Carlo control with
// an ε-greedy policy
type MonteCarlo struct {
	*Learner
	behaviour *policy.Scheduled
	q         *table.ActionValues
	seed      uint64
}

// New creates a new MonteCarlo agent
func New(env environment.Environment, config Config,
	seed uint64) (*MonteCarlo, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("montecarlo: invalid config: %w", err)
	}

	q := table.NewActionValues()
	e, err := policy.NewEGreedy(config.Epsilon, q, env.ActionSpec(), seed)
	if err != nil {
		return nil, fmt.Errorf("montecarlo: invalid behaviour policy: %w",
			err)
	}

	schedule, err := config.Schedule()
	if err != nil {
		return nil, fmt.Errorf("montecarlo: %w", err)
	}
	behaviour, err := policy.NewScheduled(e, schedule)
	if err != nil {
		return nil, fmt.Errorf("montecarlo: %w", err)
	}

	return &MonteCarlo{NewLearner(q), behaviour, q, seed}, nil
}

// SelectAction selects an action from the ε-greedy policy
func (m *MonteCarlo) SelectAction(t timestep.TimeStep) environment.Action {
	return m.behaviour.SelectAction(t)
}

// EndEpisode ends the current episode and advances the exploration
// schedule
func (m *MonteCarlo) EndEpisode() error {
	if err := m.Learner.EndEpisode(); err != nil {
		return err
	}
	return m.behaviour.NextEpisode()
}

// Eval sets the agent to evaluation mode
func (m *MonteCarlo) Eval() { m.behaviour.Eval() }

// Train sets the agent to training mode
func (m *MonteCarlo) Train() { m.behaviour.Train() }

// IsEval returns whether the agent is in evaluation mode
func (m *MonteCarlo) IsEval() bool { return m.behaviour.IsEval() }

// Table returns the action values learned by the agent
func (m *MonteCarlo) Table() *table.ActionValues { return m.q }

// Epsilon returns the current exploration rate
func (m *MonteCarlo) Epsilon() float64 { return m.behaviour.Epsilon() }

// Clear forgets all learned action values and restarts the
// exploration schedule
func (m *MonteCarlo) Clear() {
	m.q.Clear()
	m.Learner.reset()
	if err := m.behaviour.Restart(); err != nil {
		log.WithError(err).Error("could not restart exploration schedule")
	}
}

var _ agent.Tabular = &MonteCarlo{}
