// Package qlearning implements the off-policy Q-learning algorithm
// over a table of action values.
package qlearning

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
	"github.com/samuelfneumann/gotabular/utils/seeds"
)

var log = logrus.WithField("component", "qlearning")

// QLearning implements the online Q-learning algorithm. Actions are
// taken by an ε-greedy behaviour policy while updates bootstrap off a
// greedy target policy over the same table.
type QLearning struct {
	*Learner
	behaviour *policy.Scheduled
	q         *table.ActionValues
	seed      uint64
}

// New creates a new QLearning agent
func New(env environment.Environment, config Config,
	seed uint64) (*QLearning, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("qlearning: invalid config: %w", err)
	}

	q := table.NewActionValues()
	e, err := policy.NewEGreedy(config.Epsilon, q, env.ActionSpec(), seed)
	if err != nil {
		return nil, fmt.Errorf("qlearning: invalid behaviour policy: %w",
			err)
	}

	schedule, err := config.Schedule()
	if err != nil {
		return nil, fmt.Errorf("qlearning: %w", err)
	}
	behaviour, err := policy.NewScheduled(e, schedule)
	if err != nil {
		return nil, fmt.Errorf("qlearning: %w", err)
	}

	// The target policy gets its own stream so that tie breaking in the
	// target does not shift the actions the behaviour policy takes
	target := policy.NewGreedy(q, env.ActionSpec(),
		seeds.Derive(seed, seeds.Target))

	learner := NewLearner(q, target, config.LearningRate)

	return &QLearning{learner, behaviour, q, seed}, nil
}

// SelectAction selects an action from the ε-greedy behaviour policy
func (q *QLearning) SelectAction(t timestep.TimeStep) environment.Action {
	return q.behaviour.SelectAction(t)
}

// EndEpisode ends the current episode and advances the exploration
// schedule
func (q *QLearning) EndEpisode() error {
	if err := q.Learner.EndEpisode(); err != nil {
		return err
	}
	return q.behaviour.NextEpisode()
}

// Eval sets the agent to evaluation mode
func (q *QLearning) Eval() { q.behaviour.Eval() }

// Train sets the agent to training mode
func (q *QLearning) Train() { q.behaviour.Train() }

// IsEval returns whether the agent is in evaluation mode
func (q *QLearning) IsEval() bool { return q.behaviour.IsEval() }

// Table returns the action values learned by the agent
func (q *QLearning) Table() *table.ActionValues { return q.q }

// Epsilon returns the current exploration rate
func (q *QLearning) Epsilon() float64 { return q.behaviour.Epsilon() }

// Clear forgets all learned action values and restarts the
// exploration schedule
func (q *QLearning) Clear() {
	q.q.Clear()
	if err := q.Learner.EndEpisode(); err != nil {
		log.WithError(err).Error("could not reset learner")
	}
	if err := q.behaviour.Restart(); err != nil {
		log.WithError(err).Error("could not restart exploration schedule")
	}
}

var (
	_ agent.Tabular   = &QLearning{}
	_ agent.TdErrorer = &QLearning{}
	_ agent.Replayer  = &QLearning{}
)
