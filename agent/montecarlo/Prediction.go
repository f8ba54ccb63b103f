package montecarlo

import (
	"fmt"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// Prediction estimates the state values of a fixed policy by
// every-visit Monte Carlo. Actions are chosen by the wrapped policy,
// which is never changed by learning.
type Prediction struct {
	*PredictionLearner
	agent.Policy
	eval bool
}

// NewPrediction returns a new Prediction agent which evaluates p
func NewPrediction(p agent.Policy) *Prediction {
	return &Prediction{
		PredictionLearner: NewPredictionLearner(table.NewStateValues()),
		Policy:            p,
	}
}

// Eval stops learning. The evaluated policy is unaffected.
func (p *Prediction) Eval() { p.eval = true }

// Train resumes learning
func (p *Prediction) Train() { p.eval = false }

// IsEval returns whether learning is stopped. Fixed policies are
// always in evaluation mode themselves, so this reports the mode of the
// learner instead.
func (p *Prediction) IsEval() bool { return p.eval }

// PredictionLearner implements the update of every-visit Monte Carlo
// prediction of state values
type PredictionLearner struct {
	v        *table.StateValues
	episode  timestep.Episode
	step     timestep.TimeStep
	observed bool
}

// NewPredictionLearner returns a new PredictionLearner updating v
func NewPredictionLearner(v *table.StateValues) *PredictionLearner {
	return &PredictionLearner{v: v}
}

// Values returns the learned state values
func (p *PredictionLearner) Values() *table.StateValues {
	return p.v
}

// ObserveFirst observes and records the first episodic timestep
func (p *PredictionLearner) ObserveFirst(t timestep.TimeStep) error {
	p.episode.Reset()
	p.step = t
	p.observed = true
	return nil
}

// Observe records a visit to the last observed state
func (p *PredictionLearner) Observe(action environment.Action,
	nextStep timestep.TimeStep) error {
	if !p.observed {
		return fmt.Errorf("observe: %w", agent.ErrNotObserved)
	}
	p.episode.Append(p.step.Key(), int(action))
	if nextStep.Last() {
		p.episode.Finish(nextStep.Reward)
	} else if nextStep.Reward != 0 {
		return fmt.Errorf("observe: step %d reward %v: %w", nextStep.Number,
			nextStep.Reward, ErrIntermediateReward)
	}
	p.step = nextStep
	return nil
}

// Step updates the value of every visited state once the episode has
// terminated
func (p *PredictionLearner) Step() error {
	if !p.observed {
		return fmt.Errorf("step: %w", agent.ErrNotObserved)
	}
	if !p.episode.Done {
		return nil
	}
	for _, pair := range p.episode.Pairs {
		p.v.Increment(pair.State)
		p.v.Average(pair.State, p.episode.Reward)
	}
	p.episode.Reset()
	p.observed = false
	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (p *PredictionLearner) EndEpisode() error {
	p.episode.Reset()
	p.observed = false
	return nil
}

var _ agent.Agent = &Prediction{}
