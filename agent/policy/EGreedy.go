package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
)

// EGreedy implements an ε-greedy policy over a table of action values.
// With probability ε a uniformly random action is selected, otherwise
// an action is sampled from the greedy distribution.
//
// In evaluation mode the policy acts greedily.
type EGreedy struct {
	q       *table.ActionValues
	actions []environment.Action
	epsilon float64
	eval    bool

	seed rand.Source // Seed for random number generation
	rng  *rand.Rand
}

// NewEGreedy constructs a new EGreedy policy, where e=epislon is the
// probability with which a random action is selected and spec
// determines the actions which can be selected.
func NewEGreedy(e float64, q *table.ActionValues, spec environment.ActionSpec,
	seed uint64) (*EGreedy, error) {
	if err := checkEpsilon(e); err != nil {
		return nil, fmt.Errorf("newEGreedy: %w", err)
	}
	if spec.Len() == 0 {
		return nil, fmt.Errorf("newEGreedy: empty action set")
	}

	source := rand.NewSource(seed)
	return &EGreedy{
		q:       q,
		actions: spec.Actions(),
		epsilon: e,
		seed:    source,
		rng:     rand.New(source),
	}, nil
}

// SelectAction selects an action from an ε-greedy policy in the state
// of the argument TimeStep
func (p *EGreedy) SelectAction(t timestep.TimeStep) environment.Action {
	return p.Sample(t.Key())
}

// Sample selects an action in state s
func (p *EGreedy) Sample(s statekey.Key) environment.Action {
	if !p.eval && p.rng.Float64() < p.epsilon {
		return p.actions[p.rng.Intn(len(p.actions))]
	}
	return sampleGreedy(p.actions, s, p.q, p.seed)
}

// Probabilities returns the probability of selecting each action in
// state s: (1 - ε) times the greedy distribution plus ε / |A|
func (p *EGreedy) Probabilities(s statekey.Key) []float64 {
	probs := GreedyDistribution(p.actions, s, p.q)
	e := p.Epsilon()
	for i := range probs {
		probs[i] = (1-e)*probs[i] + e/float64(len(probs))
	}
	return probs
}

// Epsilon returns the exploration rate currently in use
func (p *EGreedy) Epsilon() float64 {
	if p.eval {
		return 0
	}
	return p.epsilon
}

// SetEpsilon sets the exploration rate
func (p *EGreedy) SetEpsilon(e float64) error {
	if err := checkEpsilon(e); err != nil {
		return fmt.Errorf("setEpsilon: %w", err)
	}
	p.epsilon = e
	return nil
}

// Actions returns the actions the policy selects from
func (p *EGreedy) Actions() []environment.Action {
	return p.actions
}

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() { p.eval = true }

// Train sets the policy to training mode
func (p *EGreedy) Train() { p.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool { return p.eval }

func checkEpsilon(e float64) error {
	if e < 0 || e > 1 {
		return fmt.Errorf("epsilon must be in [0, 1], got %v", e)
	}
	return nil
}
