// Package policy implements epsilon-greedy and greedy policies over
// tabular action values
package policy

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
	"github.com/samuelfneumann/gotabular/utils/floatutils"
)

// GreedyDistribution returns the greedy distribution over actions in
// state s. Every action whose value ties at the maximum receives
// probability 1/|ties|, all other actions receive probability 0.
//
// GreedyDistribution panics if actions is empty.
func GreedyDistribution(actions []environment.Action, s statekey.Key,
	q *table.ActionValues) []float64 {
	if len(actions) == 0 {
		panic("greedyDistribution: empty action set")
	}

	_, ties := floatutils.MaxSlice(q.Values(s, actions))
	probs := make([]float64, len(actions))
	for _, i := range ties {
		probs[i] = 1.0 / float64(len(ties))
	}
	return probs
}

// Greedy implements a greedy policy. Ties between maximal actions are
// broken uniformly at random each time an action is selected.
type Greedy struct {
	q       *table.ActionValues
	actions []environment.Action
	seed    rand.Source
}

// NewGreedy returns a new Greedy policy over the argument actions
func NewGreedy(q *table.ActionValues, spec environment.ActionSpec,
	seed uint64) *Greedy {
	return &Greedy{
		q:       q,
		actions: spec.Actions(),
		seed:    rand.NewSource(seed),
	}
}

// SelectAction selects a greedy action in the state of the TimeStep
func (g *Greedy) SelectAction(t timestep.TimeStep) environment.Action {
	return g.Sample(t.Key())
}

// Sample selects a greedy action in state s
func (g *Greedy) Sample(s statekey.Key) environment.Action {
	return sampleGreedy(g.actions, s, g.q, g.seed)
}

// Probabilities returns the probability of selecting each action in
// state s
func (g *Greedy) Probabilities(s statekey.Key) []float64 {
	return GreedyDistribution(g.actions, s, g.q)
}

// Eval is a no-op, a Greedy policy is always in evaluation mode
func (g *Greedy) Eval() {}

// Train is a no-op, a Greedy policy is always in evaluation mode
func (g *Greedy) Train() {}

// IsEval returns true
func (g *Greedy) IsEval() bool { return true }

// sampleGreedy samples an action from the greedy distribution
func sampleGreedy(actions []environment.Action, s statekey.Key,
	q *table.ActionValues, src rand.Source) environment.Action {
	probs := GreedyDistribution(actions, s, q)
	dist := distuv.NewCategorical(probs, src)
	return actions[int(dist.Rand())]
}
