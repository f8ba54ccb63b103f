package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gotabular/statekey"
)

// CategoricalStarter returns starting states sampled uniformly from a
// fixed set of starting states.
type CategoricalStarter struct {
	starts []statekey.Descriptor
	rand   distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter which samples
// uniformly from starts
func NewCategoricalStarter(starts []statekey.Descriptor,
	seed uint64) *CategoricalStarter {
	if len(starts) == 0 {
		panic("newCategoricalStarter: no starting states")
	}
	source := rand.NewSource(seed)

	weights := make([]float64, len(starts))
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}

	return &CategoricalStarter{
		starts: starts,
		rand:   distuv.NewCategorical(weights, source),
	}
}

// Start returns a starting state
func (c *CategoricalStarter) Start() statekey.Descriptor {
	return c.starts[int(c.rand.Rand())]
}

// SingleStart always starts episodes in the same state
type SingleStart statekey.Descriptor

// Start returns the starting state
func (s SingleStart) Start() statekey.Descriptor {
	return statekey.Descriptor(s)
}
