package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SelectorType determines how transitions are sampled from a Memory
type SelectorType string

const (
	Uniform                   SelectorType = "Uniform"
	UniformWithoutReplacement SelectorType = "UniformWithoutReplacement"
	Fifo                      SelectorType = "Fifo"
)

// CreateSelector returns a new Selector of the argument type
func CreateSelector(t SelectorType, samples int,
	seed uint64) (Selector, error) {
	if samples < 1 {
		return nil, fmt.Errorf("createSelector: batch size must be >= 1")
	}

	switch t {
	case Uniform:
		return NewUniformSelector(samples, seed), nil
	case UniformWithoutReplacement:
		return NewUniformWithoutReplacementSelector(samples, seed), nil
	case Fifo:
		return NewFifoSelector(samples), nil
	}
	return nil, fmt.Errorf("createSelector: no such selector %q", t)
}

// Selector implements functionality for choosing which stored
// transitions are sampled from a Memory
type Selector interface {
	// choose selects BatchSize indices into n stored transitions,
	// which are ordered from oldest to newest
	choose(n int) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int
}

// uniformSelector selects transitions uniformly at random with
// replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects transitions
// uniformly at random with replacement
func NewUniformSelector(samples int, seed uint64) Selector {
	return &uniformSelector{
		samples: samples,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// BatchSize returns the number of samples in a batch
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

func (u *uniformSelector) choose(n int) []int {
	selected := make([]int, u.samples)
	for i := range selected {
		selected[i] = u.rng.Intn(n)
	}
	return selected
}

// uniformWithoutReplacementSelector selects distinct transitions
// uniformly at random
type uniformWithoutReplacementSelector struct {
	samples int
	src     rand.Source
}

// NewUniformWithoutReplacementSelector returns a new Selector which
// selects distinct transitions uniformly at random
func NewUniformWithoutReplacementSelector(samples int, seed uint64) Selector {
	return &uniformWithoutReplacementSelector{
		samples: samples,
		src:     rand.NewSource(seed),
	}
}

// BatchSize returns the number of samples in a batch
func (u *uniformWithoutReplacementSelector) BatchSize() int {
	return u.samples
}

func (u *uniformWithoutReplacementSelector) choose(n int) []int {
	selected := make([]int, u.samples)
	sampleuv.WithoutReplacement(selected, n, u.src)
	return selected
}

// fifoSelector selects the oldest stored transitions
type fifoSelector struct {
	samples int
}

// NewFifoSelector returns a new Selector which selects the oldest
// transitions in a Memory
func NewFifoSelector(samples int) Selector {
	return &fifoSelector{samples: samples}
}

// BatchSize returns the number of samples in a batch
func (f *fifoSelector) BatchSize() int {
	return f.samples
}

func (f *fifoSelector) choose(n int) []int {
	selected := make([]int, f.samples)
	for i := range selected {
		selected[i] = i
	}
	return selected
}
